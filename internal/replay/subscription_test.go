package replay

import (
	"testing"

	"github.com/rickgao/market-replay/internal/model"
)

func TestSubscription_Topic(t *testing.T) {
	sub := Subscription{Ticker: "000004.SZ", Kind: model.KindTrade}
	if got, want := sub.Topic(), "000004.SZ.trade"; got != want {
		t.Errorf("Topic = %q, want %q", got, want)
	}
}

func TestRegistry_AddIsIdempotent(t *testing.T) {
	r := newRegistry()
	r.add(Subscription{Ticker: "AAA", Kind: model.KindTrade})
	r.add(Subscription{Ticker: "BBB", Kind: model.KindTrade})
	r.add(Subscription{Ticker: "AAA", Kind: model.KindTrade})

	if r.len() != 2 {
		t.Fatalf("len = %d, want 2", r.len())
	}

	// Re-adding must not move AAA behind BBB.
	subs := r.list()
	if subs[0].Ticker != "AAA" || subs[1].Ticker != "BBB" {
		t.Errorf("order = [%s, %s], want [AAA, BBB]", subs[0].Ticker, subs[1].Ticker)
	}
}

func TestRegistry_RemoveAbsentIsNoop(t *testing.T) {
	r := newRegistry()
	r.add(Subscription{Ticker: "AAA", Kind: model.KindTrade})
	r.remove(Subscription{Ticker: "AAA", Kind: model.KindTick})
	r.remove(Subscription{Ticker: "ZZZ", Kind: model.KindTrade})

	if r.len() != 1 {
		t.Errorf("len = %d, want 1", r.len())
	}
}

func TestRegistry_RemovePreservesOrder(t *testing.T) {
	r := newRegistry()
	r.add(Subscription{Ticker: "AAA", Kind: model.KindTrade})
	r.add(Subscription{Ticker: "BBB", Kind: model.KindTrade})
	r.add(Subscription{Ticker: "CCC", Kind: model.KindTrade})
	r.remove(Subscription{Ticker: "BBB", Kind: model.KindTrade})

	subs := r.list()
	if len(subs) != 2 || subs[0].Ticker != "AAA" || subs[1].Ticker != "CCC" {
		t.Errorf("list = %v, want [AAA, CCC]", subs)
	}
}

func TestRegistry_SameTickerDistinctKinds(t *testing.T) {
	r := newRegistry()
	r.add(Subscription{Ticker: "AAA", Kind: model.KindTrade})
	r.add(Subscription{Ticker: "AAA", Kind: model.KindTick})
	r.add(Subscription{Ticker: "AAA", Kind: model.KindOrderBook})

	if r.len() != 3 {
		t.Errorf("len = %d, want 3", r.len())
	}
}
