package model

import "testing"

func TestKind_Valid(t *testing.T) {
	tests := []struct {
		kind Kind
		want bool
	}{
		{KindTrade, true},
		{KindTick, true},
		{KindOrderBook, true},
		{Kind("candle"), false},
		{Kind(""), false},
	}

	for _, tt := range tests {
		if got := tt.kind.Valid(); got != tt.want {
			t.Errorf("Kind(%q).Valid() = %v, want %v", tt.kind, got, tt.want)
		}
	}
}

func TestDefaultKinds_CoversKnownSet(t *testing.T) {
	kinds := DefaultKinds()
	if len(kinds) != 3 {
		t.Fatalf("DefaultKinds returned %d kinds, want 3", len(kinds))
	}
	for _, k := range kinds {
		if !k.Valid() {
			t.Errorf("default kind %q is not valid", k)
		}
	}
}

func TestRecords_MarketTime(t *testing.T) {
	const at = int64(1709888400000000)

	records := []Record{
		Trade{ExchangeTS: at},
		Tick{ExchangeTS: at},
		OrderBook{ExchangeTS: at},
	}
	for i, r := range records {
		if r.MarketTime() != at {
			t.Errorf("record %d MarketTime = %d, want %d", i, r.MarketTime(), at)
		}
	}
}
