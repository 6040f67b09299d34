package stream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rickgao/market-replay/internal/calendar"
	"github.com/rickgao/market-replay/internal/model"
	"github.com/rickgao/market-replay/internal/progress"
	"github.com/rickgao/market-replay/internal/replay"
)

func testEngine(t *testing.T) *replay.Engine {
	t.Helper()

	day := calendar.Date(2024, 3, 8)
	loader := func(ctx context.Context, date time.Time, ticker string, kind model.Kind) ([]model.Record, error) {
		return []model.Record{
			model.Trade{Ticker: ticker, ExchangeTS: day.Add(9 * time.Hour).UnixMicro(), Price: 52000, Size: 1},
			model.Tick{Ticker: ticker, ExchangeTS: day.Add(10 * time.Hour).UnixMicro(), Bid: 51900, Ask: 52100},
		}, nil
	}

	e, err := replay.New(loader, replay.Options{
		Calendar:      []time.Time{day},
		Subscriptions: []replay.Subscription{{Ticker: "AAA", Kind: model.KindTrade}},
		Progress:      &progress.Nop{},
	})
	if err != nil {
		t.Fatalf("engine setup failed: %v", err)
	}
	return e
}

func TestServer_StreamsEnvelopes(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Addr = "127.0.0.1:0"

	s := NewServer(cfg, testEngine(t), nil)

	ctx := context.Background()
	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		s.Stop(stopCtx)
	}()

	// Dial through a test listener sharing the same handler.
	ts := httptest.NewServer(http.HandlerFunc(s.handleWS))
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	// Client-side view of an Envelope: the record stays raw JSON.
	type frame struct {
		Seq    int64           `json:"seq"`
		Kind   string          `json:"kind"`
		Record json.RawMessage `json:"record"`
	}

	var first frame
	if err := conn.ReadJSON(&first); err != nil {
		t.Fatalf("read first envelope: %v", err)
	}
	if first.Seq != 1 {
		t.Errorf("first Seq = %d, want 1", first.Seq)
	}
	if first.Kind != string(model.KindTrade) {
		t.Errorf("first Kind = %q, want %q", first.Kind, model.KindTrade)
	}
	if len(first.Record) == 0 {
		t.Error("first envelope has empty record payload")
	}

	var second frame
	if err := conn.ReadJSON(&second); err != nil {
		t.Fatalf("read second envelope: %v", err)
	}
	if second.Seq != 2 {
		t.Errorf("second Seq = %d, want 2", second.Seq)
	}
	if second.Kind != string(model.KindTick) {
		t.Errorf("second Kind = %q, want %q", second.Kind, model.KindTick)
	}
}

func TestServer_ClientCount(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Addr = "127.0.0.1:0"

	s := NewServer(cfg, testEngine(t), nil)

	ctx := context.Background()
	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		s.Stop(stopCtx)
	}()

	ts := httptest.NewServer(http.HandlerFunc(s.handleWS))
	defer ts.Close()

	if got := s.Clients(); got != 0 {
		t.Fatalf("Clients = %d before connect, want 0", got)
	}

	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for s.Clients() != 1 {
		if time.Now().After(deadline) {
			t.Fatal("client not registered after connect")
		}
		time.Sleep(10 * time.Millisecond)
	}

	conn.Close()
	deadline = time.Now().Add(2 * time.Second)
	for s.Clients() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("client not dropped after close")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		rec  model.Record
		want string
	}{
		{model.Trade{}, "trade"},
		{model.Tick{}, "tick"},
		{model.OrderBook{}, "orderbook"},
	}
	for _, tt := range tests {
		if got := kindOf(tt.rec); got != tt.want {
			t.Errorf("kindOf(%T) = %q, want %q", tt.rec, got, tt.want)
		}
	}
}
