package model

import "github.com/google/uuid"

// Record is any timestamped market event that can be replayed.
// The replay engine sorts and merges records by MarketTime alone and
// never inspects any other field.
type Record interface {
	// MarketTime returns the event time in microseconds since epoch.
	MarketTime() int64
}

// Kind identifies a class of market data records. The known kinds below
// cover the standard record types; arbitrary strings are accepted for
// custom record classes served by a custom loader.
type Kind string

const (
	KindTrade     Kind = "trade"
	KindTick      Kind = "tick"
	KindOrderBook Kind = "orderbook"
)

// DefaultKinds returns the full known record-kind set, used when a replay
// is configured without an explicit kind list.
func DefaultKinds() []Kind {
	return []Kind{KindTrade, KindOrderBook, KindTick}
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindTrade, KindTick, KindOrderBook:
		return true
	}
	return false
}

// -----------------------------------------------------------------------------
// Concrete record types
// -----------------------------------------------------------------------------

// Trade represents an executed trade.
type Trade struct {
	TradeID    uuid.UUID // Source-assigned trade ID
	ExchangeTS int64     // Exchange timestamp (µs since epoch)
	Ticker     string    // Market ticker
	Price      int       // Trade price (hundred-thousandths, 0-100,000)
	Size       int       // Number of contracts
	TakerSide  bool      // true = buy-side taker, false = sell-side taker
}

func (t Trade) MarketTime() int64 { return t.ExchangeTS }

// Tick represents a top-of-book quote update.
type Tick struct {
	ExchangeTS int64  // Exchange timestamp (µs since epoch)
	Ticker     string // Market ticker
	Bid        int    // Best bid price (hundred-thousandths)
	Ask        int    // Best ask price (hundred-thousandths)
	BidSize    int    // Quantity at best bid
	AskSize    int    // Quantity at best ask
	LastPrice  int    // Last trade price (hundred-thousandths)
	Volume     int64  // Cumulative session volume
}

func (t Tick) MarketTime() int64 { return t.ExchangeTS }

// PriceLevel represents a single price level in an order book.
type PriceLevel struct {
	Price int // Price (hundred-thousandths, 0-100,000)
	Size  int // Quantity at this price
}

// OrderBook represents a full order book state at a point in time.
type OrderBook struct {
	ExchangeTS int64        // Exchange timestamp (µs since epoch)
	Ticker     string       // Market ticker
	Bids       []PriceLevel // Buy side, best first
	Asks       []PriceLevel // Sell side, best first
}

func (b OrderBook) MarketTime() int64 { return b.ExchangeTS }
