package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rickgao/market-replay/internal/model"
)

// Postgres loads daily records from the trades, ticks and
// orderbook_snapshots tables. Rows are keyed by ticker and exchange_ts
// (microseconds since epoch); book levels are stored as JSONB arrays.
type Postgres struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

// NewPostgres creates a database-backed loader.
func NewPostgres(db *pgxpool.Pool, logger *slog.Logger) *Postgres {
	if logger == nil {
		logger = slog.Default()
	}
	return &Postgres{db: db, logger: logger}
}

// Load fetches all records for one (date, ticker, kind), ordered by
// exchange timestamp.
func (l *Postgres) Load(ctx context.Context, date time.Time, ticker string, kind model.Kind) ([]model.Record, error) {
	from := date.UnixMicro()
	to := date.AddDate(0, 0, 1).UnixMicro()

	l.logger.Debug("loading from database",
		"ticker", ticker,
		"kind", kind,
		"from", from,
		"to", to,
	)

	switch kind {
	case model.KindTrade:
		return l.loadTrades(ctx, ticker, from, to)
	case model.KindTick:
		return l.loadTicks(ctx, ticker, from, to)
	case model.KindOrderBook:
		return l.loadOrderBooks(ctx, ticker, from, to)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedKind, kind)
	}
}

func (l *Postgres) loadTrades(ctx context.Context, ticker string, from, to int64) ([]model.Record, error) {
	rows, err := l.db.Query(ctx, `
		SELECT trade_id, exchange_ts, price, size, taker_side
		FROM trades
		WHERE ticker = $1 AND exchange_ts >= $2 AND exchange_ts < $3
		ORDER BY exchange_ts
	`, ticker, from, to)
	if err != nil {
		return nil, fmt.Errorf("query trades: %w", err)
	}
	defer rows.Close()

	var recs []model.Record
	for rows.Next() {
		t := model.Trade{Ticker: ticker}
		if err := rows.Scan(&t.TradeID, &t.ExchangeTS, &t.Price, &t.Size, &t.TakerSide); err != nil {
			return nil, fmt.Errorf("scan trade: %w", err)
		}
		recs = append(recs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trades: %w", err)
	}
	return recs, nil
}

func (l *Postgres) loadTicks(ctx context.Context, ticker string, from, to int64) ([]model.Record, error) {
	rows, err := l.db.Query(ctx, `
		SELECT exchange_ts, bid, ask, bid_size, ask_size, last_price, volume
		FROM ticks
		WHERE ticker = $1 AND exchange_ts >= $2 AND exchange_ts < $3
		ORDER BY exchange_ts
	`, ticker, from, to)
	if err != nil {
		return nil, fmt.Errorf("query ticks: %w", err)
	}
	defer rows.Close()

	var recs []model.Record
	for rows.Next() {
		t := model.Tick{Ticker: ticker}
		if err := rows.Scan(&t.ExchangeTS, &t.Bid, &t.Ask, &t.BidSize, &t.AskSize, &t.LastPrice, &t.Volume); err != nil {
			return nil, fmt.Errorf("scan tick: %w", err)
		}
		recs = append(recs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ticks: %w", err)
	}
	return recs, nil
}

func (l *Postgres) loadOrderBooks(ctx context.Context, ticker string, from, to int64) ([]model.Record, error) {
	rows, err := l.db.Query(ctx, `
		SELECT exchange_ts, bids, asks
		FROM orderbook_snapshots
		WHERE ticker = $1 AND exchange_ts >= $2 AND exchange_ts < $3
		ORDER BY exchange_ts
	`, ticker, from, to)
	if err != nil {
		return nil, fmt.Errorf("query orderbook snapshots: %w", err)
	}
	defer rows.Close()

	var recs []model.Record
	for rows.Next() {
		b := model.OrderBook{Ticker: ticker}
		var bids, asks []byte
		if err := rows.Scan(&b.ExchangeTS, &bids, &asks); err != nil {
			return nil, fmt.Errorf("scan orderbook snapshot: %w", err)
		}
		if err := json.Unmarshal(bids, &b.Bids); err != nil {
			return nil, fmt.Errorf("decode bids: %w", err)
		}
		if err := json.Unmarshal(asks, &b.Asks); err != nil {
			return nil, fmt.Errorf("decode asks: %w", err)
		}
		recs = append(recs, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orderbook snapshots: %w", err)
	}
	return recs, nil
}
