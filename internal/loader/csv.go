package loader

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/rickgao/market-replay/internal/calendar"
	"github.com/rickgao/market-replay/internal/model"
)

// ErrUnsupportedKind is returned for record kinds a loader cannot serve.
var ErrUnsupportedKind = errors.New("loader: unsupported record kind")

// Per-kind subdirectory names under each date directory.
const (
	tradesDir     = "transactions"
	ticksDir      = "ticks"
	orderBooksDir = "orderbooks"
)

// CSV loads daily records from a directory tree laid out as
//
//	<root>/<YYYY-MM-DD>/transactions/<ticker>.csv
//	<root>/<YYYY-MM-DD>/ticks/<ticker>.csv
//	<root>/<YYYY-MM-DD>/orderbooks/<ticker>.csv
//
// All files carry a header row; timestamps are microseconds since epoch.
// Order book files hold one price level per row, grouped into snapshots
// by equal exchange_ts.
type CSV struct {
	root   string
	logger *slog.Logger
}

// NewCSV creates a CSV loader rooted at dir.
func NewCSV(dir string, logger *slog.Logger) *CSV {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSV{root: dir, logger: logger}
}

// Load reads all records for one (date, ticker, kind). A missing file is
// an error: callers that expect gaps should use a calendar that skips
// them.
func (l *CSV) Load(ctx context.Context, date time.Time, ticker string, kind model.Kind) ([]model.Record, error) {
	path, err := l.path(date, ticker, kind)
	if err != nil {
		return nil, err
	}

	l.logger.Debug("loading csv", "path", path)

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	switch kind {
	case model.KindTrade:
		return readTrades(f, ticker)
	case model.KindTick:
		return readTicks(f, ticker)
	case model.KindOrderBook:
		return readOrderBooks(f, ticker)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedKind, kind)
	}
}

func (l *CSV) path(date time.Time, ticker string, kind model.Kind) (string, error) {
	var dir string
	switch kind {
	case model.KindTrade:
		dir = tradesDir
	case model.KindTick:
		dir = ticksDir
	case model.KindOrderBook:
		dir = orderBooksDir
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedKind, kind)
	}
	return filepath.Join(l.root, calendar.Format(date), dir, ticker+".csv"), nil
}

// table reads a headered CSV into column-indexed rows.
type table struct {
	cols map[string]int
	rows [][]string
}

func readTable(r io.Reader) (*table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	return &table{cols: cols, rows: rows}, nil
}

func (t *table) intAt(row []string, col string) (int64, error) {
	i, ok := t.cols[col]
	if !ok {
		return 0, fmt.Errorf("missing column %q", col)
	}
	v, err := strconv.ParseInt(row[i], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("column %q: %w", col, err)
	}
	return v, nil
}

func (t *table) stringAt(row []string, col string) string {
	i, ok := t.cols[col]
	if !ok {
		return ""
	}
	return row[i]
}

func readTrades(r io.Reader, ticker string) ([]model.Record, error) {
	t, err := readTable(r)
	if err != nil {
		return nil, err
	}

	recs := make([]model.Record, 0, len(t.rows))
	for n, row := range t.rows {
		ets, err := t.intAt(row, "exchange_ts")
		if err != nil {
			return nil, fmt.Errorf("trades row %d: %w", n+1, err)
		}
		price, err := t.intAt(row, "price")
		if err != nil {
			return nil, fmt.Errorf("trades row %d: %w", n+1, err)
		}
		size, err := t.intAt(row, "size")
		if err != nil {
			return nil, fmt.Errorf("trades row %d: %w", n+1, err)
		}

		var id uuid.UUID
		if raw := t.stringAt(row, "trade_id"); raw != "" {
			id, err = uuid.Parse(raw)
			if err != nil {
				return nil, fmt.Errorf("trades row %d: trade_id: %w", n+1, err)
			}
		}

		recs = append(recs, model.Trade{
			TradeID:    id,
			ExchangeTS: ets,
			Ticker:     ticker,
			Price:      int(price),
			Size:       int(size),
			TakerSide:  t.stringAt(row, "taker_side") == "buy",
		})
	}
	return recs, nil
}

func readTicks(r io.Reader, ticker string) ([]model.Record, error) {
	t, err := readTable(r)
	if err != nil {
		return nil, err
	}

	recs := make([]model.Record, 0, len(t.rows))
	for n, row := range t.rows {
		ets, err := t.intAt(row, "exchange_ts")
		if err != nil {
			return nil, fmt.Errorf("ticks row %d: %w", n+1, err)
		}
		bid, err := t.intAt(row, "bid")
		if err != nil {
			return nil, fmt.Errorf("ticks row %d: %w", n+1, err)
		}
		ask, err := t.intAt(row, "ask")
		if err != nil {
			return nil, fmt.Errorf("ticks row %d: %w", n+1, err)
		}
		bidSize, _ := t.intAt(row, "bid_size")
		askSize, _ := t.intAt(row, "ask_size")
		last, _ := t.intAt(row, "last_price")
		volume, _ := t.intAt(row, "volume")

		recs = append(recs, model.Tick{
			ExchangeTS: ets,
			Ticker:     ticker,
			Bid:        int(bid),
			Ask:        int(ask),
			BidSize:    int(bidSize),
			AskSize:    int(askSize),
			LastPrice:  int(last),
			Volume:     volume,
		})
	}
	return recs, nil
}

func readOrderBooks(r io.Reader, ticker string) ([]model.Record, error) {
	t, err := readTable(r)
	if err != nil {
		return nil, err
	}

	var recs []model.Record
	var cur *model.OrderBook

	for n, row := range t.rows {
		ets, err := t.intAt(row, "exchange_ts")
		if err != nil {
			return nil, fmt.Errorf("orderbooks row %d: %w", n+1, err)
		}
		price, err := t.intAt(row, "price")
		if err != nil {
			return nil, fmt.Errorf("orderbooks row %d: %w", n+1, err)
		}
		size, err := t.intAt(row, "size")
		if err != nil {
			return nil, fmt.Errorf("orderbooks row %d: %w", n+1, err)
		}
		side := t.stringAt(row, "side")

		if cur == nil || cur.ExchangeTS != ets {
			if cur != nil {
				recs = append(recs, *cur)
			}
			cur = &model.OrderBook{ExchangeTS: ets, Ticker: ticker}
		}

		level := model.PriceLevel{Price: int(price), Size: int(size)}
		switch side {
		case "bid":
			cur.Bids = append(cur.Bids, level)
		case "ask":
			cur.Asks = append(cur.Asks, level)
		default:
			return nil, fmt.Errorf("orderbooks row %d: unknown side %q", n+1, side)
		}
	}
	if cur != nil {
		recs = append(recs, *cur)
	}
	return recs, nil
}
