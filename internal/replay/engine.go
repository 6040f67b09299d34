package replay

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"time"

	"github.com/rickgao/market-replay/internal/calendar"
	"github.com/rickgao/market-replay/internal/model"
	"github.com/rickgao/market-replay/internal/progress"
)

// ErrExhausted signals normal end-of-sequence: no dates and no queued
// records remain. It is not a failure. By the time Next returns it, the
// engine has already reset itself and can replay the same sequence again.
var ErrExhausted = errors.New("replay: sequence exhausted")

// ErrNoLoader is returned by New when no loader is supplied.
var ErrNoLoader = errors.New("replay: loader is required")

// LoadFunc loads all records of one kind for one ticker on one date.
// The returned collection need not be sorted. Errors propagate to the
// puller unmodified; the engine performs no retries and no caching.
type LoadFunc func(ctx context.Context, date time.Time, ticker string, kind model.Kind) ([]model.Record, error)

// MapRecords extracts the values of a map-shaped load result, for loaders
// whose natural output is keyed (e.g. by trade ID). Order is unspecified;
// the engine sorts by market time regardless.
func MapRecords[K comparable, R model.Record](m map[K]R) []model.Record {
	out := make([]model.Record, 0, len(m))
	for _, r := range m {
		out = append(out, r)
	}
	return out
}

// Stats holds cumulative engine counters across all passes.
type Stats struct {
	Records     int64 // Records served by Next
	DatesLoaded int   // Successful date advances
	Passes      int   // Completed full replays
}

// Engine merges subscribed historical streams into one time-ordered
// sequence, pulled one record at a time. See the package documentation
// for the iteration contract.
type Engine struct {
	loader LoadFunc
	source calendar.Source
	bod    Hook
	eod    Hook

	// Borrowed collaborators.
	progress progress.Tracker
	logger   *slog.Logger

	subs  *registry
	queue taskQueue

	cal        []time.Time
	cursor     int
	activeDate time.Time
	draining   bool

	stats Stats
}

// New creates an Engine and performs its initial Reset. Construction
// fails when no loader is supplied or when no calendar source resolves.
func New(loader LoadFunc, opts Options) (*Engine, error) {
	if loader == nil {
		return nil, ErrNoLoader
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	tracker := opts.Progress
	if tracker == nil {
		tracker = progress.NewLog(logger)
	}

	e := &Engine{
		loader:   loader,
		source:   opts.source(),
		bod:      opts.BOD,
		eod:      opts.EOD,
		progress: tracker,
		logger:   logger,
		subs:     newRegistry(),
	}

	for _, sub := range opts.subscriptions() {
		e.subs.add(sub)
	}

	if err := e.Reset(); err != nil {
		return nil, err
	}

	e.logger.Info("replay engine created",
		"dates", len(e.cal),
		"subscriptions", e.subs.len(),
	)
	return e, nil
}

// Subscribe registers a (ticker, kind) pair. Takes effect from the next
// date advance. Idempotent.
func (e *Engine) Subscribe(ticker string, kind model.Kind) {
	e.subs.add(Subscription{Ticker: ticker, Kind: kind})
}

// Unsubscribe removes a (ticker, kind) pair. Dates advanced from now on
// no longer load it. No-op when absent.
func (e *Engine) Unsubscribe(ticker string, kind model.Kind) {
	e.subs.remove(Subscription{Ticker: ticker, Kind: kind})
}

// Subscriptions returns the current subscription set in registration order.
func (e *Engine) Subscriptions() []Subscription {
	return e.subs.list()
}

// Calendar returns a copy of the resolved replay calendar.
func (e *Engine) Calendar() []time.Time {
	out := make([]time.Time, len(e.cal))
	copy(out, e.cal)
	return out
}

// Stats returns cumulative counters across all passes.
func (e *Engine) Stats() Stats {
	return e.stats
}

// Pending returns the number of loaded records not yet consumed.
func (e *Engine) Pending() int {
	return e.queue.len()
}

// Reset rewinds the engine to the start of the calendar: the calendar is
// re-resolved, the date cursor zeroed, the progress tracker reset, and
// the task queue cleared. Records loaded but never consumed in a prior
// pass are dropped rather than carried over, so every pass replays the
// identical sequence.
func (e *Engine) Reset() error {
	cal, err := e.source.Resolve()
	if err != nil {
		return err
	}
	e.cal = cal
	e.cursor = 0
	e.draining = false
	e.queue.clear()
	e.progress.Reset()
	return nil
}

// Next returns the earliest-timestamp record not yet consumed, advancing
// to the next calendar date whenever the queue runs dry. On exhaustion it
// marks the progress tracker complete, emits its final report, resets the
// engine, and returns ErrExhausted. Loader errors abort the in-progress
// date advance and propagate; the failed date's cursor is not consumed,
// so a subsequent Next retries the same date.
func (e *Engine) Next(ctx context.Context) (model.Record, error) {
	for {
		if rec, ok := e.queue.pop(); ok {
			e.stats.Records++
			return rec, nil
		}

		if e.draining {
			e.draining = false
			if e.eod != nil {
				e.eod(e.activeDate)
			}
		}

		if err := e.advanceDate(ctx); err != nil {
			if errors.Is(err, ErrExhausted) {
				return nil, e.finish()
			}
			return nil, err
		}
	}
}

// All returns a restartable single-use iterator over the whole sequence.
// Ranging over it resets the engine first, so each call replays from the
// top. Iteration stops at exhaustion without yielding an error; any other
// error is yielded once and ends the sequence.
func (e *Engine) All(ctx context.Context) iter.Seq2[model.Record, error] {
	return func(yield func(model.Record, error) bool) {
		if err := e.Reset(); err != nil {
			yield(nil, err)
			return
		}
		for {
			rec, err := e.Next(ctx)
			if errors.Is(err, ErrExhausted) {
				return
			}
			if !yield(rec, err) {
				return
			}
			if err != nil {
				return
			}
		}
	}
}

// advanceDate loads every subscription for the next calendar date, in
// registration order, and stable-sorts the queue by market time. Signals
// ErrExhausted past the end of the calendar without touching the queue.
func (e *Engine) advanceDate(ctx context.Context) error {
	if e.cursor >= len(e.cal) {
		return ErrExhausted
	}

	date := e.cal[e.cursor]
	e.progress.SetPrompt(fmt.Sprintf("Replay %s (%d / %d):",
		calendar.Format(date), e.cursor+1, len(e.cal)))

	if e.bod != nil {
		e.bod(date)
	}

	for _, sub := range e.subs.list() {
		e.logger.Debug("loading market data",
			"date", calendar.Format(date),
			"ticker", sub.Ticker,
			"kind", sub.Kind,
		)
		recs, err := e.loader(ctx, date, sub.Ticker, sub.Kind)
		if err != nil {
			// Earlier subscriptions' records stay queued, unsorted;
			// the cursor stays put so a retry reloads this date.
			return err
		}
		e.queue.push(recs)
	}

	e.queue.sortPending()
	e.cursor++
	e.activeDate = date
	e.draining = true
	e.stats.DatesLoaded++
	return nil
}

// finish completes a pass: report progress once, reset, surface
// exhaustion to the caller.
func (e *Engine) finish() error {
	if !e.progress.IsDone() {
		e.progress.MarkDone()
		e.progress.Output()
	}
	e.stats.Passes++

	if err := e.Reset(); err != nil {
		return err
	}
	return ErrExhausted
}
