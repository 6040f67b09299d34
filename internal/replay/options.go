package replay

import (
	"log/slog"
	"time"

	"github.com/rickgao/market-replay/internal/calendar"
	"github.com/rickgao/market-replay/internal/model"
	"github.com/rickgao/market-replay/internal/progress"
)

// Hook is a date-boundary callback. BOD hooks run before a date's data is
// loaded; EOD hooks run after the date's last queued record is consumed.
type Hook func(date time.Time)

// Options configures an Engine. Every field is optional except that a
// calendar source must be present: either Calendar, CalendarFunc, or both
// Start and End. Calendar and CalendarFunc take precedence over the
// Start/End range, in that order.
type Options struct {
	// Start and End bound the daily replay range, inclusive.
	Start time.Time
	End   time.Time

	// Calendar is an explicit ordered date sequence, used unchanged.
	Calendar []time.Time

	// CalendarFunc generates the date sequence from Start and End,
	// e.g. an exchange trading-day calendar.
	CalendarFunc calendar.ProviderFunc

	// Tickers subscribes each ticker to every kind in Kinds.
	Tickers []string

	// Kinds applies to Tickers. Empty means model.DefaultKinds().
	Kinds []model.Kind

	// Subscriptions are explicit (ticker, kind) pairs, registered after
	// the Tickers x Kinds cross product.
	Subscriptions []Subscription

	// BOD and EOD are invoked at date boundaries when non-nil.
	BOD Hook
	EOD Hook

	// Progress receives prompt and completion updates. Defaults to a
	// slog-backed tracker. Borrowed, never owned.
	Progress progress.Tracker

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// source assembles the calendar source from the three input modes.
func (o Options) source() calendar.Source {
	return calendar.Source{
		Dates:    o.Calendar,
		Provider: o.CalendarFunc,
		Start:    o.Start,
		End:      o.End,
	}
}

// subscriptions expands Tickers x Kinds and appends explicit pairs, in
// the order they will be registered.
func (o Options) subscriptions() []Subscription {
	kinds := o.Kinds
	if len(kinds) == 0 {
		kinds = model.DefaultKinds()
	}

	var subs []Subscription
	for _, ticker := range o.Tickers {
		for _, kind := range kinds {
			subs = append(subs, Subscription{Ticker: ticker, Kind: kind})
		}
	}
	subs = append(subs, o.Subscriptions...)
	return subs
}
