package config

import (
	"time"

	"github.com/rickgao/market-replay/internal/calendar"
	"github.com/rickgao/market-replay/internal/model"
	"github.com/rickgao/market-replay/internal/replay"
)

// ReplayOptions resolves the replay section into engine options: alias
// fields (ticker/tickers, kind/kinds) collapse to their plural forms and
// date strings become calendar dates. Assumes Validate has passed.
func (c *ReplayerConfig) ReplayOptions() (replay.Options, error) {
	opts := replay.Options{}

	if c.Replay.StartDate != "" {
		start, err := calendar.Parse(c.Replay.StartDate)
		if err != nil {
			return replay.Options{}, err
		}
		opts.Start = start
	}
	if c.Replay.EndDate != "" {
		end, err := calendar.Parse(c.Replay.EndDate)
		if err != nil {
			return replay.Options{}, err
		}
		opts.End = end
	}

	if len(c.Replay.Calendar) > 0 {
		dates := make([]time.Time, 0, len(c.Replay.Calendar))
		for _, d := range c.Replay.Calendar {
			date, err := calendar.Parse(d)
			if err != nil {
				return replay.Options{}, err
			}
			dates = append(dates, date)
		}
		opts.Calendar = dates
	}

	opts.Tickers = c.Replay.Tickers
	if c.Replay.Ticker != "" {
		opts.Tickers = []string{c.Replay.Ticker}
	}

	for _, k := range c.Replay.Kinds {
		opts.Kinds = append(opts.Kinds, model.Kind(k))
	}
	if c.Replay.Kind != "" {
		opts.Kinds = []model.Kind{model.Kind(c.Replay.Kind)}
	}

	for _, sub := range c.Replay.Subscriptions {
		opts.Subscriptions = append(opts.Subscriptions, replay.Subscription{
			Ticker: sub.Ticker,
			Kind:   model.Kind(sub.Kind),
		})
	}

	return opts, nil
}
