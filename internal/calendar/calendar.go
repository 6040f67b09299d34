// Package calendar resolves the ordered date sequence a replay walks.
//
// Three source modes exist: an explicit pre-built sequence, a provider
// function, or an inclusive daily [start, end] range. An explicit sequence
// or provider takes precedence over the range; the range is only consulted
// when neither is given.
package calendar

import (
	"errors"
	"fmt"
	"time"
)

// ErrNoSource is returned when no calendar source is configured.
var ErrNoSource = errors.New("calendar: no source configured (need explicit dates, a provider, or a start/end range)")

// ProviderFunc produces an ordered sequence of dates for the given span,
// e.g. a trading-day calendar that skips holidays.
type ProviderFunc func(start, end time.Time) ([]time.Time, error)

// Source describes where the replay calendar comes from. Exactly one mode
// is honored per Resolve call.
type Source struct {
	// Dates is a pre-built ordered sequence, passed through unchanged.
	// Duplicates are permitted and not deduplicated.
	Dates []time.Time

	// Provider generates the sequence from the start/end span.
	Provider ProviderFunc

	// Start and End bound the daily range mode, inclusive on both ends.
	Start time.Time
	End   time.Time
}

// Resolve produces the replay calendar from the configured mode.
func (s Source) Resolve() ([]time.Time, error) {
	switch {
	case s.Dates != nil:
		return s.Dates, nil
	case s.Provider != nil:
		dates, err := s.Provider(s.Start, s.End)
		if err != nil {
			return nil, fmt.Errorf("calendar provider: %w", err)
		}
		return dates, nil
	case !s.Start.IsZero() && !s.End.IsZero():
		return Range(s.Start, s.End), nil
	default:
		return nil, ErrNoSource
	}
}

// Range returns every date from start to end inclusive, stepping one day.
// Returns an empty calendar when start is after end.
func Range(start, end time.Time) []time.Time {
	start = Day(start)
	end = Day(end)

	var dates []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

// Day truncates t to midnight UTC, the canonical representation of a
// calendar date throughout the replay.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Date constructs a canonical calendar date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Format renders a date as YYYY-MM-DD.
func Format(t time.Time) string {
	return t.Format("2006-01-02")
}

// Parse parses a YYYY-MM-DD date.
func Parse(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}
