package config

import (
	"errors"
	"fmt"

	"github.com/rickgao/market-replay/internal/calendar"
)

// Validate checks that all required fields are set and values are valid.
func (c *ReplayerConfig) Validate() error {
	if err := c.Replay.validate(); err != nil {
		return err
	}

	switch c.Source.Backend {
	case "csv":
		if c.Source.CSVRoot == "" {
			return errors.New("source.csv_root is required for the csv backend")
		}
	case "postgres":
		if err := c.Source.Database.validate("source.database"); err != nil {
			return err
		}
	default:
		return fmt.Errorf("source.backend must be csv or postgres, got %q", c.Source.Backend)
	}

	if c.Stream.Speed < 0 {
		return fmt.Errorf("stream.speed must be >= 0, got %g", c.Stream.Speed)
	}
	if c.Stream.QueueSize < 1 {
		return errors.New("stream.queue_size must be >= 1")
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}

	return nil
}

func (r *ReplayConfig) validate() error {
	if len(r.Calendar) == 0 && (r.StartDate == "" || r.EndDate == "") {
		return errors.New("replay needs either a calendar list or both start_date and end_date")
	}

	for _, field := range []struct {
		name  string
		value string
	}{
		{"start_date", r.StartDate},
		{"end_date", r.EndDate},
	} {
		if field.value == "" {
			continue
		}
		if _, err := calendar.Parse(field.value); err != nil {
			return fmt.Errorf("replay.%s: %w", field.name, err)
		}
	}
	for i, d := range r.Calendar {
		if _, err := calendar.Parse(d); err != nil {
			return fmt.Errorf("replay.calendar[%d]: %w", i, err)
		}
	}

	if r.Ticker != "" && len(r.Tickers) > 0 {
		return errors.New("replay.ticker and replay.tickers are mutually exclusive")
	}
	if r.Kind != "" && len(r.Kinds) > 0 {
		return errors.New("replay.kind and replay.kinds are mutually exclusive")
	}

	for i, sub := range r.Subscriptions {
		if sub.Ticker == "" || sub.Kind == "" {
			return fmt.Errorf("replay.subscriptions[%d] needs both ticker and kind", i)
		}
	}

	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
