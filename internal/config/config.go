package config

import "time"

// ReplayerConfig is the root configuration for a replayer instance.
type ReplayerConfig struct {
	Replay  ReplayConfig  `yaml:"replay"`
	Source  SourceConfig  `yaml:"source"`
	Stream  StreamConfig  `yaml:"stream"`
	Logging LoggingConfig `yaml:"logging"`
}

// ReplayConfig describes the replay window and subscriptions.
//
// The calendar comes from either the explicit date list or the
// start_date/end_date range; the list wins when both are given.
// Singular and plural ticker/kind fields are aliases resolved once at
// load time; setting both forms of the same field is a config error.
type ReplayConfig struct {
	StartDate string   `yaml:"start_date"` // YYYY-MM-DD
	EndDate   string   `yaml:"end_date"`   // YYYY-MM-DD
	Calendar  []string `yaml:"calendar"`   // explicit dates, used unchanged

	Ticker  string   `yaml:"ticker"`
	Tickers []string `yaml:"tickers"`
	Kind    string   `yaml:"kind"`
	Kinds   []string `yaml:"kinds"` // empty = all known kinds

	Subscriptions []SubscriptionConfig `yaml:"subscriptions"`
}

// SubscriptionConfig is an explicit (ticker, kind) pair.
type SubscriptionConfig struct {
	Ticker string `yaml:"ticker"`
	Kind   string `yaml:"kind"`
}

// SourceConfig selects where daily records are loaded from.
type SourceConfig struct {
	Backend  string   `yaml:"backend"`  // "csv" or "postgres"
	CSVRoot  string   `yaml:"csv_root"` // root of the per-date CSV tree
	Database DBConfig `yaml:"database"`
}

// DBConfig holds a single database connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// StreamConfig holds WebSocket replay-streaming settings.
type StreamConfig struct {
	Addr         string        `yaml:"addr"`
	Path         string        `yaml:"path"`
	Speed        float64       `yaml:"speed"` // market-time multiplier; 0 = no pacing
	QueueSize    int           `yaml:"queue_size"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// LoggingConfig holds slog settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}
