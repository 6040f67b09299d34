package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultBackend      = "csv"
	DefaultCSVRoot      = "data"
	DefaultDBPort       = 5432
	DefaultDBSSLMode    = "prefer"
	DefaultMaxConns     = 10
	DefaultMinConns     = 2
	DefaultStreamAddr   = ":8080"
	DefaultStreamPath   = "/ws"
	DefaultQueueSize    = 1024
	DefaultWriteTimeout = 10 * time.Second
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "text"
)

func (c *ReplayerConfig) applyDefaults() {
	// Source defaults
	if c.Source.Backend == "" {
		c.Source.Backend = DefaultBackend
	}
	if c.Source.CSVRoot == "" {
		c.Source.CSVRoot = DefaultCSVRoot
	}
	applyDBDefaults(&c.Source.Database)

	// Stream defaults
	if c.Stream.Addr == "" {
		c.Stream.Addr = DefaultStreamAddr
	}
	if c.Stream.Path == "" {
		c.Stream.Path = DefaultStreamPath
	}
	if c.Stream.QueueSize == 0 {
		c.Stream.QueueSize = DefaultQueueSize
	}
	if c.Stream.WriteTimeout == 0 {
		c.Stream.WriteTimeout = DefaultWriteTimeout
	}

	// Logging defaults
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
	if c.Logging.Format == "" {
		c.Logging.Format = DefaultLogFormat
	}
}

func applyDBDefaults(db *DBConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}
