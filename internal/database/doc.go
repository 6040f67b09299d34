// Package database provides the PostgreSQL connection pool used by the
// database-backed loader. Historical trades, ticks and order book
// snapshots live in TimescaleDB-style tables keyed by ticker and
// microsecond exchange timestamp.
package database
