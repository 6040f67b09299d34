// Package loader provides ready-made daily loaders for the replay engine.
//
// Two sources are supported: a directory tree of per-date CSV files and a
// PostgreSQL/TimescaleDB database. Both satisfy replay.LoadFunc via their
// Load method. Loaders do not cache and do not retry; errors propagate to
// the replay engine untouched.
package loader
