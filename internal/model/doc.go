// Package model defines the market event types carried through a replay.
//
// Conventions:
//   - Prices: integer hundred-thousandths (0-100,000 = $0.00-$1.00)
//   - Timestamps: int64 microseconds since Unix epoch
//   - IDs: string for tickers, uuid.UUID for trade IDs
//
// The replay engine depends only on the Record interface; the concrete
// types exist for loaders, the stream server, and tests.
package model
