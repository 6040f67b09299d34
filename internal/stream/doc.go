// Package stream serves a replay engine's record sequence to WebSocket
// subscribers.
//
// A single broadcast loop is the engine's only consumer; connected
// clients are fan-out observers, each with a bounded outbound queue.
// A slow client loses the oldest queued records rather than stalling the
// replay or its peers. Pacing, when enabled, stretches the gaps between
// records proportionally to recorded market time; it never synchronizes
// to wall time.
package stream
