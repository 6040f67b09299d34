// Package replay implements a deterministic temporal replay multiplexer
// for historical market-event streams.
//
// Given a set of (ticker, kind) subscriptions and a calendar of trading
// dates, the Engine progressively loads each date's data through a
// caller-supplied LoadFunc, merges all subscribed streams into one
// time-ordered sequence, and serves it one record at a time through a
// restartable pull protocol: Next returns records until both the calendar
// and the task queue are exhausted, then resets itself and returns
// ErrExhausted, leaving the engine ready for an identical second pass.
//
// The Engine is synchronous and single-consumer. Concurrent pulls require
// external mutual exclusion. Loader calls block the replay; no timeout is
// imposed beyond whatever the supplied context carries.
package replay
