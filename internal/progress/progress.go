// Package progress defines the completion-tracking contract consumed by
// the replay engine, plus a slog-backed default implementation.
//
// The engine borrows a Tracker; it never owns one. A whole replay counts
// as a single unit of work: the fraction stays at 0/1 until the calendar
// is exhausted, while the prompt string carries the per-date detail.
package progress

import "log/slog"

// Tracker reports completion of a replay pass.
type Tracker interface {
	// Reset returns the tracker to the not-done state.
	Reset()

	// SetPrompt updates the human-readable description of the current
	// position, e.g. "Replay 2024-03-08 (1 / 2):".
	SetPrompt(prompt string)

	// MarkDone marks the single replay unit complete.
	MarkDone()

	// IsDone reports whether the replay unit has been marked complete.
	IsDone() bool

	// Output emits the tracker's current report.
	Output()
}

// Log is a Tracker that reports through a structured logger.
type Log struct {
	logger *slog.Logger
	prompt string
	done   bool
}

// NewLog creates a slog-backed Tracker.
func NewLog(logger *slog.Logger) *Log {
	if logger == nil {
		logger = slog.Default()
	}
	return &Log{logger: logger}
}

func (l *Log) Reset() {
	l.done = false
	l.prompt = ""
}

func (l *Log) SetPrompt(prompt string) {
	l.prompt = prompt
}

func (l *Log) MarkDone() {
	l.done = true
}

func (l *Log) IsDone() bool {
	return l.done
}

func (l *Log) Output() {
	done := 0
	if l.done {
		done = 1
	}
	l.logger.Info("replay progress",
		"prompt", l.prompt,
		"done_tasks", done,
		"total_tasks", 1,
	)
}

// Nop is a Tracker that records state but emits nothing. Useful in tests
// and for embedders that surface progress elsewhere.
type Nop struct {
	prompt string
	done   bool
}

func (n *Nop) Reset()                  { n.done = false; n.prompt = "" }
func (n *Nop) SetPrompt(prompt string) { n.prompt = prompt }
func (n *Nop) MarkDone()               { n.done = true }
func (n *Nop) IsDone() bool            { return n.done }
func (n *Nop) Output()                 {}

// Prompt returns the last prompt set, for inspection in tests.
func (n *Nop) Prompt() string { return n.prompt }
