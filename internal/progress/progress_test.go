package progress

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestLog_Lifecycle(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewLog(slog.New(slog.NewTextHandler(&buf, nil)))

	tracker.SetPrompt("Replay 2024-03-08 (1 / 2):")
	if tracker.IsDone() {
		t.Error("fresh tracker reports done")
	}

	tracker.MarkDone()
	if !tracker.IsDone() {
		t.Error("tracker not done after MarkDone")
	}

	tracker.Output()
	out := buf.String()
	if !strings.Contains(out, "Replay 2024-03-08") {
		t.Errorf("output missing prompt: %q", out)
	}
	if !strings.Contains(out, "done_tasks=1") {
		t.Errorf("output missing completion count: %q", out)
	}

	tracker.Reset()
	if tracker.IsDone() {
		t.Error("tracker still done after Reset")
	}
}

func TestNop_RecordsState(t *testing.T) {
	var tracker Nop

	tracker.SetPrompt("Replay 2024-03-08 (1 / 1):")
	if got := tracker.Prompt(); got != "Replay 2024-03-08 (1 / 1):" {
		t.Errorf("Prompt = %q", got)
	}

	tracker.MarkDone()
	if !tracker.IsDone() {
		t.Error("not done after MarkDone")
	}

	tracker.Reset()
	if tracker.IsDone() || tracker.Prompt() != "" {
		t.Error("Reset did not clear state")
	}
}
