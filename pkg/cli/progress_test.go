package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestDeletionProgress(t *testing.T) {
	buf := &bytes.Buffer{}
	progress := NewDeletionProgress(buf)

	progress.Observe("production", 0, 4)
	progress.Observe("production", 2, 4)
	progress.Observe("production", 4, 4)

	out := buf.String()
	if !strings.Contains(out, "production:") {
		t.Errorf("output missing environment label: %q", out)
	}
	if !strings.Contains(out, "(2/4)") {
		t.Errorf("output missing midpoint update: %q", out)
	}
	if !strings.Contains(out, "(4/4)") || !strings.Contains(out, "100.0%") {
		t.Errorf("output missing completion: %q", out)
	}
	if !strings.HasSuffix(out, "\n") {
		t.Errorf("finished batch should terminate the line: %q", out)
	}
}

func TestDeletionProgressSwitchesEnvironments(t *testing.T) {
	buf := &bytes.Buffer{}
	progress := NewDeletionProgress(buf)

	progress.Observe("production", 0, 2)
	progress.Observe("production", 2, 2)
	progress.Observe("preview", 0, 3)
	progress.Observe("preview", 3, 3)

	out := buf.String()
	if !strings.Contains(out, "production:") || !strings.Contains(out, "preview:") {
		t.Errorf("output missing an environment bar: %q", out)
	}
	if !strings.Contains(out, "(2/2)") || !strings.Contains(out, "(3/3)") {
		t.Errorf("per-environment totals wrong: %q", out)
	}
}

func TestDeletionProgressZeroTotal(t *testing.T) {
	buf := &bytes.Buffer{}
	progress := NewDeletionProgress(buf)

	// Nothing to delete renders nothing.
	progress.Observe("production", 0, 0)

	if got := strings.TrimSpace(buf.String()); got != "" {
		t.Errorf("expected no bar for empty batch, got %q", got)
	}
}

func TestNewDeletionProgressNilWriter(t *testing.T) {
	if NewDeletionProgress(nil) == nil {
		t.Fatal("NewDeletionProgress(nil) returned nil")
	}
}
