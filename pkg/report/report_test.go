package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"deckhand-hq/deckhand/pkg/deploy"
	"deckhand-hq/deckhand/pkg/retention"
)

func sampleReport() *Report {
	r := New("run-1", "my-site", false)
	r.AddEnvironment(deploy.EnvProduction, retention.Bucket{
		Kept:             []string{"p1", "p2"},
		Deleted:          []string{"p3", "p4"},
		SkippedProtected: []string{"p1"},
	}, []string{"p3", "p4"}, 2)
	r.AddEnvironment(deploy.EnvPreview, retention.Bucket{
		Kept:               []string{"v1"},
		Deleted:            []string{"v2"},
		SkippedUndeletable: []string{"v1"},
	}, []string{"v2"}, 2)
	r.AddDeletionError(DeletionError{
		ID: "p4", Environment: "production", StatusCode: 500, Message: "server error",
	})
	r.Finish()
	return r
}

func TestReport_Totals(t *testing.T) {
	r := sampleReport()

	if r.Totals.Considered != 4 {
		t.Errorf("Considered = %d, want 4", r.Totals.Considered)
	}
	if r.Totals.Kept != 3 {
		t.Errorf("Kept = %d, want 3", r.Totals.Kept)
	}
	if r.Totals.Deleted != 3 {
		t.Errorf("Deleted = %d, want 3", r.Totals.Deleted)
	}
	if r.Totals.SkippedProtected != 1 {
		t.Errorf("SkippedProtected = %d, want 1", r.Totals.SkippedProtected)
	}
	if r.Totals.SkippedUndeletable != 1 {
		t.Errorf("SkippedUndeletable = %d, want 1", r.Totals.SkippedUndeletable)
	}
	if r.Totals.Errors != 1 {
		t.Errorf("Errors = %d, want 1", r.Totals.Errors)
	}
}

func TestReport_CappedDeletionsCounted(t *testing.T) {
	r := New("run-2", "my-site", false)

	// Selection chose three, the cap allowed one.
	r.AddEnvironment(deploy.EnvProduction, retention.Bucket{
		Deleted: []string{"a", "b", "c"},
	}, []string{"a"}, 3)

	if r.Totals.Deleted != 1 {
		t.Errorf("Deleted = %d, want 1 (capped)", r.Totals.Deleted)
	}
	if got := r.Environments[0].DeletedIDs; len(got) != 1 || got[0] != "a" {
		t.Errorf("DeletedIDs = %v, want [a]", got)
	}
}

func TestWriteJSON_RoundTrip(t *testing.T) {
	r := sampleReport()

	var buf bytes.Buffer
	if err := WriteJSON(r, &buf, true); err != nil {
		t.Fatalf("WriteJSON() failed: %v", err)
	}

	var decoded Report
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("report JSON does not parse: %v", err)
	}
	if decoded.RunID != "run-1" || len(decoded.Environments) != 2 {
		t.Errorf("decoded report mismatch: %+v", decoded)
	}
	if decoded.Totals.Errors != 1 || len(decoded.DeletionErrors) != 1 {
		t.Errorf("deletion errors lost in serialization: %+v", decoded)
	}
}

func TestWriteFile_CreatesParentDirs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "artifacts", "report.json")

	if err := WriteFile(sampleReport(), path, false); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("report file not written: %v", err)
	}
	if !json.Valid(data) {
		t.Error("report file is not valid JSON")
	}
}

func TestSummary(t *testing.T) {
	s := Summary(sampleReport())

	for _, want := range []string{
		"run-1",
		"production: considered 2, kept 2, deleted 2, protected 1",
		"preview: considered 2, kept 1, deleted 1, undeletable 1",
		"Totals: considered 4, kept 3, deleted 3, protected 1, undeletable 1",
		"1 deletion(s) failed",
		"p4 (production, status 500): server error",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("summary missing %q:\n%s", want, s)
		}
	}
}

func TestSummary_DryRunMarked(t *testing.T) {
	r := New("run-3", "my-site", true)
	r.Finish()

	if s := Summary(r); !strings.Contains(s, "dry-run") {
		t.Errorf("summary should mark dry-run:\n%s", s)
	}
}
