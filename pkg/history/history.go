// Package history persists cleanup run outcomes in a local SQLite
// database so past runs can be inspected with `deckhand history`.
package history

import (
	"context"
	"time"

	"deckhand-hq/deckhand/pkg/report"
)

// Run is one recorded cleanup run.
type Run struct {
	// RunID is the unique run identifier.
	RunID string

	// Project is the platform project the run cleaned.
	Project string

	// DryRun marks runs that classified without deleting.
	DryRun bool

	// StartedAt and FinishedAt bound the run.
	StartedAt  time.Time
	FinishedAt time.Time

	// Considered, Kept, Deleted and Errors are the run totals.
	Considered int
	Kept       int
	Deleted    int
	Errors     int

	// Report is the full serialized run report.
	Report *report.Report
}

// Store records and retrieves past runs.
type Store interface {
	// Record persists one finished run.
	Record(ctx context.Context, r *report.Report) error

	// List returns the most recent runs, newest first, up to limit.
	// A non-positive limit returns all runs.
	List(ctx context.Context, limit int) ([]Run, error)

	// Get returns one run by identifier.
	Get(ctx context.Context, runID string) (*Run, error)

	// PruneOlderThan deletes runs started before the cutoff and
	// returns how many were removed.
	PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error)

	// Close releases the underlying storage.
	Close() error
}
