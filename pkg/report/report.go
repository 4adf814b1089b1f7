package report

import (
	"time"

	"deckhand-hq/deckhand/pkg/deploy"
	"deckhand-hq/deckhand/pkg/retention"
)

// DeletionError records one failed deletion. Failures never abort the
// batch; they are accumulated here and surfaced together.
type DeletionError struct {
	ID          string `json:"id"`
	Environment string `json:"environment"`
	StatusCode  int    `json:"status_code,omitempty"`
	Message     string `json:"message"`
}

// EnvironmentResult is the outcome of one environment's selection and
// deletion pass.
type EnvironmentResult struct {
	Environment string `json:"environment"`

	Considered int `json:"considered"`

	KeptIDs               []string `json:"kept_ids"`
	DeletedIDs            []string `json:"deleted_ids"`
	SkippedProtectedIDs   []string `json:"skipped_protected_ids"`
	SkippedUndeletableIDs []string `json:"skipped_undeletable_ids"`

	Kept               int `json:"kept"`
	Deleted            int `json:"deleted"`
	SkippedProtected   int `json:"skipped_protected"`
	SkippedUndeletable int `json:"skipped_undeletable"`
}

// Totals are the run-level counters summed over all environments.
type Totals struct {
	Considered         int `json:"considered"`
	Kept               int `json:"kept"`
	Deleted            int `json:"deleted"`
	SkippedProtected   int `json:"skipped_protected"`
	SkippedUndeletable int `json:"skipped_undeletable"`
	Errors             int `json:"errors"`
}

// Report is the aggregate result of one cleanup run. It is appended to
// sequentially by the orchestrator and serialized as the run artifact.
type Report struct {
	RunID      string    `json:"run_id"`
	Project    string    `json:"project"`
	DryRun     bool      `json:"dry_run"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Environments []EnvironmentResult `json:"environments"`
	Totals       Totals              `json:"totals"`

	DeletionErrors []DeletionError `json:"deletion_errors,omitempty"`
}

// New creates an empty report for a run starting now.
func New(runID, project string, dryRun bool) *Report {
	return &Report{
		RunID:     runID,
		Project:   project,
		DryRun:    dryRun,
		StartedAt: time.Now().UTC(),
	}
}

// AddEnvironment folds one environment's selection bucket into the report.
// Deleted counts what the orchestrator actually chose after capping, so
// the caller passes the possibly-truncated deleted set separately.
func (r *Report) AddEnvironment(env deploy.Environment, bucket retention.Bucket, deletedIDs []string, considered int) {
	result := EnvironmentResult{
		Environment:           string(env),
		Considered:            considered,
		KeptIDs:               bucket.Kept,
		DeletedIDs:            deletedIDs,
		SkippedProtectedIDs:   bucket.SkippedProtected,
		SkippedUndeletableIDs: bucket.SkippedUndeletable,
		Kept:                  len(bucket.Kept),
		Deleted:               len(deletedIDs),
		SkippedProtected:      len(bucket.SkippedProtected),
		SkippedUndeletable:    len(bucket.SkippedUndeletable),
	}
	r.Environments = append(r.Environments, result)

	r.Totals.Considered += result.Considered
	r.Totals.Kept += result.Kept
	r.Totals.Deleted += result.Deleted
	r.Totals.SkippedProtected += result.SkippedProtected
	r.Totals.SkippedUndeletable += result.SkippedUndeletable
}

// AddDeletionError records one failed deletion.
func (r *Report) AddDeletionError(e DeletionError) {
	r.DeletionErrors = append(r.DeletionErrors, e)
	r.Totals.Errors++
}

// Finish stamps the end of the run.
func (r *Report) Finish() {
	r.FinishedAt = time.Now().UTC()
}

// Duration returns the wall time of the run.
func (r *Report) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
