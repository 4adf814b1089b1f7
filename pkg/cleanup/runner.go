// Package cleanup orchestrates retention runs: it fetches deployment
// records per environment, classifies them through the selection engine,
// enforces the per-run deletion cap, performs deletions, and aggregates
// the results into a report.
package cleanup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"deckhand-hq/deckhand/pkg/config"
	"deckhand-hq/deckhand/pkg/deploy"
	"deckhand-hq/deckhand/pkg/history"
	"deckhand-hq/deckhand/pkg/platform"
	"deckhand-hq/deckhand/pkg/report"
	"deckhand-hq/deckhand/pkg/retention"
	"deckhand-hq/deckhand/pkg/telemetry/metrics"
)

// PlatformAPI is the collaborator contract the orchestrator needs from
// the hosting platform. *platform.Client implements it; tests substitute
// fakes.
type PlatformAPI interface {
	// ListDeployments returns all deployment records, optionally
	// pre-filtered by environment (empty means all).
	ListDeployments(ctx context.Context, env deploy.Environment) ([]deploy.Deployment, error)

	// DeleteDeployment irreversibly removes one record. An unknown
	// identifier is a failure, not a no-op.
	DeleteDeployment(ctx context.Context, id string) error

	// ActiveProductionID returns the live production deployment, or
	// empty when unknown.
	ActiveProductionID(ctx context.Context) (string, error)
}

// ErrDeletionsFailed is returned by Run when deletions failed and the
// fail-on-error policy is set. The report is persisted regardless.
var ErrDeletionsFailed = errors.New("one or more deletions failed")

// Options configures a Runner.
type Options struct {
	// Client is the platform collaborator. Required.
	Client PlatformAPI

	// Project names the project being cleaned (report metadata).
	Project string

	// Retention is the cleanup policy. Callers should have validated it
	// (config.Validate); the engine tolerates an inverted keep cap
	// regardless.
	Retention config.RetentionConfig

	// ReportPath, when non-empty, is where the JSON artifact is written
	// after each run.
	ReportPath string

	// ReportPretty indents the artifact JSON.
	ReportPretty bool

	// History, when non-nil, records each finished run.
	History history.Store

	// HistoryRetentionDays prunes history rows older than this many
	// days after each run. 0 keeps history forever.
	HistoryRetentionDays int

	// Metrics, when non-nil, receives run outcome metrics.
	Metrics *metrics.Collector

	// Progress, when non-nil, receives deletion progress per
	// environment batch: done attempts out of total.
	Progress func(environment string, done, total int)
}

// Runner executes cleanup runs. Environments are processed one at a
// time and deletions are issued sequentially, so the per-run cap and
// progress reporting stay deterministic.
type Runner struct {
	mu     sync.Mutex
	opts   Options
	logger *slog.Logger

	// now is the wall clock; tests substitute a fixed instant.
	now func() time.Time
}

// NewRunner creates a Runner.
func NewRunner(opts Options) (*Runner, error) {
	if opts.Client == nil {
		return nil, fmt.Errorf("platform client is required")
	}
	return &Runner{
		opts:   opts,
		logger: slog.Default().With("component", "cleanup.runner"),
		now:    time.Now,
	}, nil
}

// Run executes one cleanup pass and returns the aggregated report.
//
// Every failed deletion is recorded and the batch continues; failures
// surface once at the end. The report artifact and history row are
// persisted whether or not deletions failed. The returned error is
// non-nil for collaborator failures (listing) and, when the
// fail-on-error policy is set, for deletion failures.
func (r *Runner) Run(ctx context.Context) (*report.Report, error) {
	r.mu.Lock()
	pol := r.opts.Retention
	r.mu.Unlock()
	rep := report.New(uuid.NewString(), r.opts.Project, pol.DryRun)

	var olderThan time.Time
	if pol.OlderThanDays > 0 {
		olderThan = r.now().AddDate(0, 0, -pol.OlderThanDays)
	}

	r.logger.Info("cleanup run started",
		"run_id", rep.RunID,
		"project", r.opts.Project,
		"environment", pol.Environment,
		"dry_run", pol.DryRun,
	)

	remaining := pol.MaxDeletionsPerRun
	unlimited := pol.MaxDeletionsPerRun == 0

	for _, env := range environments(pol.Environment) {
		if err := ctx.Err(); err != nil {
			return r.finish(ctx, rep), err
		}

		records, err := r.opts.Client.ListDeployments(ctx, env)
		if err != nil {
			r.finish(ctx, rep)
			return rep, fmt.Errorf("failed to list %s deployments: %w", env, err)
		}

		activeID := ""
		if env == deploy.EnvProduction {
			activeID = platform.ResolveActiveProduction(ctx, r.opts.Client, records)
		}

		bucket, considered := retention.Select(retention.Input{
			Environment:        env,
			Deployments:        records,
			ActiveProductionID: activeID,
			MinKeep:            pol.MinKeep,
			MaxKeep:            pol.MaxKeep,
			OlderThan:          olderThan,
		})

		toDelete := bucket.Deleted
		if !unlimited {
			if remaining <= 0 {
				toDelete = nil
			} else if len(toDelete) > remaining {
				toDelete = toDelete[:remaining]
			}
			if skipped := len(bucket.Deleted) - len(toDelete); skipped > 0 {
				r.logger.Warn("deletion cap reached, deferring deletions to a later run",
					"environment", string(env),
					"deferred", skipped,
					"cap", pol.MaxDeletionsPerRun,
				)
			}
			remaining -= len(toDelete)
		}

		if !pol.DryRun {
			r.deleteBatch(ctx, env, toDelete, rep)
		}

		rep.AddEnvironment(env, bucket, toDelete, considered)

		if r.opts.Metrics != nil {
			r.opts.Metrics.RecordEnvironment(string(env), len(bucket.Kept), len(toDelete))
		}

		r.logger.Info("environment processed",
			"environment", string(env),
			"considered", considered,
			"kept", len(bucket.Kept),
			"deleted", len(toDelete),
			"protected", len(bucket.SkippedProtected),
			"undeletable", len(bucket.SkippedUndeletable),
		)
	}

	r.finish(ctx, rep)

	if rep.Totals.Errors > 0 {
		if pol.FailOnError {
			return rep, fmt.Errorf("%w: %d of %d", ErrDeletionsFailed, rep.Totals.Errors, rep.Totals.Deleted)
		}
		r.logger.Warn("run finished with deletion failures",
			"run_id", rep.RunID,
			"errors", rep.Totals.Errors,
		)
	}

	return rep, nil
}

// UpdateRetention swaps the cleanup policy. A run already in progress
// keeps the policy it started with; the next run uses the new one.
func (r *Runner) UpdateRetention(pol config.RetentionConfig) {
	r.mu.Lock()
	r.opts.Retention = pol
	r.mu.Unlock()
	r.logger.Info("retention policy updated",
		"environment", pol.Environment,
		"min_keep", pol.MinKeep,
		"max_keep", pol.MaxKeep,
	)
}

// deleteBatch deletes each chosen record, recording failures without
// aborting the batch.
func (r *Runner) deleteBatch(ctx context.Context, env deploy.Environment, ids []string, rep *report.Report) {
	if r.opts.Progress != nil && len(ids) > 0 {
		r.opts.Progress(string(env), 0, len(ids))
	}
	for i, id := range ids {
		if err := r.opts.Client.DeleteDeployment(ctx, id); err != nil {
			rep.AddDeletionError(report.DeletionError{
				ID:          id,
				Environment: string(env),
				StatusCode:  statusCode(err),
				Message:     err.Error(),
			})
			r.logger.Error("deletion failed",
				"id", id,
				"environment", string(env),
				"error", err,
			)
		} else {
			r.logger.Debug("deployment deleted", "id", id, "environment", string(env))
		}
		if r.opts.Progress != nil {
			r.opts.Progress(string(env), i+1, len(ids))
		}
	}
}

// finish stamps the report, persists the artifact and the history row,
// and records run metrics. Persistence problems are logged, never fatal:
// the classification outcome matters more than the bookkeeping.
func (r *Runner) finish(ctx context.Context, rep *report.Report) *report.Report {
	rep.Finish()

	if r.opts.ReportPath != "" {
		if err := report.WriteFile(rep, r.opts.ReportPath, r.opts.ReportPretty); err != nil {
			r.logger.Error("failed to write report artifact", "path", r.opts.ReportPath, "error", err)
		} else {
			r.logger.Info("report written", "path", r.opts.ReportPath)
		}
	}

	if r.opts.History != nil {
		if err := r.opts.History.Record(ctx, rep); err != nil {
			r.logger.Error("failed to record run history", "error", err)
		}
		if r.opts.HistoryRetentionDays > 0 {
			cutoff := r.now().AddDate(0, 0, -r.opts.HistoryRetentionDays)
			if _, err := r.opts.History.PruneOlderThan(ctx, cutoff); err != nil {
				r.logger.Error("failed to prune run history", "error", err)
			}
		}
	}

	if r.opts.Metrics != nil {
		status := "success"
		if rep.Totals.Errors > 0 {
			status = "partial"
		}
		r.opts.Metrics.RecordRun(status, rep.Duration())
		r.opts.Metrics.RecordDeletionErrors(rep.Totals.Errors)
	}

	return rep
}

// environments expands the selector into the environments to process.
// "all" processes production and preview independently.
func environments(selector string) []deploy.Environment {
	switch selector {
	case string(deploy.EnvProduction):
		return []deploy.Environment{deploy.EnvProduction}
	case string(deploy.EnvPreview):
		return []deploy.Environment{deploy.EnvPreview}
	default:
		return []deploy.Environment{deploy.EnvProduction, deploy.EnvPreview}
	}
}

// statusCode derives an HTTP status from the collaborator's typed
// errors, for the deletion-error record.
func statusCode(err error) int {
	var apiErr *platform.APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	var notFound *platform.NotFoundError
	if errors.As(err, &notFound) {
		return http.StatusNotFound
	}
	var authErr *platform.AuthError
	if errors.As(err, &authErr) {
		return http.StatusUnauthorized
	}
	var rateErr *platform.RateLimitError
	if errors.As(err, &rateErr) {
		return http.StatusTooManyRequests
	}
	return 0
}
