package cleanup

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs cleanup passes on a cron schedule for daemon mode.
type Scheduler struct {
	runner   *Runner
	schedule string
	cron     *cron.Cron
	mu       sync.Mutex
	logger   *slog.Logger
	running  bool
}

// NewScheduler creates a scheduler that triggers the runner according
// to a standard cron expression.
func NewScheduler(runner *Runner, schedule string) *Scheduler {
	return &Scheduler{
		runner:   runner,
		schedule: schedule,
		cron:     cron.New(),
		logger:   slog.Default().With("component", "cleanup.scheduler"),
	}
}

// Start begins scheduled cleanups.
//
// Common cron expressions:
//   - "0 3 * * *"    - Daily at 3 AM
//   - "0 */6 * * *"  - Every 6 hours
//   - "0 0 * * 0"    - Weekly on Sunday at midnight
//
// An empty schedule is a no-op. The scheduler stops itself when ctx is
// cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.schedule == "" {
		s.logger.Info("cleanup schedule not configured, skipping scheduler")
		return nil
	}

	if _, err := cron.ParseStandard(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", s.schedule, err)
	}

	if _, err := s.cron.AddFunc(s.schedule, func() {
		s.runCleanup(ctx)
	}); err != nil {
		return fmt.Errorf("failed to schedule cleanup: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("cleanup scheduler started", "schedule", s.schedule)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// runCleanup executes one scheduled cleanup pass.
func (s *Scheduler) runCleanup(ctx context.Context) {
	s.logger.Info("starting scheduled cleanup")

	rep, err := s.runner.Run(ctx)
	if err != nil {
		s.logger.Error("scheduled cleanup failed", "error", err)
		return
	}

	if rep.Totals.Deleted > 0 {
		s.logger.Info("scheduled cleanup completed",
			"run_id", rep.RunID,
			"deleted", rep.Totals.Deleted,
			"kept", rep.Totals.Kept,
		)
	} else {
		s.logger.Debug("scheduled cleanup completed, nothing to delete",
			"run_id", rep.RunID,
		)
	}
}

// Stop stops the scheduler and waits for a running cleanup to complete.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil && s.running {
		ctx := s.cron.Stop()
		<-ctx.Done()
		s.running = false
		s.logger.Info("cleanup scheduler stopped")
	}
}

// IsRunning returns true if the scheduler is running.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.running
}

// NextRun returns the next scheduled cleanup time, or nil when nothing
// is scheduled.
func (s *Scheduler) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron == nil {
		return nil
	}

	entries := s.cron.Entries()
	if len(entries) == 0 {
		return nil
	}

	next := entries[0].Next
	return &next
}
