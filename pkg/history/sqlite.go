package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"deckhand-hq/deckhand/pkg/report"
)

// schema is the run history table. The full report is stored as JSON
// alongside the columns the history listing needs.
const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id      TEXT PRIMARY KEY,
	project     TEXT NOT NULL,
	dry_run     INTEGER NOT NULL,
	started_at  TEXT NOT NULL,
	finished_at TEXT NOT NULL,
	considered  INTEGER NOT NULL,
	kept        INTEGER NOT NULL,
	deleted     INTEGER NOT NULL,
	errors      INTEGER NOT NULL,
	report      TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
`

// SQLiteConfig contains configuration for the SQLite history store.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// SQLiteStore implements Store on a local SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// ErrRunNotFound is returned by Get for unknown run identifiers.
var ErrRunNotFound = errors.New("run not found")

// NewSQLiteStore opens (and if needed initializes) the history database.
func NewSQLiteStore(cfg SQLiteConfig) (*SQLiteStore, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("history database path is required")
	}
	if cfg.BusyTimeout <= 0 {
		cfg.BusyTimeout = 5 * time.Second
	}

	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	s := &SQLiteStore{
		db:     db,
		logger: slog.Default().With("component", "history.sqlite"),
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", cfg.BusyTimeout.Milliseconds())); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}

	s.logger.Debug("history store initialized", "path", cfg.Path)
	return s, nil
}

// Record persists one finished run.
func (s *SQLiteStore) Record(ctx context.Context, r *report.Report) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to serialize report: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs (run_id, project, dry_run, started_at, finished_at,
		                  considered, kept, deleted, errors, report)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID,
		r.Project,
		boolToInt(r.DryRun),
		r.StartedAt.UTC().Format(time.RFC3339Nano),
		r.FinishedAt.UTC().Format(time.RFC3339Nano),
		r.Totals.Considered,
		r.Totals.Kept,
		r.Totals.Deleted,
		r.Totals.Errors,
		string(payload),
	)
	if err != nil {
		return fmt.Errorf("failed to record run %q: %w", r.RunID, err)
	}
	return nil
}

// List returns the most recent runs, newest first.
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]Run, error) {
	query := `
		SELECT run_id, project, dry_run, started_at, finished_at,
		       considered, kept, deleted, errors, report
		FROM runs ORDER BY started_at DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Get returns one run by identifier, or ErrRunNotFound.
func (s *SQLiteStore) Get(ctx context.Context, runID string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT run_id, project, dry_run, started_at, finished_at,
		       considered, kept, deleted, errors, report
		FROM runs WHERE run_id = ?`, runID)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// PruneOlderThan deletes runs started before the cutoff.
func (s *SQLiteStore) PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM runs WHERE started_at < ?",
		cutoff.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to prune history: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		s.logger.Info("history pruned", "deleted_runs", deleted, "cutoff", cutoff)
	}
	return deleted, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// scanner covers *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var (
		run        Run
		dryRun     int
		startedAt  string
		finishedAt string
		payload    string
	)
	err := sc.Scan(&run.RunID, &run.Project, &dryRun, &startedAt, &finishedAt,
		&run.Considered, &run.Kept, &run.Deleted, &run.Errors, &payload)
	if err != nil {
		return Run{}, err
	}

	run.DryRun = dryRun != 0
	if run.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
		return Run{}, fmt.Errorf("corrupt started_at for run %q: %w", run.RunID, err)
	}
	if run.FinishedAt, err = time.Parse(time.RFC3339Nano, finishedAt); err != nil {
		return Run{}, fmt.Errorf("corrupt finished_at for run %q: %w", run.RunID, err)
	}

	var rep report.Report
	if err := json.Unmarshal([]byte(payload), &rep); err != nil {
		return Run{}, fmt.Errorf("corrupt report for run %q: %w", run.RunID, err)
	}
	run.Report = &rep
	return run, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
