package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/me/flowrun/pkg/model"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and
// returns a Store. Use ":memory:" for an in-memory database in tests.
func NewSQLiteStore(dbPath string, logger *slog.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}

	// WAL improves concurrent read performance for the status server.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma wal: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		logger: logger.With("component", "store"),
	}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Migrate creates all required tables and indexes.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	s.logger.Debug("sql", "op", "migrate")
	return migrate(ctx, s.db)
}

// --- Run CRUD ---

func (s *SQLiteStore) CreateRun(ctx context.Context, run *model.Run) error {
	s.logger.Debug("sql", "op", "insert", "table", "runs", "id", run.ID)

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, workflow_name, state, loop, passes, error, created_at, started_at, completed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.WorkflowName, run.State, boolToInt(run.Loop), run.Passes, run.Error,
		run.CreatedAt.Format(time.RFC3339Nano), formatTime(run.StartedAt), formatTime(run.CompletedAt),
	)
	return err
}

func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*model.Run, error) {
	s.logger.Debug("sql", "op", "select", "table", "runs", "id", id)

	row := s.db.QueryRowContext(ctx,
		`SELECT id, workflow_name, state, loop, passes, error, created_at, started_at, completed_at
		 FROM runs WHERE id = ?`, id)

	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

func (s *SQLiteStore) ListRuns(ctx context.Context, opts model.ListOptions) ([]*model.Run, int, error) {
	s.logger.Debug("sql", "op", "select", "table", "runs", "state", opts.State)
	opts.Clamp()

	where := ""
	args := []any{}
	if opts.State != "" {
		where = " WHERE state = ?"
		args = append(args, opts.State)
	}

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM runs"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, workflow_name, state, loop, passes, error, created_at, started_at, completed_at
		 FROM runs` + where + ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	rows, err := s.db.QueryContext(ctx, query, append(args, opts.Limit, opts.Offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var runs []*model.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, 0, err
		}
		runs = append(runs, run)
	}
	return runs, total, rows.Err()
}

func (s *SQLiteStore) UpdateRun(ctx context.Context, run *model.Run) error {
	s.logger.Debug("sql", "op", "update", "table", "runs", "id", run.ID, "state", run.State)

	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET state = ?, passes = ?, error = ?, started_at = ?, completed_at = ? WHERE id = ?`,
		run.State, run.Passes, run.Error, formatTime(run.StartedAt), formatTime(run.CompletedAt), run.ID,
	)
	return err
}

// --- Job results ---

func (s *SQLiteStore) CreateJobResult(ctx context.Context, res *model.JobResult) error {
	s.logger.Debug("sql", "op", "insert", "table", "job_results", "run_id", res.RunID, "job", res.JobName)

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO job_results (id, run_id, job_name, pass, batch_index, status, created_at, completed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		res.ID, res.RunID, res.JobName, res.Pass, res.BatchIndex, res.Status,
		res.CreatedAt.Format(time.RFC3339Nano), formatTime(res.CompletedAt),
	)
	return err
}

func (s *SQLiteStore) ListJobResultsByRun(ctx context.Context, runID string) ([]*model.JobResult, error) {
	s.logger.Debug("sql", "op", "select", "table", "job_results", "run_id", runID)

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, run_id, job_name, pass, batch_index, status, created_at, completed_at
		 FROM job_results WHERE run_id = ? ORDER BY pass, batch_index, job_name`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*model.JobResult
	for rows.Next() {
		var res model.JobResult
		var createdAt string
		var completedAt *string
		if err := rows.Scan(&res.ID, &res.RunID, &res.JobName, &res.Pass, &res.BatchIndex,
			&res.Status, &createdAt, &completedAt); err != nil {
			return nil, err
		}
		res.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		res.CompletedAt = parseTime(completedAt)
		results = append(results, &res)
	}
	return results, rows.Err()
}

// --- scan and time helpers ---

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*model.Run, error) {
	var run model.Run
	var loop int
	var createdAt string
	var startedAt, completedAt *string

	if err := row.Scan(&run.ID, &run.WorkflowName, &run.State, &loop, &run.Passes, &run.Error,
		&createdAt, &startedAt, &completedAt); err != nil {
		return nil, err
	}
	run.Loop = loop != 0
	run.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	run.StartedAt = parseTime(startedAt)
	run.CompletedAt = parseTime(completedAt)
	return &run, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339Nano)
	return &s
}

func parseTime(s *string) *time.Time {
	if s == nil {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, *s)
	if err != nil {
		return nil
	}
	return &t
}
