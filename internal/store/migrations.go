package store

import (
	"context"
	"database/sql"
)

// schema contains the DDL for all flowrun tables.
// Each statement uses IF NOT EXISTS for idempotency.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS runs (
		id            TEXT PRIMARY KEY,
		workflow_name TEXT NOT NULL,
		state         TEXT NOT NULL DEFAULT 'PENDING',
		loop          INTEGER NOT NULL DEFAULT 0,
		passes        INTEGER NOT NULL DEFAULT 0,
		error         TEXT NOT NULL DEFAULT '',
		created_at    TEXT NOT NULL,
		started_at    TEXT,
		completed_at  TEXT
	)`,

	`CREATE TABLE IF NOT EXISTS job_results (
		id           TEXT PRIMARY KEY,
		run_id       TEXT NOT NULL,
		job_name     TEXT NOT NULL,
		pass         INTEGER NOT NULL,
		batch_index  INTEGER NOT NULL,
		status       TEXT NOT NULL,
		created_at   TEXT NOT NULL,
		completed_at TEXT
	)`,

	`CREATE INDEX IF NOT EXISTS idx_runs_state ON runs(state)`,
	`CREATE INDEX IF NOT EXISTS idx_runs_workflow_name ON runs(workflow_name)`,
	`CREATE INDEX IF NOT EXISTS idx_job_results_run_id ON job_results(run_id)`,
}

// migrate applies the schema statements in order.
func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
