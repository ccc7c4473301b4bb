// Package store persists workflow run history.
package store

import (
	"context"

	"github.com/me/flowrun/pkg/model"
)

// Store defines the persistence layer for run history.
type Store interface {
	// Run CRUD
	CreateRun(ctx context.Context, run *model.Run) error
	GetRun(ctx context.Context, id string) (*model.Run, error)
	ListRuns(ctx context.Context, opts model.ListOptions) ([]*model.Run, int, error)
	UpdateRun(ctx context.Context, run *model.Run) error

	// Job result operations
	CreateJobResult(ctx context.Context, res *model.JobResult) error
	ListJobResultsByRun(ctx context.Context, runID string) ([]*model.JobResult, error)

	// Lifecycle
	Close() error
	Migrate(ctx context.Context) error
}
