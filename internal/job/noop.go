package job

import (
	"context"
	"sync"

	"github.com/me/flowrun/pkg/model"
)

// NoopJob performs no work: it reports FINISHED as soon as it has been
// started. Useful as a placeholder step and for wiring tests.
type NoopJob struct {
	name string

	mu     sync.Mutex
	status model.Status
}

// NewNoopJob creates a NoopJob.
func NewNoopJob(name string) *NoopJob {
	return &NoopJob{name: name, status: model.StatusNotStarted}
}

// Name returns the job name.
func (j *NoopJob) Name() string {
	return j.name
}

// Run completes immediately; there is no work to do.
func (j *NoopJob) Run(_ context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.status = model.StatusFinished
	return nil
}

// Status reports the current state.
func (j *NoopJob) Status(_ context.Context) (model.Status, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.status, nil
}

// Kill is a no-op.
func (j *NoopJob) Kill(_ context.Context) error {
	return nil
}
