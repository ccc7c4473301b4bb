package model

import "context"

// Job is the capability contract the workflow coordinator requires of a
// unit of work. The coordinator never executes job work in-process: Run
// starts the work and returns, Status reports progress, and Kill requests
// termination. Where the work actually happens (child process, remote
// service, goroutine) is the implementation's business.
type Job interface {
	// Name returns the stable unique identifier used for graph node
	// identity and error reporting.
	Name() string

	// Run starts the job. It must not block on the job's work completing;
	// an error means the job could not be started at all.
	Run(ctx context.Context) error

	// Status reports the job's current lifecycle state.
	Status(ctx context.Context) (Status, error)

	// Kill requests termination. It must be safe to call in any state,
	// including when the job is already terminal or was never started.
	Kill(ctx context.Context) error
}
