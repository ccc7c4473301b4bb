package model

import "time"

// RunState represents the lifecycle state of a recorded workflow run.
type RunState string

const (
	RunStatePending   RunState = "PENDING"
	RunStateRunning   RunState = "RUNNING"
	RunStateCompleted RunState = "COMPLETED"
	RunStateFailed    RunState = "FAILED"
)

// String returns the string representation of the run state.
func (s RunState) String() string {
	return string(s)
}

// IsTerminal returns true if the run is in a final state.
func (s RunState) IsTerminal() bool {
	return s == RunStateCompleted || s == RunStateFailed
}

// Run records one invocation of a workflow: which workflow ran, whether it
// looped, how many passes completed, and how it ended.
type Run struct {
	ID           string     `json:"id"`
	WorkflowName string     `json:"workflow_name"`
	State        RunState   `json:"state"`
	Loop         bool       `json:"loop"`
	Passes       int        `json:"passes"`
	Error        string     `json:"error,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

// JobResult records the terminal outcome of one job in one pass of a run.
type JobResult struct {
	ID          string     `json:"id"`
	RunID       string     `json:"run_id"`
	JobName     string     `json:"job_name"`
	Pass        int        `json:"pass"`
	BatchIndex  int        `json:"batch_index"`
	Status      Status     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// ListOptions configures list queries with pagination and filtering.
type ListOptions struct {
	Limit  int
	Offset int
	State  string // optional state filter
}

// DefaultListOptions returns sensible defaults.
func DefaultListOptions() ListOptions {
	return ListOptions{Limit: 20, Offset: 0}
}

// Clamp enforces limits (max 100, min 1).
func (o *ListOptions) Clamp() {
	if o.Limit <= 0 {
		o.Limit = 20
	}
	if o.Limit > 100 {
		o.Limit = 100
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
}
