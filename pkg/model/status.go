package model

// Status represents the lifecycle state of a Job.
type Status string

const (
	StatusNotStarted   Status = "NOT_STARTED"
	StatusRunning      Status = "RUNNING"
	StatusFinished     Status = "FINISHED"
	StatusFailed       Status = "FAILED"
	StatusUndetermined Status = "UNDETERMINED"
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// IsTerminal returns true if the job is in a final state.
// There is no transition out of a terminal state.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusFinished, StatusFailed, StatusUndetermined:
		return true
	}
	return false
}

// IsFailure returns true for terminal states the coordinator treats as
// failure. FAILED and UNDETERMINED are reported separately for diagnostics
// but both end a run; FINISHED is the only success terminal state.
func (s Status) IsFailure() bool {
	return s == StatusFailed || s == StatusUndetermined
}

// ValidTransitions defines the allowed status transitions for Jobs.
// A job that cannot be started at all moves straight from NOT_STARTED
// to FAILED.
var ValidTransitions = map[Status][]Status{
	StatusNotStarted: {StatusRunning, StatusFailed},
	StatusRunning:    {StatusFinished, StatusFailed, StatusUndetermined},
}

// CanTransitionTo returns true if moving from the current status to next is valid.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range ValidTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
