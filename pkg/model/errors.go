package model

import (
	"fmt"
	"strings"
)

// DuplicateJobError reports a second registration of a job name.
// The first registration is unaffected.
type DuplicateJobError struct {
	Name string
}

func (e *DuplicateJobError) Error() string {
	return fmt.Sprintf("job %q already exists in workflow", e.Name)
}

// InvalidDependencyError reports a job or dependency that does not satisfy
// the job contract (nil value, empty name). Raised at registration time,
// before any graph work.
type InvalidDependencyError struct {
	JobName string
	Reason  string
}

func (e *InvalidDependencyError) Error() string {
	if e.JobName == "" {
		return "invalid job registration: " + e.Reason
	}
	return fmt.Sprintf("invalid registration of job %q: %s", e.JobName, e.Reason)
}

// CyclicDependencyError reports that the dependency graph is not acyclic.
// Nodes lists the job names involved in or blocked by the cycle, sorted.
type CyclicDependencyError struct {
	Nodes []string
}

func (e *CyclicDependencyError) Error() string {
	return "workflow contains a dependency cycle involving jobs: " + strings.Join(e.Nodes, ", ")
}

// MetadataAlreadyComputedError reports an attempt to recompute immutable
// workflow metadata, which signals a reuse bug in the caller.
type MetadataAlreadyComputedError struct {
	Workflow string
}

func (e *MetadataAlreadyComputedError) Error() string {
	return fmt.Sprintf("workflow %q: metadata already computed and cannot be modified", e.Workflow)
}

// MetadataNotComputedError reports a metadata read before the first run.
type MetadataNotComputedError struct {
	Workflow string
}

func (e *MetadataNotComputedError) Error() string {
	return fmt.Sprintf("workflow %q: metadata not computed yet; it is computed on the first run", e.Workflow)
}

// BatchFailureError reports a batch whose jobs ended in a failed or
// undetermined state. It is raised after best-effort termination of every
// job in the batch and ends the whole run, looping included.
type BatchFailureError struct {
	Failed       []string
	Undetermined []string
}

func (e *BatchFailureError) Error() string {
	var parts []string
	if len(e.Failed) > 0 {
		parts = append(parts, "failed: "+strings.Join(e.Failed, ", "))
	}
	if len(e.Undetermined) > 0 {
		parts = append(parts, "undetermined: "+strings.Join(e.Undetermined, ", "))
	}
	return "batch cannot be completed (" + strings.Join(parts, "; ") + ")"
}

// Jobs returns the names of every offending job in the batch.
func (e *BatchFailureError) Jobs() []string {
	out := make([]string, 0, len(e.Failed)+len(e.Undetermined))
	out = append(out, e.Failed...)
	out = append(out, e.Undetermined...)
	return out
}

// ErrorCode represents a structured API error code.
type ErrorCode string

const (
	ErrValidation ErrorCode = "VALIDATION_ERROR"
	ErrNotFound   ErrorCode = "NOT_FOUND"
	ErrInternal   ErrorCode = "INTERNAL_ERROR"
)

// APIError is a structured error returned by the status API.
type APIError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewValidationError creates a VALIDATION_ERROR APIError.
func NewValidationError(msg string) *APIError {
	return &APIError{Code: ErrValidation, Message: msg}
}

// NewNotFoundError creates a NOT_FOUND APIError.
func NewNotFoundError(resource, id string) *APIError {
	return &APIError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s '%s' not found", resource, id),
	}
}

// NewInternalError creates an INTERNAL_ERROR APIError wrapping err's message.
func NewInternalError(err error) *APIError {
	return &APIError{Code: ErrInternal, Message: err.Error()}
}
