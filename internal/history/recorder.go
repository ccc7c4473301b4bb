// Package history records workflow runs into the store as they execute.
package history

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/me/flowrun/internal/graph"
	"github.com/me/flowrun/internal/store"
	"github.com/me/flowrun/internal/workflow"
	"github.com/me/flowrun/pkg/model"
)

// Recorder is a workflow.Observer that persists run history. Store errors
// are logged and swallowed: recording must never fail a run.
type Recorder struct {
	store    store.Store
	logger   *slog.Logger
	workflow string
	loop     bool
	run      *model.Run
}

// NewRecorder creates a Recorder for one run of the named workflow.
// A Recorder instance records a single run; do not reuse it.
func NewRecorder(st store.Store, workflowName string, loop bool, logger *slog.Logger) *Recorder {
	return &Recorder{
		store:    st,
		logger:   logger.With("component", "history", "workflow", workflowName),
		workflow: workflowName,
		loop:     loop,
	}
}

// RunID returns the recorded run's ID, or "" before the run has started.
func (r *Recorder) RunID() string {
	if r.run == nil {
		return ""
	}
	return r.run.ID
}

// RunStarted creates the run row.
func (r *Recorder) RunStarted(meta *workflow.Metadata) {
	now := time.Now().UTC()
	r.run = &model.Run{
		ID:           uuid.NewString(),
		WorkflowName: r.workflow,
		State:        model.RunStateRunning,
		Loop:         r.loop,
		CreatedAt:    now,
		StartedAt:    &now,
	}
	if err := r.store.CreateRun(context.Background(), r.run); err != nil {
		r.logger.Error("create run record", "error", err)
		r.run = nil
		return
	}
	r.logger.Info("run recorded", "run_id", r.run.ID, "jobs", len(meta.Nodes), "batches", len(meta.Batches))
}

// PassStarted keeps the pass counter current so looping runs show progress.
func (r *Recorder) PassStarted(pass int) {
	if r.run == nil {
		return
	}
	r.run.Passes = pass
	if err := r.store.UpdateRun(context.Background(), r.run); err != nil {
		r.logger.Error("update run record", "run_id", r.run.ID, "error", err)
	}
}

// BatchStarted is informational only.
func (r *Recorder) BatchStarted(pass, batch int, nodes []graph.Node) {
	if r.run == nil {
		return
	}
	r.logger.Debug("batch started", "run_id", r.run.ID, "pass", pass, "batch", batch, "jobs", len(nodes))
}

// JobTerminal records the terminal outcome of one job.
func (r *Recorder) JobTerminal(pass, batch int, job string, status model.Status) {
	if r.run == nil {
		return
	}
	now := time.Now().UTC()
	res := &model.JobResult{
		ID:          uuid.NewString(),
		RunID:       r.run.ID,
		JobName:     job,
		Pass:        pass,
		BatchIndex:  batch,
		Status:      status,
		CreatedAt:   now,
		CompletedAt: &now,
	}
	if err := r.store.CreateJobResult(context.Background(), res); err != nil {
		r.logger.Error("create job result", "run_id", r.run.ID, "job", job, "error", err)
	}
}

// RunFinished finalizes the run row.
func (r *Recorder) RunFinished(passes int, err error) {
	if r.run == nil {
		return
	}
	now := time.Now().UTC()
	r.run.Passes = passes
	r.run.CompletedAt = &now
	if err != nil {
		r.run.State = model.RunStateFailed
		r.run.Error = err.Error()
	} else {
		r.run.State = model.RunStateCompleted
	}
	if uerr := r.store.UpdateRun(context.Background(), r.run); uerr != nil {
		r.logger.Error("finalize run record", "run_id", r.run.ID, "error", uerr)
		return
	}
	r.logger.Info("run finalized", "run_id", r.run.ID, "state", r.run.State, "passes", passes)
}
