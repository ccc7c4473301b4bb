package workflow

import (
	"context"
	"time"

	"github.com/me/flowrun/internal/graph"
	"github.com/me/flowrun/pkg/model"
)

// Run computes the workflow metadata (exactly once; a second Run on the
// same instance fails with MetadataAlreadyComputedError), then executes
// the batch sequence. With the loop flag set, the full sequence repeats
// until a batch fails or ctx is cancelled; otherwise Run returns after one
// pass. Batch K+1 never starts until every job in batch K has finished,
// and a batch failure ends the entire run.
func (w *Workflow) Run(ctx context.Context) error {
	meta, err := w.computeMetadata()
	if err != nil {
		return err
	}
	w.logger.Info("workflow starting",
		"jobs", len(meta.Nodes),
		"batches", len(meta.Batches),
		"loop", w.loop,
	)
	w.observer.RunStarted(meta)

	passes := 0
	for first := true; first || w.loop; first = false {
		passes++
		w.observer.PassStarted(passes)
		for i, batch := range meta.Batches {
			w.observer.BatchStarted(passes, i, batch)
			if err := w.executeAndWait(ctx, passes, i, batch); err != nil {
				w.logger.Error("workflow failed", "pass", passes, "batch", i, "error", err)
				w.observer.RunFinished(passes, err)
				return err
			}
		}
		w.logger.Info("pass completed", "pass", passes)
	}

	w.observer.RunFinished(passes, nil)
	return nil
}

// executeAndWait starts every job in the batch, then polls their statuses
// at the configured interval until all report FINISHED or at least one
// reports FAILED or UNDETERMINED. On failure, every job in the batch is
// killed best-effort and a BatchFailureError naming the offenders is
// returned; the siblings are aborted even if they would have succeeded.
func (w *Workflow) executeAndWait(ctx context.Context, pass, batchIdx int, batch []graph.Node) error {
	// A failed start counts the job as FAILED without ever polling it.
	startFailed := make(map[string]bool)
	for _, node := range batch {
		w.logger.Info("starting job", "job", node.Name, "pass", pass, "batch", batchIdx)
		if err := node.Job.Run(ctx); err != nil {
			w.logger.Error("job start failed", "job", node.Name, "error", err)
			startFailed[node.Name] = true
		}
	}

	for {
		allFinished := true
		var failed, undetermined []string

		for _, node := range batch {
			if startFailed[node.Name] {
				allFinished = false
				failed = append(failed, node.Name)
				continue
			}
			status, err := node.Job.Status(ctx)
			if err != nil {
				// The job's outcome is unknowable; treat as undetermined.
				w.logger.Error("status query failed", "job", node.Name, "error", err)
				status = model.StatusUndetermined
			}
			if status == model.StatusFinished {
				continue
			}
			allFinished = false
			switch status {
			case model.StatusFailed:
				failed = append(failed, node.Name)
			case model.StatusUndetermined:
				undetermined = append(undetermined, node.Name)
			}
		}

		if allFinished {
			for _, node := range batch {
				w.observer.JobTerminal(pass, batchIdx, node.Name, model.StatusFinished)
			}
			return nil
		}

		if len(failed) > 0 || len(undetermined) > 0 {
			w.killBatch(ctx, batch)
			for _, name := range failed {
				w.observer.JobTerminal(pass, batchIdx, name, model.StatusFailed)
			}
			for _, name := range undetermined {
				w.observer.JobTerminal(pass, batchIdx, name, model.StatusUndetermined)
			}
			return &model.BatchFailureError{Failed: failed, Undetermined: undetermined}
		}

		select {
		case <-ctx.Done():
			w.killBatch(ctx, batch)
			return ctx.Err()
		case <-time.After(w.pollInterval):
		}
	}
}

// killBatch issues a terminate request to every job in the batch, jobs
// already finished included. Kill is idempotent by contract; errors are
// logged and otherwise ignored.
func (w *Workflow) killBatch(ctx context.Context, batch []graph.Node) {
	ctx = context.WithoutCancel(ctx)
	for _, node := range batch {
		if err := node.Job.Kill(ctx); err != nil {
			w.logger.Error("kill failed", "job", node.Name, "error", err)
		}
	}
}
