package job

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dop251/goja"

	"github.com/me/flowrun/pkg/model"
)

// ScriptJob runs a JavaScript program in an embedded interpreter. The
// script executes on a background goroutine in its own VM; Kill
// interrupts the VM, which surfaces as an UNDETERMINED outcome.
type ScriptJob struct {
	name   string
	source string
	logger *slog.Logger

	mu     sync.Mutex
	vm     *goja.Runtime
	status model.Status
}

// NewScriptJob creates a ScriptJob evaluating source.
func NewScriptJob(name, source string, logger *slog.Logger) *ScriptJob {
	return &ScriptJob{
		name:   name,
		source: source,
		logger: logger.With("component", "script-job", "job", name),
		status: model.StatusNotStarted,
	}
}

// Name returns the job name.
func (j *ScriptJob) Name() string {
	return j.name
}

// Run starts evaluating the script on a background goroutine. A job that
// reached a terminal state may be run again; starting a running job is an
// error.
func (j *ScriptJob) Run(_ context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.status == model.StatusRunning {
		return fmt.Errorf("job %s: already running", j.name)
	}
	j.vm = goja.New()
	j.status = model.StatusRunning

	vm := j.vm
	go func() {
		_, err := vm.RunString(j.source)

		j.mu.Lock()
		defer j.mu.Unlock()
		if j.vm != vm {
			// A later pass restarted the job; this result is stale.
			return
		}

		var interrupted *goja.InterruptedError
		switch {
		case err == nil:
			j.status = model.StatusFinished
		case errors.As(err, &interrupted):
			j.status = model.StatusUndetermined
		default:
			j.logger.Debug("script failed", "error", err)
			j.status = model.StatusFailed
		}
	}()

	return nil
}

// Status reports the current lifecycle state of the script.
func (j *ScriptJob) Status(_ context.Context) (model.Status, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.status, nil
}

// Kill interrupts the running script. No-op once the script is terminal
// or if it was never started.
func (j *ScriptJob) Kill(_ context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.status != model.StatusRunning || j.vm == nil {
		return nil
	}
	// Interrupt is safe to call from another goroutine.
	j.vm.Interrupt("killed")
	return nil
}
