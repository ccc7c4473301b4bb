// Package job provides Job implementations: local OS processes, remote
// HTTP services, in-process scripts, and a no-op placeholder.
package job

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"sync"

	"github.com/me/flowrun/pkg/model"
)

// ProcessJob runs a command as a local OS process. Run starts the process
// and returns immediately; a background waiter records the terminal
// status when the process exits.
type ProcessJob struct {
	name    string
	command []string
	dir     string
	env     []string
	logger  *slog.Logger

	mu     sync.Mutex
	cmd    *exec.Cmd
	status model.Status
}

// NewProcessJob creates a ProcessJob with the given name and argv.
func NewProcessJob(name string, command []string, logger *slog.Logger) *ProcessJob {
	return &ProcessJob{
		name:    name,
		command: command,
		logger:  logger.With("component", "process-job", "job", name),
		status:  model.StatusNotStarted,
	}
}

// WithDir sets the working directory for the process.
func (j *ProcessJob) WithDir(dir string) *ProcessJob {
	j.dir = dir
	return j
}

// WithEnv appends KEY=VALUE environment entries for the process.
func (j *ProcessJob) WithEnv(env ...string) *ProcessJob {
	j.env = append(j.env, env...)
	return j
}

// Name returns the job name.
func (j *ProcessJob) Name() string {
	return j.name
}

// Run starts the process. It does not wait for the process to exit.
// A job that reached a terminal state may be run again (looping workflows
// restart every job each pass); starting a running job is an error.
func (j *ProcessJob) Run(_ context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.status == model.StatusRunning {
		return fmt.Errorf("job %s: already running", j.name)
	}
	if len(j.command) == 0 {
		j.status = model.StatusFailed
		return fmt.Errorf("job %s: command is empty", j.name)
	}

	cmd := exec.Command(j.command[0], j.command[1:]...)
	cmd.Dir = j.dir
	if len(j.env) > 0 {
		cmd.Env = append(os.Environ(), j.env...)
	}

	if err := cmd.Start(); err != nil {
		j.status = model.StatusFailed
		return fmt.Errorf("job %s: start: %w", j.name, err)
	}
	j.cmd = cmd
	j.status = model.StatusRunning
	j.logger.Debug("process started", "pid", cmd.Process.Pid)

	go j.wait(cmd)
	return nil
}

// wait blocks on process exit and records the terminal status.
func (j *ProcessJob) wait(cmd *exec.Cmd) {
	err := cmd.Wait()

	j.mu.Lock()
	defer j.mu.Unlock()

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		j.status = model.StatusFinished
	case errors.As(err, &exitErr):
		j.logger.Debug("process exited", "exit_code", exitErr.ExitCode())
		j.status = model.StatusFailed
	default:
		// Wait itself failed; the process outcome is unknowable.
		j.logger.Error("wait failed", "error", err)
		j.status = model.StatusUndetermined
	}
}

// Status reports the current lifecycle state of the process.
func (j *ProcessJob) Status(_ context.Context) (model.Status, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.status, nil
}

// Kill terminates the process. Safe to call in any state: killing a job
// that is terminal or was never started is a no-op.
func (j *ProcessJob) Kill(_ context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.status != model.StatusRunning || j.cmd == nil || j.cmd.Process == nil {
		return nil
	}
	if err := j.cmd.Process.Kill(); err != nil {
		return fmt.Errorf("job %s: kill: %w", j.name, err)
	}
	return nil
}
