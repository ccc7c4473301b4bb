package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/me/flowrun/internal/job"
	"github.com/me/flowrun/internal/workflow"
	"github.com/me/flowrun/pkg/model"
)

// JobType selects which Job implementation a workflow file entry builds.
type JobType string

const (
	JobTypeProcess JobType = "process"
	JobTypeHTTP    JobType = "http"
	JobTypeScript  JobType = "script"
	JobTypeNoop    JobType = "noop"
)

// JobSpec is one job entry in a workflow file.
type JobSpec struct {
	Name      string   `yaml:"name"`
	Type      JobType  `yaml:"type"`
	Command   []string `yaml:"command,omitempty"` // process
	Dir       string   `yaml:"dir,omitempty"`     // process
	Env       []string `yaml:"env,omitempty"`     // process
	URL       string   `yaml:"url,omitempty"`     // http
	Script    string   `yaml:"script,omitempty"`  // script
	DependsOn []string `yaml:"depends_on,omitempty"`
}

// WorkflowFile is the YAML definition of a workflow.
type WorkflowFile struct {
	Name         string    `yaml:"name"`
	Loop         bool      `yaml:"loop,omitempty"`
	PollInterval string    `yaml:"poll_interval,omitempty"`
	Jobs         []JobSpec `yaml:"jobs"`
}

// Load reads and validates a workflow file.
func Load(path string) (*WorkflowFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read workflow file: %w", err)
	}
	var wf WorkflowFile
	if err := yaml.Unmarshal(data, &wf); err != nil {
		return nil, fmt.Errorf("parse workflow file %s: %w", path, err)
	}
	if err := wf.Validate(); err != nil {
		return nil, fmt.Errorf("workflow file %s: %w", path, err)
	}
	return &wf, nil
}

// Validate checks the structural constraints that do not require building
// the graph: unique job names, known job types, per-type required fields,
// and depends_on references to declared jobs. Cycles are detected later,
// when the batch plan is computed.
func (f *WorkflowFile) Validate() error {
	if f.Name == "" {
		return fmt.Errorf("workflow name is required")
	}
	if f.PollInterval != "" {
		if _, err := time.ParseDuration(f.PollInterval); err != nil {
			return fmt.Errorf("poll_interval: %w", err)
		}
	}

	names := make(map[string]bool, len(f.Jobs))
	for i, spec := range f.Jobs {
		if spec.Name == "" {
			return fmt.Errorf("jobs[%d]: name is required", i)
		}
		if names[spec.Name] {
			return fmt.Errorf("jobs[%d]: duplicate job name %q", i, spec.Name)
		}
		names[spec.Name] = true

		switch spec.Type {
		case JobTypeProcess:
			if len(spec.Command) == 0 {
				return fmt.Errorf("job %q: process jobs require a command", spec.Name)
			}
		case JobTypeHTTP:
			if spec.URL == "" {
				return fmt.Errorf("job %q: http jobs require a url", spec.Name)
			}
		case JobTypeScript:
			if spec.Script == "" {
				return fmt.Errorf("job %q: script jobs require a script", spec.Name)
			}
		case JobTypeNoop:
		default:
			return fmt.Errorf("job %q: unknown type %q", spec.Name, spec.Type)
		}
	}

	for _, spec := range f.Jobs {
		for _, dep := range spec.DependsOn {
			if !names[dep] {
				return fmt.Errorf("job %q: depends_on references undeclared job %q", spec.Name, dep)
			}
		}
	}
	return nil
}

// BuildWorkflow materializes the file into a runnable workflow with
// constructed jobs, preserving the declared dependency edges.
func (f *WorkflowFile) BuildWorkflow(logger *slog.Logger, extra ...workflow.Option) (*workflow.Workflow, error) {
	opts := []workflow.Option{
		workflow.WithLoop(f.Loop),
		workflow.WithLogger(logger),
	}
	if f.PollInterval != "" {
		d, err := time.ParseDuration(f.PollInterval)
		if err != nil {
			return nil, fmt.Errorf("poll_interval: %w", err)
		}
		opts = append(opts, workflow.WithPollInterval(d))
	}
	opts = append(opts, extra...)
	w := workflow.New(f.Name, opts...)

	jobs := make(map[string]model.Job, len(f.Jobs))
	for _, spec := range f.Jobs {
		jobs[spec.Name] = buildJob(spec, logger)
	}
	for _, spec := range f.Jobs {
		deps := make([]model.Job, len(spec.DependsOn))
		for i, dep := range spec.DependsOn {
			deps[i] = jobs[dep]
		}
		if err := w.AddJob(jobs[spec.Name], deps...); err != nil {
			return nil, err
		}
	}
	return w, nil
}

func buildJob(spec JobSpec, logger *slog.Logger) model.Job {
	switch spec.Type {
	case JobTypeProcess:
		j := job.NewProcessJob(spec.Name, spec.Command, logger)
		if spec.Dir != "" {
			j.WithDir(spec.Dir)
		}
		if len(spec.Env) > 0 {
			j.WithEnv(spec.Env...)
		}
		return j
	case JobTypeHTTP:
		return job.NewHTTPJob(spec.Name, spec.URL, logger)
	case JobTypeScript:
		return job.NewScriptJob(spec.Name, spec.Script, logger)
	default:
		return job.NewNoopJob(spec.Name)
	}
}
