// Package workflow owns job registration and drives dependency-ordered
// execution: jobs are grouped into topological batches, each batch is
// started and polled to completion, and the whole sequence optionally
// repeats forever.
package workflow

import (
	"log/slog"
	"time"

	"github.com/me/flowrun/internal/graph"
	"github.com/me/flowrun/pkg/model"
)

// DefaultPollInterval is the fixed wait between status polls of a running
// batch. Tunable per workflow via WithPollInterval, not per job.
const DefaultPollInterval = 2 * time.Second

// Metadata is the immutable execution plan of a workflow: its nodes, the
// batched topological order, and the dependency graph both were derived
// from. It is computed exactly once, at the start of the first run.
type Metadata struct {
	Nodes   []graph.Node
	Batches [][]graph.Node
	Graph   *graph.Graph
}

// Workflow accumulates named jobs with explicit dependencies and executes
// them batch by batch. Registration happens before the first run; the
// registry and metadata are never mutated afterwards. A Workflow is driven
// by a single goroutine and is not safe for concurrent use.
type Workflow struct {
	name         string
	loop         bool
	pollInterval time.Duration
	logger       *slog.Logger
	observer     Observer

	registry map[string]graph.Registration
	meta     *Metadata
}

// Option configures a Workflow.
type Option func(*Workflow)

// WithLoop makes Run repeat the full batch sequence until a batch fails.
func WithLoop(loop bool) Option {
	return func(w *Workflow) { w.loop = loop }
}

// WithPollInterval overrides the fixed wait between status polls.
func WithPollInterval(d time.Duration) Option {
	return func(w *Workflow) {
		if d > 0 {
			w.pollInterval = d
		}
	}
}

// WithLogger sets the logger used by the coordinator.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Workflow) { w.logger = logger }
}

// WithObserver sets the observer notified of run lifecycle events.
func WithObserver(o Observer) Option {
	return func(w *Workflow) {
		if o != nil {
			w.observer = o
		}
	}
}

// New creates an empty workflow.
func New(name string, opts ...Option) *Workflow {
	w := &Workflow{
		name:         name,
		pollInterval: DefaultPollInterval,
		logger:       slog.Default(),
		observer:     NopObserver{},
		registry:     make(map[string]graph.Registration),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.With("component", "workflow", "workflow", name)
	return w
}

// Name returns the workflow name.
func (w *Workflow) Name() string {
	return w.name
}

// Loop reports whether Run repeats the batch sequence.
func (w *Workflow) Loop() bool {
	return w.loop
}

// AddJob registers a job and its direct dependencies. Dependencies need
// not be registered as top-level jobs themselves; a dependency reference
// creates its graph node on demand. Registration must happen before the
// first run.
func (w *Workflow) AddJob(job model.Job, deps ...model.Job) error {
	if job == nil {
		return &model.InvalidDependencyError{Reason: "job is nil"}
	}
	name := job.Name()
	if name == "" {
		return &model.InvalidDependencyError{Reason: "job has an empty name"}
	}
	for _, dep := range deps {
		if dep == nil {
			return &model.InvalidDependencyError{JobName: name, Reason: "dependency is nil"}
		}
		if dep.Name() == "" {
			return &model.InvalidDependencyError{JobName: name, Reason: "dependency has an empty name"}
		}
	}
	if _, exists := w.registry[name]; exists {
		return &model.DuplicateJobError{Name: name}
	}
	w.registry[name] = graph.Registration{Job: job, Dependencies: deps}
	return nil
}

// Metadata returns the computed execution plan. It fails until the first
// Run has computed it; afterwards the same value is returned forever.
func (w *Workflow) Metadata() (*Metadata, error) {
	if w.meta == nil {
		return nil, &model.MetadataNotComputedError{Workflow: w.name}
	}
	return w.meta, nil
}

// Plan builds a throwaway execution plan from the current registry without
// touching the workflow's write-once metadata. Building is deterministic,
// so the plan matches what the first Run will compute.
func (w *Workflow) Plan() (*Metadata, error) {
	g := graph.Build(w.registry)
	batches, err := g.Batches()
	if err != nil {
		return nil, err
	}
	return &Metadata{Nodes: g.Nodes(), Batches: batches, Graph: g}, nil
}

// computeMetadata builds the graph and batch sequence and stores them in
// the write-once metadata cell. A second call is a reuse bug and fails.
func (w *Workflow) computeMetadata() (*Metadata, error) {
	if w.meta != nil {
		return nil, &model.MetadataAlreadyComputedError{Workflow: w.name}
	}
	g := graph.Build(w.registry)
	batches, err := g.Batches()
	if err != nil {
		return nil, err
	}
	w.meta = &Metadata{Nodes: g.Nodes(), Batches: batches, Graph: g}
	return w.meta, nil
}
