package workflow

import (
	"github.com/me/flowrun/internal/graph"
	"github.com/me/flowrun/pkg/model"
)

// Observer receives run lifecycle notifications from the coordinator.
// Calls happen inline on the coordinator goroutine, so implementations
// must return quickly and must not call back into the Workflow.
type Observer interface {
	// RunStarted fires once, after metadata has been computed.
	RunStarted(meta *Metadata)

	// PassStarted fires at the beginning of each pass (1-based).
	PassStarted(pass int)

	// BatchStarted fires before the jobs of a batch are started.
	BatchStarted(pass, batch int, nodes []graph.Node)

	// JobTerminal fires for each job observed in a terminal state: every
	// job of a successful batch, or the offending jobs of a failed one.
	JobTerminal(pass, batch int, job string, status model.Status)

	// RunFinished fires once, with the number of passes attempted and the
	// error that ended the run (nil for a completed non-looping run).
	RunFinished(passes int, err error)
}

// NopObserver ignores all notifications.
type NopObserver struct{}

func (NopObserver) RunStarted(*Metadata)                       {}
func (NopObserver) PassStarted(int)                            {}
func (NopObserver) BatchStarted(int, int, []graph.Node)        {}
func (NopObserver) JobTerminal(int, int, string, model.Status) {}
func (NopObserver) RunFinished(int, error)                     {}
