package graph

import (
	"sort"

	"github.com/me/flowrun/pkg/model"
)

// Batches computes the layered topological order of the graph: each batch
// is the set of nodes whose dependencies have all been emitted in earlier
// batches, so for every edge A->B, B's batch index is strictly less than
// A's. Jobs within one batch are independent of each other; they are
// returned sorted by name for deterministic output, though no intra-batch
// ordering is guaranteed to callers.
//
// Returns a CyclicDependencyError naming the stuck nodes when the graph is
// not a DAG. An empty graph yields an empty batch sequence.
func (g *Graph) Batches() ([][]Node, error) {
	remaining := make(map[string]int, len(g.nodes)) // unresolved dependency count
	dependents := make(map[string][]string, len(g.nodes))
	for name, deps := range g.deps {
		remaining[name] = len(deps)
		for dep := range deps {
			dependents[dep] = append(dependents[dep], name)
		}
	}

	var batches [][]Node
	for len(remaining) > 0 {
		var ready []string
		for name, count := range remaining {
			if count == 0 {
				ready = append(ready, name)
			}
		}
		if len(ready) == 0 {
			stuck := make([]string, 0, len(remaining))
			for name := range remaining {
				stuck = append(stuck, name)
			}
			sort.Strings(stuck)
			return nil, &model.CyclicDependencyError{Nodes: stuck}
		}
		sort.Strings(ready)

		batch := make([]Node, len(ready))
		for i, name := range ready {
			batch[i] = g.nodes[name]
			delete(remaining, name)
			for _, waiting := range dependents[name] {
				remaining[waiting]--
			}
		}
		batches = append(batches, batch)
	}

	return batches, nil
}
