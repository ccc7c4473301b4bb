// Package graph builds the dependency graph of a workflow and computes its
// batched topological order.
package graph

import (
	"sort"

	"github.com/me/flowrun/pkg/model"
)

// Node is a (name, job) pair. Two nodes are equal iff their names are
// equal: a job referenced as a dependency and the same job registered
// directly resolve to the same logical node.
type Node struct {
	Name string
	Job  model.Job
}

// Registration is one registered job together with its declared
// dependencies. Dependencies are Job values, not names; they need not be
// registered as top-level jobs themselves.
type Registration struct {
	Job          model.Job
	Dependencies []model.Job
}

// Graph maps each node to the set of nodes that must finish before it.
type Graph struct {
	nodes map[string]Node
	deps  map[string]map[string]bool
}

// Build constructs the Graph from a registry of registrations. Nodes are
// keyed by name; a dependency reference creates its node on demand, and an
// edge job->dependency is added for every declared dependency. Build is
// deterministic: the same registry always yields an isomorphic graph.
func Build(registry map[string]Registration) *Graph {
	g := &Graph{
		nodes: make(map[string]Node, len(registry)),
		deps:  make(map[string]map[string]bool, len(registry)),
	}
	for name, reg := range registry {
		g.addNode(name, reg.Job)
		for _, dep := range reg.Dependencies {
			g.addNode(dep.Name(), dep)
			g.deps[name][dep.Name()] = true
		}
	}
	return g
}

func (g *Graph) addNode(name string, job model.Job) {
	if _, ok := g.nodes[name]; ok {
		return
	}
	g.nodes[name] = Node{Name: name, Job: job}
	g.deps[name] = make(map[string]bool)
}

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Nodes returns every node, sorted by name.
func (g *Graph) Nodes() []Node {
	out := make([]Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Dependencies returns the names a node must wait for, sorted. The second
// return is false if the node is not in the graph.
func (g *Graph) Dependencies(name string) ([]string, bool) {
	deps, ok := g.deps[name]
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(deps))
	for dep := range deps {
		out = append(out, dep)
	}
	sort.Strings(out)
	return out, true
}
