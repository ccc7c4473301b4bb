package graph

import (
	"context"
	"reflect"
	"testing"

	"github.com/me/flowrun/pkg/model"
)

type stubJob struct{ name string }

func (s stubJob) Name() string                                 { return s.name }
func (s stubJob) Run(context.Context) error                    { return nil }
func (s stubJob) Status(context.Context) (model.Status, error) { return model.StatusFinished, nil }
func (s stubJob) Kill(context.Context) error                   { return nil }

// registry builds a Registration map from name -> dependency names.
func registry(entries map[string][]string) map[string]Registration {
	out := make(map[string]Registration, len(entries))
	for name, deps := range entries {
		reg := Registration{Job: stubJob{name}}
		for _, dep := range deps {
			reg.Dependencies = append(reg.Dependencies, stubJob{dep})
		}
		out[name] = reg
	}
	return out
}

func TestBuildCreatesDependencyNodesOnDemand(t *testing.T) {
	// "fetch" is only ever referenced as a dependency, never registered.
	g := Build(registry(map[string][]string{
		"train": {"fetch"},
	}))

	if g.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", g.Len())
	}
	deps, ok := g.Dependencies("train")
	if !ok {
		t.Fatal("Dependencies(train): node missing")
	}
	if !reflect.DeepEqual(deps, []string{"fetch"}) {
		t.Errorf("Dependencies(train) = %v, want [fetch]", deps)
	}
	deps, ok = g.Dependencies("fetch")
	if !ok {
		t.Fatal("Dependencies(fetch): node missing")
	}
	if len(deps) != 0 {
		t.Errorf("Dependencies(fetch) = %v, want empty", deps)
	}
}

func TestBuildDedupesByName(t *testing.T) {
	// The same name used as a dependency twice and registered directly
	// resolves to a single node.
	g := Build(registry(map[string][]string{
		"shared": nil,
		"a":      {"shared"},
		"b":      {"shared"},
	}))

	if g.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", g.Len())
	}
}

func TestNodesSortedByName(t *testing.T) {
	g := Build(registry(map[string][]string{
		"zeta": nil, "alpha": nil, "mid": nil,
	}))

	var names []string
	for _, n := range g.Nodes() {
		names = append(names, n.Name)
	}
	want := []string{"alpha", "mid", "zeta"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("Nodes() order = %v, want %v", names, want)
	}
}

func TestDependenciesUnknownNode(t *testing.T) {
	g := Build(registry(map[string][]string{"a": nil}))
	if _, ok := g.Dependencies("nope"); ok {
		t.Error("Dependencies(nope) reported an unknown node as present")
	}
}

func TestDependenciesSorted(t *testing.T) {
	g := Build(registry(map[string][]string{
		"sink": {"c", "a", "b"},
	}))
	deps, _ := g.Dependencies("sink")
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(deps, want) {
		t.Errorf("Dependencies(sink) = %v, want %v", deps, want)
	}
}
