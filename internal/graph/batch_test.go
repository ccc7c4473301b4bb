package graph

import (
	"errors"
	"reflect"
	"testing"

	"github.com/me/flowrun/pkg/model"
)

// batchNames flattens a batch sequence to names for comparison.
func batchNames(batches [][]Node) [][]string {
	out := make([][]string, len(batches))
	for i, batch := range batches {
		names := make([]string, len(batch))
		for j, n := range batch {
			names[j] = n.Name
		}
		out[i] = names
	}
	return out
}

func TestBatchesLinearChain(t *testing.T) {
	g := Build(registry(map[string][]string{
		"a": nil,
		"b": {"a"},
		"c": {"b"},
	}))

	batches, err := g.Batches()
	if err != nil {
		t.Fatalf("Batches() error: %v", err)
	}
	want := [][]string{{"a"}, {"b"}, {"c"}}
	if got := batchNames(batches); !reflect.DeepEqual(got, want) {
		t.Errorf("Batches() = %v, want %v", got, want)
	}
}

func TestBatchesIndependentJobsShareABatch(t *testing.T) {
	g := Build(registry(map[string][]string{
		"x": nil,
		"y": nil,
	}))

	batches, err := g.Batches()
	if err != nil {
		t.Fatalf("Batches() error: %v", err)
	}
	want := [][]string{{"x", "y"}}
	if got := batchNames(batches); !reflect.DeepEqual(got, want) {
		t.Errorf("Batches() = %v, want %v", got, want)
	}
}

func TestBatchesDiamond(t *testing.T) {
	// root -> {left, right} -> sink
	g := Build(registry(map[string][]string{
		"root":  nil,
		"left":  {"root"},
		"right": {"root"},
		"sink":  {"left", "right"},
	}))

	batches, err := g.Batches()
	if err != nil {
		t.Fatalf("Batches() error: %v", err)
	}
	want := [][]string{{"root"}, {"left", "right"}, {"sink"}}
	if got := batchNames(batches); !reflect.DeepEqual(got, want) {
		t.Errorf("Batches() = %v, want %v", got, want)
	}
}

func TestBatchesDependencyOrderInvariant(t *testing.T) {
	g := Build(registry(map[string][]string{
		"ingest":    nil,
		"clean":     {"ingest"},
		"features":  {"clean"},
		"train":     {"features"},
		"evaluate":  {"train"},
		"report":    {"evaluate", "clean"},
		"unrelated": nil,
	}))

	batches, err := g.Batches()
	if err != nil {
		t.Fatalf("Batches() error: %v", err)
	}

	batchOf := make(map[string]int)
	for i, batch := range batches {
		for _, n := range batch {
			batchOf[n.Name] = i
		}
	}
	for name := range batchOf {
		deps, _ := g.Dependencies(name)
		for _, dep := range deps {
			if batchOf[dep] >= batchOf[name] {
				t.Errorf("dependency %s (batch %d) does not precede %s (batch %d)",
					dep, batchOf[dep], name, batchOf[name])
			}
		}
	}
}

func TestBatchesCycle(t *testing.T) {
	g := Build(registry(map[string][]string{
		"a": {"c"},
		"b": {"a"},
		"c": {"b"},
	}))

	_, err := g.Batches()
	var cycleErr *model.CyclicDependencyError
	if !errors.As(err, &cycleErr) {
		t.Fatalf("Batches() error = %v, want CyclicDependencyError", err)
	}
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(cycleErr.Nodes, want) {
		t.Errorf("cycle nodes = %v, want %v", cycleErr.Nodes, want)
	}
}

func TestBatchesSelfLoop(t *testing.T) {
	g := Build(registry(map[string][]string{
		"loop": {"loop"},
	}))

	_, err := g.Batches()
	var cycleErr *model.CyclicDependencyError
	if !errors.As(err, &cycleErr) {
		t.Fatalf("Batches() error = %v, want CyclicDependencyError", err)
	}
	if !reflect.DeepEqual(cycleErr.Nodes, []string{"loop"}) {
		t.Errorf("cycle nodes = %v, want [loop]", cycleErr.Nodes)
	}
}

func TestBatchesPartialCycleNamesOnlyStuckNodes(t *testing.T) {
	// "free" resolves; the a<->b cycle remains stuck.
	g := Build(registry(map[string][]string{
		"free": nil,
		"a":    {"b"},
		"b":    {"a"},
	}))

	_, err := g.Batches()
	var cycleErr *model.CyclicDependencyError
	if !errors.As(err, &cycleErr) {
		t.Fatalf("Batches() error = %v, want CyclicDependencyError", err)
	}
	if !reflect.DeepEqual(cycleErr.Nodes, []string{"a", "b"}) {
		t.Errorf("cycle nodes = %v, want [a b]", cycleErr.Nodes)
	}
}

func TestBatchesEmptyGraph(t *testing.T) {
	g := Build(nil)
	batches, err := g.Batches()
	if err != nil {
		t.Fatalf("Batches() error: %v", err)
	}
	if len(batches) != 0 {
		t.Errorf("Batches() = %v, want empty", batchNames(batches))
	}
}
