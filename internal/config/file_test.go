package config

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "workflow.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

const validFile = `
name: etl
poll_interval: 50ms
jobs:
  - name: ingest
    type: process
    command: ["true"]
  - name: clean
    type: script
    script: "1 + 1"
    depends_on: [ingest]
  - name: report
    type: noop
    depends_on: [clean, ingest]
`

func TestLoadValidFile(t *testing.T) {
	wf, err := Load(writeFile(t, validFile))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if wf.Name != "etl" {
		t.Errorf("name = %q, want etl", wf.Name)
	}
	if wf.Loop {
		t.Error("loop = true, want false by default")
	}
	if len(wf.Jobs) != 3 {
		t.Fatalf("jobs = %d, want 3", len(wf.Jobs))
	}
	if wf.Jobs[1].Type != JobTypeScript || len(wf.Jobs[1].DependsOn) != 1 {
		t.Errorf("jobs[1] = %+v", wf.Jobs[1])
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Load succeeded for a missing file")
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	if _, err := Load(writeFile(t, "name: [unclosed")); err == nil {
		t.Error("Load succeeded for malformed YAML")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			"missing workflow name",
			"jobs:\n  - name: a\n    type: noop\n",
			"name is required",
		},
		{
			"bad poll interval",
			"name: w\npoll_interval: soon\njobs: []\n",
			"poll_interval",
		},
		{
			"missing job name",
			"name: w\njobs:\n  - type: noop\n",
			"name is required",
		},
		{
			"duplicate job name",
			"name: w\njobs:\n  - name: a\n    type: noop\n  - name: a\n    type: noop\n",
			"duplicate job name",
		},
		{
			"process without command",
			"name: w\njobs:\n  - name: a\n    type: process\n",
			"require a command",
		},
		{
			"http without url",
			"name: w\njobs:\n  - name: a\n    type: http\n",
			"require a url",
		},
		{
			"script without source",
			"name: w\njobs:\n  - name: a\n    type: script\n",
			"require a script",
		},
		{
			"unknown type",
			"name: w\njobs:\n  - name: a\n    type: quantum\n",
			"unknown type",
		},
		{
			"undeclared dependency",
			"name: w\njobs:\n  - name: a\n    type: noop\n    depends_on: [ghost]\n",
			"undeclared job",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.content))
			if err == nil {
				t.Fatal("Load succeeded, want validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestBuildWorkflow(t *testing.T) {
	wf, err := Load(writeFile(t, validFile))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	w, err := wf.BuildWorkflow(testLogger())
	if err != nil {
		t.Fatalf("BuildWorkflow: %v", err)
	}
	if w.Name() != "etl" {
		t.Errorf("workflow name = %q, want etl", w.Name())
	}

	plan, err := w.Plan()
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(plan.Batches) != 3 {
		t.Fatalf("batches = %d, want 3", len(plan.Batches))
	}
	want := [][]string{{"ingest"}, {"clean"}, {"report"}}
	for i, batch := range plan.Batches {
		for j, node := range batch {
			if node.Name != want[i][j] {
				t.Errorf("batch[%d][%d] = %s, want %s", i, j, node.Name, want[i][j])
			}
		}
	}
}

func TestBuildWorkflowLoopFlag(t *testing.T) {
	wf, err := Load(writeFile(t, "name: w\nloop: true\njobs:\n  - name: a\n    type: noop\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	w, err := wf.BuildWorkflow(testLogger())
	if err != nil {
		t.Fatalf("BuildWorkflow: %v", err)
	}
	if !w.Loop() {
		t.Error("Loop() = false, want true")
	}
}
