package job

import (
	"context"
	"testing"

	"github.com/me/flowrun/pkg/model"
)

func TestScriptJobSuccess(t *testing.T) {
	j := NewScriptJob("calc", `var x = 1 + 1; if (x !== 2) { throw new Error("math"); }`, testLogger())
	if err := j.Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if got := waitTerminal(t, j); got != model.StatusFinished {
		t.Errorf("terminal status = %s, want FINISHED", got)
	}
}

func TestScriptJobThrowFails(t *testing.T) {
	j := NewScriptJob("boom", `throw new Error("nope")`, testLogger())
	if err := j.Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if got := waitTerminal(t, j); got != model.StatusFailed {
		t.Errorf("terminal status = %s, want FAILED", got)
	}
}

func TestScriptJobSyntaxErrorFails(t *testing.T) {
	j := NewScriptJob("broken", `function (`, testLogger())
	if err := j.Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if got := waitTerminal(t, j); got != model.StatusFailed {
		t.Errorf("terminal status = %s, want FAILED", got)
	}
}

func TestScriptJobKill(t *testing.T) {
	j := NewScriptJob("spin", `for (;;) {}`, testLogger())
	if err := j.Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if err := j.Kill(context.Background()); err != nil {
		t.Fatalf("Kill() error: %v", err)
	}
	if got := waitTerminal(t, j); got != model.StatusUndetermined {
		t.Errorf("terminal status after kill = %s, want UNDETERMINED", got)
	}
}

func TestScriptJobKillBeforeStart(t *testing.T) {
	j := NewScriptJob("idle", `1`, testLogger())
	if err := j.Kill(context.Background()); err != nil {
		t.Errorf("Kill() before start error: %v", err)
	}
}

func TestScriptJobRestartAfterTerminal(t *testing.T) {
	j := NewScriptJob("repeat", `1 + 1`, testLogger())
	for i := 0; i < 2; i++ {
		if err := j.Run(context.Background()); err != nil {
			t.Fatalf("Run() pass %d error: %v", i+1, err)
		}
		if got := waitTerminal(t, j); got != model.StatusFinished {
			t.Fatalf("pass %d terminal status = %s, want FINISHED", i+1, got)
		}
	}
}

func TestScriptJobRunWhileRunning(t *testing.T) {
	j := NewScriptJob("busy", `for (;;) {}`, testLogger())
	if err := j.Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	defer j.Kill(context.Background())

	if err := j.Run(context.Background()); err == nil {
		t.Error("second Run() while running succeeded")
	}
}
