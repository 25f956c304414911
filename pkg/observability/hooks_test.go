package observability

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

type countingEditorHooks struct {
	NoopEditorHooks
	commits int
}

func (c *countingEditorHooks) OnCommit(string, string, time.Duration) { c.commits++ }

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()
	e := NoopEditorHooks{}
	e.OnCommit("home", "group", time.Millisecond)
	e.OnRecord("home", "Element Added", 1)
	e.OnReplay("home", "undo")
	e.OnReject("home", "reparent", "cycle")

	s := NoopStoreHooks{}
	s.OnLoad(ctx, "file", "p1", time.Millisecond, nil)
	s.OnSave(ctx, "file", "p1", 10, time.Millisecond, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "svg")
	c.OnCacheMiss(ctx, "svg")
	c.OnCacheSet(ctx, "svg", 1024)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	if _, ok := Editor().(NoopEditorHooks); !ok {
		t.Error("Editor() should default to NoopEditorHooks")
	}
	if _, ok := Store().(NoopStoreHooks); !ok {
		t.Error("Store() should default to NoopStoreHooks")
	}

	custom := &countingEditorHooks{}
	SetEditorHooks(custom)
	Editor().OnCommit("home", "move", 0)
	if custom.commits != 1 {
		t.Errorf("commits = %d, want 1", custom.commits)
	}

	SetEditorHooks(nil)
	if Editor() != custom {
		t.Error("SetEditorHooks(nil) must not clear registered hooks")
	}

	Reset()
	if _, ok := Editor().(NoopEditorHooks); !ok {
		t.Error("Reset should restore defaults")
	}
}

func TestLogHooks(t *testing.T) {
	t.Cleanup(Reset)
	var buf bytes.Buffer
	l := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	NewLogHooks(l).Register()

	Editor().OnRecord("home", "Moved Logo", 3)
	Store().OnSave(context.Background(), "sqlite", "p1", 512, time.Millisecond, nil)

	out := buf.String()
	for _, want := range []string{"history entry", "Moved Logo", "project saved", "sqlite"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}
