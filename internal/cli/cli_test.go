package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	mkerrors "github.com/matzehuels/mockup/pkg/errors"
	"github.com/matzehuels/mockup/pkg/history"
	"github.com/matzehuels/mockup/pkg/scene"
	"github.com/matzehuels/mockup/pkg/store"
)

// newTestCLI returns a CLI backed by an in-memory store, with config and
// cache directories isolated under t.TempDir.
func newTestCLI(t *testing.T) *CLI {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	c := New(io.Discard, LogInfo)
	c.store = store.NewMemoryStore()
	return c
}

// run executes one command line and returns what it printed.
func run(t *testing.T, c *CLI, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	old := stdout
	stdout = &buf
	defer func() { stdout = old }()

	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	err := root.ExecuteContext(context.Background())
	return buf.String(), err
}

func mustRun(t *testing.T, c *CLI, args ...string) string {
	t.Helper()
	out, err := run(t, c, args...)
	if err != nil {
		t.Fatalf("mockup %s: %v", strings.Join(args, " "), err)
	}
	return out
}

func loadProject(t *testing.T, c *CLI, id string) *store.Project {
	t.Helper()
	p, err := c.store.Load(context.Background(), id)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func elementNamed(t *testing.T, s *scene.Screen, name string) scene.Element {
	t.Helper()
	for _, e := range s.Elements {
		if e.Name == name {
			return e
		}
	}
	t.Fatalf("no element %q on %s", name, s.Name)
	return scene.Element{}
}

func TestEditUndoAcrossInvocations(t *testing.T) {
	c := newTestCLI(t)
	mustRun(t, c, "init", "-p", "shop")
	mustRun(t, c, "add", "button", "--at", "10,10", "--name", "Buy", "-p", "shop")

	out := mustRun(t, c, "move", "Buy", "--by", "16,0", "-p", "shop")
	if !strings.Contains(out, "24,8") {
		t.Errorf("move output = %q, want new position 24,8", out)
	}

	out = mustRun(t, c, "history", "-p", "shop")
	for _, want := range []string{"Element Added", "Moved Buy", "current"} {
		if !strings.Contains(out, want) {
			t.Errorf("history output missing %q:\n%s", want, out)
		}
	}

	out = mustRun(t, c, "undo", "-p", "shop")
	if !strings.Contains(out, "Undid") || !strings.Contains(out, "Moved Buy") {
		t.Errorf("undo output = %q", out)
	}
	p := loadProject(t, c, "shop")
	if got := elementNamed(t, p.Document.Active(), "Buy").X; got != 8 {
		t.Errorf("after undo x = %g, want 8", got)
	}
	// Added, renamed, moved; the move is now in the future stack.
	if h := p.History[p.Document.ActiveID]; len(h.Past) != 2 || len(h.Future) != 1 {
		t.Errorf("stored history = %d past, %d future", len(h.Past), len(h.Future))
	}

	mustRun(t, c, "redo", "-p", "shop")
	mustRun(t, c, "jump", "past", "0", "-p", "shop")
	p = loadProject(t, c, "shop")
	if n := len(p.Document.Active().Elements); n != 0 {
		t.Errorf("after jump to past 0: %d elements, want 0", n)
	}

	out = mustRun(t, c, "undo", "-p", "shop")
	if !strings.Contains(out, "nothing to undo") {
		t.Errorf("undo at the start of history = %q", out)
	}
}

func TestTreeEditing(t *testing.T) {
	c := newTestCLI(t)
	mustRun(t, c, "init")
	mustRun(t, c, "add", "rect", "--name", "A")
	mustRun(t, c, "add", "rect", "--at", "40,40", "--name", "B")
	mustRun(t, c, "group", "A", "B", "--name", "Pair")

	out := mustRun(t, c, "tree")
	for _, want := range []string{"Pair", "A", "B", "group"} {
		if !strings.Contains(out, want) {
			t.Errorf("tree missing %q:\n%s", want, out)
		}
	}

	mustRun(t, c, "lock", "Pair")
	out = mustRun(t, c, "move", "B", "--by", "8,8")
	if !strings.Contains(out, "Nothing changed") {
		t.Errorf("moving a child of a locked group = %q", out)
	}

	mustRun(t, c, "lock", "Pair")
	mustRun(t, c, "duplicate", "Pair")
	s := loadProject(t, c, defaultProject).Document.Active()
	if len(s.Elements) != 6 {
		t.Fatalf("after duplicate: %d elements, want 6", len(s.Elements))
	}

	if _, err := run(t, c, "move", "Pair", "--by", "8,8"); !mkerrors.Is(err, mkerrors.ErrCodeInvalidInput) {
		t.Errorf("ambiguous name: err = %v, want INVALID_INPUT", err)
	}

	mustRun(t, c, "delete", elementNamed(t, s, "Pair").ID, "--keep-children")
	s = loadProject(t, c, defaultProject).Document.Active()
	if len(s.Elements) != 5 {
		t.Errorf("after delete --keep-children: %d elements, want 5", len(s.Elements))
	}
}

func TestScreensAndLinks(t *testing.T) {
	c := newTestCLI(t)
	mustRun(t, c, "init", "--name", "Shop")
	mustRun(t, c, "screen", "rename", "Screen 1", "Home")
	mustRun(t, c, "screen", "add", "Cart")
	mustRun(t, c, "add", "button", "--name", "Checkout", "-s", "Home")
	mustRun(t, c, "link", "Checkout", "Cart", "-s", "Home")

	out := mustRun(t, c, "link", "Checkout", "--follow", "-s", "Home")
	if !strings.Contains(out, "Now on Cart") {
		t.Errorf("follow output = %q", out)
	}
	doc := loadProject(t, c, defaultProject).Document
	if a := doc.Active(); a.Name != "Cart" {
		t.Errorf("active screen = %q, want Cart", a.Name)
	}

	out = mustRun(t, c, "export", "--flow", "-f", "dot")
	if !strings.Contains(out, "digraph") || !strings.Contains(out, "->") {
		t.Errorf("flow export:\n%s", out)
	}

	mustRun(t, c, "screen", "remove", "Cart")
	doc = loadProject(t, c, defaultProject).Document
	if len(doc.Screens) != 1 || elementNamed(t, doc.Screens[0], "Checkout").Link != "" {
		t.Errorf("link not cleared after removing its target")
	}
	if _, err := run(t, c, "screen", "remove", "Home"); err == nil {
		t.Error("removing the last screen succeeded")
	}
	if _, err := run(t, c, "tree", "-s", "Nowhere"); !mkerrors.Is(err, mkerrors.ErrCodeUnknownScreen) {
		t.Errorf("unknown screen: err = %v", err)
	}
}

func TestExportImport(t *testing.T) {
	c := newTestCLI(t)
	mustRun(t, c, "init")
	mustRun(t, c, "add", "card", "--name", "Promo")

	path := filepath.Join(t.TempDir(), "doc.yaml")
	mustRun(t, c, "export", "-o", path)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "format: mockup") {
		t.Errorf("yaml export:\n%s", data)
	}

	mustRun(t, c, "import", path, "-p", "copy")
	if _, err := run(t, c, "import", path, "-p", "copy"); !mkerrors.Is(err, mkerrors.ErrCodeInvalidInput) {
		t.Errorf("second import without --force: err = %v", err)
	}
	out := mustRun(t, c, "tree", "-p", "copy")
	if !strings.Contains(out, "Promo") {
		t.Errorf("imported tree:\n%s", out)
	}

	out = mustRun(t, c, "export", "-f", "dot", "--direction", "LR")
	if !strings.Contains(out, "rankdir=LR") {
		t.Errorf("dot export:\n%s", out)
	}
}

func TestProjectErrors(t *testing.T) {
	c := newTestCLI(t)

	if _, err := run(t, c, "tree", "-p", "nope"); !mkerrors.Is(err, mkerrors.ErrCodeProjectNotFound) {
		t.Errorf("missing project: err = %v", err)
	}
	mustRun(t, c, "init", "-p", "shop")
	if _, err := run(t, c, "init", "-p", "shop"); !mkerrors.Is(err, mkerrors.ErrCodeInvalidInput) {
		t.Errorf("init over existing project: err = %v", err)
	}
	mustRun(t, c, "init", "-p", "shop", "--force")
	if _, err := run(t, c, "init", "-p", "../etc"); !mkerrors.Is(err, mkerrors.ErrCodeInvalidInput) {
		t.Errorf("path traversal id: err = %v", err)
	}
	if _, err := run(t, c, "add", "widget", "-p", "shop"); !mkerrors.Is(err, mkerrors.ErrCodeNotFound) {
		t.Errorf("unknown catalog item: err = %v", err)
	}

	out := mustRun(t, c, "projects")
	if !strings.Contains(out, "shop") {
		t.Errorf("projects output:\n%s", out)
	}
}

func TestParsePair(t *testing.T) {
	tests := []struct {
		in, sep string
		x, y    float64
		wantErr bool
	}{
		{"10,20", ",", 10, 20, false},
		{" -4 , 2.5 ", ",", -4, 2.5, false},
		{"390x844", "x", 390, 844, false},
		{"390X844", "x", 390, 844, false},
		{"10", ",", 0, 0, true},
		{"a,b", ",", 0, 0, true},
		{"NaN,1", ",", 0, 0, true},
		{"1,+Inf", ",", 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			x, y, err := parsePair("at", tt.in, tt.sep)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if x != tt.x || y != tt.y {
				t.Errorf("got %g,%g, want %g,%g", x, y, tt.x, tt.y)
			}
		})
	}
}

func TestParsePayload(t *testing.T) {
	got, err := parsePayload([]string{"fill=#ff0000", "radius=8", "shadow=true", "stroke="})
	if err != nil {
		t.Fatal(err)
	}
	want := scene.Payload{"fill": "#ff0000", "radius": 8.0, "shadow": true, "stroke": nil}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for k, v := range want {
		if gv, ok := got[k]; !ok || gv != v {
			t.Errorf("%s = %v, want %v", k, gv, v)
		}
	}
	if _, err := parsePayload([]string{"=x"}); err == nil {
		t.Error("empty key accepted")
	}
}

func TestHistoryModel(t *testing.T) {
	st := history.Stacks{
		Past:   []history.Entry{{Label: "Element Added"}, {Label: "Moved Buy"}},
		Future: []history.Entry{{Label: "Styled Buy"}},
	}
	m := NewHistoryModel("Home", st)
	if m.Cursor != 2 || !m.Rows[m.Cursor].current {
		t.Fatalf("cursor = %d, want the current row 2", m.Cursor)
	}

	key := func(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

	next, _ := m.Update(key("k"))
	m = next.(HistoryModel)
	if m.Cursor != 1 {
		t.Errorf("after up: cursor = %d", m.Cursor)
	}
	next, _ = m.Update(key("G"))
	m = next.(HistoryModel)
	if m.Cursor != 3 {
		t.Errorf("after G: cursor = %d", m.Cursor)
	}

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(HistoryModel)
	if cmd == nil || m.Selected == nil {
		t.Fatal("enter did not select and quit")
	}
	if m.Selected.stack != history.Future || m.Selected.index != 0 {
		t.Errorf("selected %s %d, want future 0", m.Selected.stack, m.Selected.index)
	}
	if !strings.Contains(m.View(), "Styled Buy") {
		t.Errorf("view:\n%s", m.View())
	}
}

func TestTimeline(t *testing.T) {
	rows := timeline(history.Stacks{
		Past:   []history.Entry{{Label: "a"}},
		Future: []history.Entry{{Label: "b"}, {Label: "c"}},
	})
	var refs []string
	for _, r := range rows {
		refs = append(refs, r.ref())
	}
	want := []string{"past 0", iconActive, "future 0", "future 1"}
	if strings.Join(refs, "|") != strings.Join(want, "|") {
		t.Errorf("refs = %v, want %v", refs, want)
	}
}
