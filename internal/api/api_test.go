package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mockup/pkg/cache"
	"github.com/matzehuels/mockup/pkg/scene"
	"github.com/matzehuels/mockup/pkg/store"
)

func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("e%d", n)
	}
}

// newTestServer seeds project "shop" with an empty "home" screen and a
// "cart" screen.
func newTestServer(t *testing.T) (*httptest.Server, store.Store) {
	t.Helper()
	st := store.NewMemoryStore()
	doc := scene.NewDocument("doc", "Shop", scene.Grid{Size: 8, Enabled: true})
	for _, s := range []*scene.Screen{
		{ID: "home", Name: "Home", Background: "#ffffff", Viewport: scene.Viewport{Width: 390, Height: 844}, Elements: []scene.Element{}},
		{ID: "cart", Name: "Cart", Background: "#ffffff", Viewport: scene.Viewport{Width: 390, Height: 844}, Elements: []scene.Element{}},
	} {
		if err := doc.AddScreen(s); err != nil {
			t.Fatal(err)
		}
	}
	if err := st.Save(context.Background(), &store.Project{ID: "shop", Document: doc}); err != nil {
		t.Fatal(err)
	}
	srv := New(st,
		WithIDs(seqIDs()),
		WithCache(cache.NewMemoryCache()),
		WithLogger(log.New(io.Discard)),
	)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, st
}

func do(t *testing.T, ts *httptest.Server, method, path string, body any) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		r = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, ts.URL+path, r)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, data
}

func decodeAs[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}
	return v
}

func TestHealthz(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, body := do(t, ts, http.MethodGet, "/healthz", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.HasPrefix(resp.Header.Get("Server"), "mockup/") {
		t.Errorf("Server header = %q", resp.Header.Get("Server"))
	}
	if !strings.Contains(string(body), `"ok"`) {
		t.Errorf("body = %s", body)
	}
}

func TestEditUndoRedoJump(t *testing.T) {
	ts, st := newTestServer(t)
	ops := "/api/v1/projects/shop/ops"

	resp, body := do(t, ts, http.MethodPost, ops, Op{Op: "drop", Screen: "home", Item: "button", X: 10, Y: 10})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("drop: %d %s", resp.StatusCode, body)
	}
	dropped := decodeAs[opResponse](t, body)
	if !dropped.Changed || dropped.Screen.ID != "home" || len(dropped.Screen.Elements) != 1 {
		t.Fatalf("drop response = %+v", dropped)
	}
	btn := dropped.Screen.Elements[0]
	if btn.X != 8 || btn.Y != 8 {
		t.Errorf("dropped at %g,%g, want snapped 8,8", btn.X, btn.Y)
	}

	_, body = do(t, ts, http.MethodPost, ops, Op{Op: "move", IDs: []string{btn.ID}, DX: 16})
	moved := decodeAs[opResponse](t, body)
	if !moved.Changed || moved.Screen.Elements[0].X != 24 {
		t.Fatalf("move response = %+v", moved)
	}
	if moved.History == nil || moved.History.Past != 2 {
		t.Errorf("history after move = %+v, want 2 past entries", moved.History)
	}

	_, body = do(t, ts, http.MethodGet, "/api/v1/projects/shop/screens/home/history", nil)
	tl := decodeAs[timelineResponse](t, body)
	if len(tl.Past) != 2 || tl.Past[0].Label != "Element Added" || !strings.HasPrefix(tl.Past[1].Label, "Moved") {
		t.Fatalf("timeline = %+v", tl)
	}

	_, body = do(t, ts, http.MethodPost, "/api/v1/projects/shop/screens/home/undo", nil)
	undone := decodeAs[opResponse](t, body)
	if !undone.Changed || undone.Screen.Elements[0].X != 8 || !undone.CanRedo {
		t.Fatalf("undo response = %+v", undone)
	}

	// History survives the round trip through the store.
	p, err := st.Load(context.Background(), "shop")
	if err != nil {
		t.Fatal(err)
	}
	if h := p.History["home"]; len(h.Past) != 1 || len(h.Future) != 1 {
		t.Errorf("stored history = %d past, %d future", len(h.Past), len(h.Future))
	}

	_, body = do(t, ts, http.MethodPost, "/api/v1/projects/shop/screens/home/redo", nil)
	if redone := decodeAs[opResponse](t, body); !redone.Changed || redone.Screen.Elements[0].X != 24 {
		t.Fatalf("redo response = %+v", redone)
	}

	_, body = do(t, ts, http.MethodPost, "/api/v1/projects/shop/screens/home/jump", jumpRequest{Stack: "past", Index: 0})
	jumped := decodeAs[opResponse](t, body)
	if !jumped.Changed || len(jumped.Screen.Elements) != 0 {
		t.Fatalf("jump response = %+v", jumped)
	}
	if jumped.History.Past != 0 || jumped.History.Future != 2 {
		t.Errorf("history after jump = %+v", jumped.History)
	}

	// The other screen's history is untouched.
	_, body = do(t, ts, http.MethodGet, "/api/v1/projects/shop/screens/cart/history", nil)
	if tl := decodeAs[timelineResponse](t, body); len(tl.Past) != 0 {
		t.Errorf("cart timeline = %+v", tl)
	}
}

func TestRejectedOpIsNotAnError(t *testing.T) {
	ts, _ := newTestServer(t)
	ops := "/api/v1/projects/shop/ops"

	_, body := do(t, ts, http.MethodPost, ops, Op{Op: "drop", Screen: "home", Item: "rect"})
	id := decodeAs[opResponse](t, body).Screen.Elements[0].ID
	do(t, ts, http.MethodPost, ops, Op{Op: "lock", IDs: []string{id}})

	resp, body := do(t, ts, http.MethodPost, ops, Op{Op: "move", IDs: []string{id}, DX: 40})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d %s", resp.StatusCode, body)
	}
	got := decodeAs[opResponse](t, body)
	if got.Changed || got.Screen.Elements[0].X != 0 {
		t.Errorf("locked element moved: %+v", got)
	}
}

func TestErrors(t *testing.T) {
	ts, _ := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
		code   string
	}{
		{"unknown project", http.MethodGet, "/api/v1/projects/nope", nil, http.StatusNotFound, "PROJECT_NOT_FOUND"},
		{"bad project id", http.MethodGet, "/api/v1/projects/a..b", nil, http.StatusBadRequest, "INVALID_INPUT"},
		{"unknown screen undo", http.MethodPost, "/api/v1/projects/shop/screens/nope/undo", nil, http.StatusNotFound, "UNKNOWN_SCREEN"},
		{"unknown screen op", http.MethodPost, "/api/v1/projects/shop/ops", Op{Op: "rename", Screen: "nope"}, http.StatusNotFound, "UNKNOWN_SCREEN"},
		{"unknown op", http.MethodPost, "/api/v1/projects/shop/ops", Op{Op: "explode"}, http.StatusNotImplemented, "UNSUPPORTED"},
		{"missing op", http.MethodPost, "/api/v1/projects/shop/ops", Op{}, http.StatusBadRequest, "INVALID_INPUT"},
		{"unknown item", http.MethodPost, "/api/v1/projects/shop/ops", Op{Op: "drop", Item: "widget"}, http.StatusNotFound, "NOT_FOUND"},
		{"bad color", http.MethodPost, "/api/v1/projects/shop/ops", Op{Op: "background", Color: "red"}, http.StatusBadRequest, "INVALID_INPUT"},
		{"bad stack", http.MethodPost, "/api/v1/projects/shop/screens/home/jump", jumpRequest{Stack: "sideways"}, http.StatusBadRequest, "INVALID_INPUT"},
		{"unknown field", http.MethodPost, "/api/v1/projects/shop/ops", map[string]any{"op": "rename", "colour": 1}, http.StatusBadRequest, "INVALID_INPUT"},
		{"bad export format", http.MethodGet, "/api/v1/projects/shop/screens/home/export?format=png", nil, http.StatusBadRequest, "INVALID_FORMAT"},
		{"duplicate project", http.MethodPost, "/api/v1/projects", createProjectRequest{ID: "shop"}, http.StatusBadRequest, "INVALID_INPUT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := do(t, ts, tt.method, tt.path, tt.body)
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d (%s)", resp.StatusCode, tt.status, body)
			}
			if got := decodeAs[errorResponse](t, body); got.Code != tt.code {
				t.Errorf("code = %q, want %q", got.Code, tt.code)
			}
		})
	}
}

func TestProjectLifecycle(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, body := do(t, ts, http.MethodPost, "/api/v1/projects", createProjectRequest{ID: "blog", Name: "Blog", Device: "desktop"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: %d %s", resp.StatusCode, body)
	}
	p := decodeAs[store.Project](t, body)
	if len(p.Document.Screens) != 1 || p.Document.Screens[0].Viewport.Width != 1440 {
		t.Errorf("created document = %+v", p.Document)
	}

	_, body = do(t, ts, http.MethodGet, "/api/v1/projects", nil)
	if list := decodeAs[[]store.Summary](t, body); len(list) != 2 {
		t.Errorf("list = %+v", list)
	}

	resp, _ = do(t, ts, http.MethodDelete, "/api/v1/projects/blog", nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete status = %d", resp.StatusCode)
	}
	resp, _ = do(t, ts, http.MethodGet, "/api/v1/projects/blog", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("get after delete = %d", resp.StatusCode)
	}
}

func TestScreenOps(t *testing.T) {
	ts, _ := newTestServer(t)
	ops := "/api/v1/projects/shop/ops"

	_, body := do(t, ts, http.MethodPost, ops, Op{Op: "drop", Screen: "home", Item: "button"})
	id := decodeAs[opResponse](t, body).Screen.Elements[0].ID

	_, body = do(t, ts, http.MethodPost, ops, Op{Op: "link", ID: id, Target: "cart"})
	if !decodeAs[opResponse](t, body).Changed {
		t.Fatal("link not set")
	}
	_, body = do(t, ts, http.MethodPost, ops, Op{Op: "link", ID: id, Target: "nowhere"})
	if decodeAs[opResponse](t, body).Changed {
		t.Error("link to unknown screen accepted")
	}

	_, body = do(t, ts, http.MethodPost, ops, Op{Op: "navigate", ID: id})
	nav := decodeAs[opResponse](t, body)
	if nav.Screen.ID != "cart" {
		t.Errorf("navigate landed on %q", nav.Screen.ID)
	}

	_, body = do(t, ts, http.MethodPost, ops, Op{Op: "remove-screen", Screen: "cart"})
	if got := decodeAs[opResponse](t, body); got.Screen.ID != "home" || got.Screen.Elements[0].Link != "" {
		t.Errorf("after removing cart: %+v", got.Screen)
	}

	resp, _ := do(t, ts, http.MethodPost, ops, Op{Op: "remove-screen", Screen: "home"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("removing the last screen: status %d", resp.StatusCode)
	}
}

func TestExport(t *testing.T) {
	ts, _ := newTestServer(t)
	do(t, ts, http.MethodPost, "/api/v1/projects/shop/ops", Op{Op: "drop", Screen: "home", Item: "card"})

	resp, body := do(t, ts, http.MethodGet, "/api/v1/projects/shop/screens/home/export?format=dot&direction=LR", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d %s", resp.StatusCode, body)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/vnd.graphviz") {
		t.Errorf("content type = %q", ct)
	}
	if !strings.Contains(string(body), "digraph") || !strings.Contains(string(body), "rankdir=LR") {
		t.Errorf("dot = %s", body)
	}

	resp, body = do(t, ts, http.MethodGet, "/api/v1/projects/shop/flow?format=dot", nil)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), `"cart"`) {
		t.Errorf("flow: %d %s", resp.StatusCode, body)
	}
}

func TestExportCacheIsPerProject(t *testing.T) {
	st := store.NewMemoryStore()
	for _, id := range []string{"shop", "outlet"} {
		doc := scene.NewDocument("doc", "Shop", scene.Grid{Size: 8, Enabled: true})
		if err := doc.AddScreen(&scene.Screen{ID: "home", Name: "Home", Background: "#ffffff", Viewport: scene.Viewport{Width: 390, Height: 844}, Elements: []scene.Element{}}); err != nil {
			t.Fatal(err)
		}
		if err := st.Save(context.Background(), &store.Project{ID: id, Document: doc}); err != nil {
			t.Fatal(err)
		}
	}
	artifacts := cache.NewMemoryCache()
	srv := New(st, WithCache(artifacts), WithArtifactTTL(time.Hour), WithLogger(log.New(io.Discard)))
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	for _, path := range []string{
		"/api/v1/projects/shop/screens/home/export?format=dot",
		"/api/v1/projects/shop/screens/home/export?format=dot",
		"/api/v1/projects/outlet/screens/home/export?format=dot",
	} {
		if resp, body := do(t, ts, http.MethodGet, path, nil); resp.StatusCode != http.StatusOK {
			t.Fatalf("%s: %d %s", path, resp.StatusCode, body)
		}
	}
	// Identical screens in two projects are cached separately; a repeat
	// export of the same project hits the existing entry.
	if got := artifacts.Len(); got != 2 {
		t.Errorf("cached artifacts = %d, want 2", got)
	}
}
