package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/mockup/pkg/catalog"
	"github.com/matzehuels/mockup/pkg/editor"
	mkerrors "github.com/matzehuels/mockup/pkg/errors"
	"github.com/matzehuels/mockup/pkg/export"
	"github.com/matzehuels/mockup/pkg/history"
	"github.com/matzehuels/mockup/pkg/scene"
	"github.com/matzehuels/mockup/pkg/store"
)

// maxBody bounds request bodies. Documents are small; ops are tiny.
const maxBody = 4 << 20

// =============================================================================
// Projects
// =============================================================================

type createProjectRequest struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Device string `json:"device"`
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.List(r.Context())
	if err != nil {
		writeError(w, mkerrors.Wrap(mkerrors.ErrCodeStorage, err, "list projects"))
		return
	}
	if list == nil {
		list = []store.Summary{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := mkerrors.ValidateProjectID(req.ID); err != nil {
		writeError(w, err)
		return
	}
	if req.Name == "" {
		req.Name = req.ID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx := r.Context()
	if _, err := s.store.Load(ctx, req.ID); err == nil {
		writeError(w, mkerrors.New(mkerrors.ErrCodeInvalidInput, "project %q already exists", req.ID))
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		writeError(w, mkerrors.Wrap(mkerrors.ErrCodeStorage, err, "load project %s", req.ID))
		return
	}
	doc := editor.NewDocument(req.Name, req.Device, s.grid)
	p := &store.Project{ID: req.ID, Document: doc}
	if err := s.store.Save(ctx, p); err != nil {
		writeError(w, mkerrors.Wrap(mkerrors.ErrCodeStorage, err, "save project %s", req.ID))
		return
	}
	s.logger.Info("project created", "project", req.ID)
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	p, err := s.load(r.Context(), chi.URLParam(r, "project"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "project")
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Delete(r.Context(), id); err != nil {
		writeError(w, mkerrors.Wrap(mkerrors.ErrCodeStorage, err, "delete project %s", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Editing
// =============================================================================

// opResponse reports the outcome of one operation. Changed is false when the
// operation was rejected for an interactive reason, such as a locked element.
type opResponse struct {
	Op        string         `json:"op"`
	Changed   bool           `json:"changed"`
	Result    any            `json:"result,omitempty"`
	Screen    *scene.Screen  `json:"screen,omitempty"`
	CanUndo   bool           `json:"can_undo"`
	CanRedo   bool           `json:"can_redo"`
	Selection []string       `json:"selection,omitempty"`
	History   *historyCounts `json:"history,omitempty"`
}

type historyCounts struct {
	Past   int `json:"past"`
	Future int `json:"future"`
}

func (s *Server) handleOp(w http.ResponseWriter, r *http.Request) {
	var op Op
	if err := decode(w, r, &op); err != nil {
		writeError(w, err)
		return
	}
	var resp opResponse
	err := s.edit(r.Context(), chi.URLParam(r, "project"), func(ed *editor.Editor) error {
		if op.Screen != "" {
			if err := ed.SetActive(op.Screen); err != nil {
				return err
			}
		}
		result, changed, err := apply(ed, op)
		if err != nil {
			return err
		}
		resp = s.respond(ed, op.Op, changed, result)
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

type jumpRequest struct {
	Stack string `json:"stack"`
	Index int    `json:"index"`
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	s.replay(w, r, "undo", func(ed *editor.Editor, screen string) (bool, error) {
		return ed.Undo(screen)
	})
}

func (s *Server) handleRedo(w http.ResponseWriter, r *http.Request) {
	s.replay(w, r, "redo", func(ed *editor.Editor, screen string) (bool, error) {
		return ed.Redo(screen)
	})
}

func (s *Server) handleJump(w http.ResponseWriter, r *http.Request) {
	var req jumpRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	which, err := history.ParseStack(req.Stack)
	if err != nil {
		writeError(w, mkerrors.Wrap(mkerrors.ErrCodeInvalidInput, err, "jump"))
		return
	}
	s.replay(w, r, "jump", func(ed *editor.Editor, screen string) (bool, error) {
		return ed.Jump(screen, req.Index, which)
	})
}

func (s *Server) replay(w http.ResponseWriter, r *http.Request, kind string, fn func(ed *editor.Editor, screen string) (bool, error)) {
	screen := chi.URLParam(r, "screen")
	var resp opResponse
	err := s.edit(r.Context(), chi.URLParam(r, "project"), func(ed *editor.Editor) error {
		ok, err := fn(ed, screen)
		if err != nil {
			return err
		}
		_ = ed.SetActive(screen)
		resp = s.respond(ed, kind, ok, nil)
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) respond(ed *editor.Editor, op string, changed bool, result any) opResponse {
	resp := opResponse{Op: op, Changed: changed, Result: result}
	if a := ed.Active(); a != nil {
		resp.Screen = a
		resp.CanUndo = ed.CanUndo(a.ID)
		resp.CanRedo = ed.CanRedo(a.ID)
		if st, err := ed.HistoryOf(a.ID); err == nil {
			resp.History = &historyCounts{Past: len(st.Past), Future: len(st.Future)}
		}
	}
	if sel := ed.Selection(); len(sel.IDs) > 0 {
		resp.Selection = sel.IDs
	}
	return resp
}

// =============================================================================
// History
// =============================================================================

// timelineEntry is a history entry without its snapshot.
type timelineEntry struct {
	Index     int       `json:"index"`
	Label     string    `json:"label"`
	Timestamp time.Time `json:"timestamp"`
}

type timelineResponse struct {
	Screen string          `json:"screen"`
	Past   []timelineEntry `json:"past"`
	Future []timelineEntry `json:"future"`
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	screen := chi.URLParam(r, "screen")
	var resp timelineResponse
	err := s.view(r.Context(), chi.URLParam(r, "project"), func(ed *editor.Editor) error {
		st, err := ed.HistoryOf(screen)
		if err != nil {
			return err
		}
		resp = timelineResponse{Screen: screen, Past: entries(st.Past), Future: entries(st.Future)}
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func entries(es []history.Entry) []timelineEntry {
	out := make([]timelineEntry, len(es))
	for i, e := range es {
		out[i] = timelineEntry{Index: i, Label: e.Label, Timestamp: e.Timestamp}
	}
	return out
}

// =============================================================================
// Export
// =============================================================================

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	f, opts, err := exportParams(r)
	if err != nil {
		writeError(w, err)
		return
	}
	p, err := s.load(r.Context(), chi.URLParam(r, "project"))
	if err != nil {
		writeError(w, err)
		return
	}
	screen, ok := p.Document.Screen(chi.URLParam(r, "screen"))
	if !ok {
		writeError(w, mkerrors.New(mkerrors.ErrCodeUnknownScreen, "no screen %q", chi.URLParam(r, "screen")))
		return
	}
	data, err := s.exporter(p.ID).Screen(r.Context(), screen, f, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeDiagram(w, f, data)
}

func (s *Server) handleFlow(w http.ResponseWriter, r *http.Request) {
	f, opts, err := exportParams(r)
	if err != nil {
		writeError(w, err)
		return
	}
	p, err := s.load(r.Context(), chi.URLParam(r, "project"))
	if err != nil {
		writeError(w, err)
		return
	}
	data, err := s.exporter(p.ID).Flow(r.Context(), p.Document, f, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeDiagram(w, f, data)
}

// exportParams reads ?format=svg|dot&direction=TB|LR&hidden=1&links=0.
func exportParams(r *http.Request) (export.Format, export.Options, error) {
	q := r.URL.Query()
	format := q.Get("format")
	if format == "" {
		format = string(export.FormatSVG)
	}
	f, err := export.ParseFormat(format)
	if err != nil {
		return "", export.Options{}, err
	}
	opts := export.Options{Direction: q.Get("direction"), IncludeLinks: true}
	if v := q.Get("hidden"); v != "" {
		if opts.ShowHidden, err = strconv.ParseBool(v); err != nil {
			return "", export.Options{}, mkerrors.New(mkerrors.ErrCodeInvalidInput, "hidden: %v", err)
		}
	}
	if v := q.Get("links"); v != "" {
		if opts.IncludeLinks, err = strconv.ParseBool(v); err != nil {
			return "", export.Options{}, mkerrors.New(mkerrors.ErrCodeInvalidInput, "links: %v", err)
		}
	}
	return f, opts, nil
}

func writeDiagram(w http.ResponseWriter, f export.Format, data []byte) {
	switch f {
	case export.FormatSVG:
		w.Header().Set("Content-Type", "image/svg+xml")
	default:
		w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// =============================================================================
// Project lifecycle
// =============================================================================

func (s *Server) load(ctx context.Context, id string) (*store.Project, error) {
	if err := mkerrors.ValidateProjectID(id); err != nil {
		return nil, err
	}
	p, err := s.store.Load(ctx, id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return nil, mkerrors.New(mkerrors.ErrCodeProjectNotFound, "project %q does not exist", id)
	case err != nil:
		return nil, mkerrors.Wrap(mkerrors.ErrCodeStorage, err, "load project %s", id)
	}
	return p, nil
}

func (s *Server) open(ctx context.Context, id string) (*store.Project, *editor.Editor, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	hist := history.New(history.WithCapacity(s.historyLimit), history.WithLogger(s.logger))
	hist.Restore(p.History)
	opts := []editor.Option{
		editor.WithHistory(hist),
		editor.WithCatalog(s.catalog),
		editor.WithLogger(s.logger),
	}
	if s.newID != nil {
		opts = append(opts, editor.WithIDs(s.newID))
	}
	return p, editor.New(p.Document, opts...), nil
}

// edit runs fn against the project's editor and saves the result.
func (s *Server) edit(ctx context.Context, id string, fn func(ed *editor.Editor) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ed, err := s.open(ctx, id)
	if err != nil {
		return err
	}
	if err := fn(ed); err != nil {
		return classify(err)
	}
	p.Document = ed.Document()
	p.History = ed.History().Export()
	if err := s.store.Save(ctx, p); err != nil {
		return mkerrors.Wrap(mkerrors.ErrCodeStorage, err, "save project %s", id)
	}
	return nil
}

// view runs fn against the project's editor without saving.
func (s *Server) view(ctx context.Context, id string, fn func(ed *editor.Editor) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ed, err := s.open(ctx, id)
	if err != nil {
		return err
	}
	return classify(fn(ed))
}

// classify gives model sentinel errors an error code.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case mkerrors.GetCode(err) != "":
		return err
	case errors.Is(err, scene.ErrUnknownScreen):
		return mkerrors.Wrap(mkerrors.ErrCodeUnknownScreen, err, "unknown screen")
	case errors.Is(err, catalog.ErrUnknownItem):
		return mkerrors.Wrap(mkerrors.ErrCodeNotFound, err, "unknown catalog item")
	default:
		return err
	}
}

// =============================================================================
// JSON helpers
// =============================================================================

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return mkerrors.Wrap(mkerrors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, mkerrors.HTTPStatus(err), errorResponse{
		Error: mkerrors.UserMessage(err),
		Code:  string(mkerrors.GetCode(err)),
	})
}
