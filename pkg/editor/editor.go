// Package editor is the entry point the surrounding application talks to.
//
// An [Editor] owns one [scene.Document] together with the selection, the
// open pointer gestures and the per-screen [history.Engine]. Every mutating
// operation clones the affected screen, edits the clone through
// [edit] or [interact], swaps it into the document and hands it to the
// history engine. That single commit path is what makes one user action one
// history entry, whether it touched one element or forty.
//
// # Errors
//
// Operations rejected for ordinary interactive reasons (a locked element, a
// drop that would create a cycle, an id that is not on the screen) return a
// zero result and no error: from the user's point of view nothing happened.
// Errors are reserved for integration mistakes, such as naming a screen that
// is not in the document ([scene.ErrUnknownScreen]) or a catalog item that
// does not exist.
//
// # Concurrency
//
// An Editor is not safe for concurrent use. The HTTP server serializes
// access with a mutex.
package editor

import (
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/mockup/pkg/catalog"
	"github.com/matzehuels/mockup/pkg/history"
	"github.com/matzehuels/mockup/pkg/interact"
	"github.com/matzehuels/mockup/pkg/observability"
	"github.com/matzehuels/mockup/pkg/scene"
)

// Editor applies user operations to a document.
type Editor struct {
	doc      *scene.Document
	sel      interact.Selection
	hist     *history.Engine
	catalog  *catalog.Catalog
	gestures map[string]*interact.Gesture
	scale    float64
	newID    func() string
	logger   *log.Logger
}

// Option configures an Editor.
type Option func(*Editor)

// WithHistory uses h instead of a fresh engine, for example one restored
// from a saved project.
func WithHistory(h *history.Engine) Option {
	return func(e *Editor) {
		if h != nil {
			e.hist = h
		}
	}
}

// WithCatalog sets the component library used by [Editor.Drop].
func WithCatalog(c *catalog.Catalog) Option {
	return func(e *Editor) {
		if c != nil {
			e.catalog = c
		}
	}
}

// WithIDs sets the generator for new element and screen ids.
func WithIDs(f func() string) Option {
	return func(e *Editor) {
		if f != nil {
			e.newID = f
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(e *Editor) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates an editor for doc. The editor takes ownership of doc; callers
// read it back through [Editor.Document]. Every screen is observed once so
// the first edit on it has a baseline.
func New(doc *scene.Document, opts ...Option) *Editor {
	e := &Editor{
		doc:      doc,
		gestures: make(map[string]*interact.Gesture),
		scale:    1,
		newID:    uuid.NewString,
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.hist == nil {
		e.hist = history.New(history.WithLogger(e.logger))
	}
	if e.catalog == nil {
		e.catalog = catalog.Default()
	}
	e.hist.Retain(doc.ScreenIDs())
	for _, s := range doc.Screens {
		e.hist.Observe(s)
	}
	if a := doc.Active(); a != nil {
		doc.ActiveID = a.ID
	}
	return e
}

// NewDocument creates a document with one empty screen sized for device
// (see [catalog.Devices]; unknown devices fall back to mobile).
func NewDocument(name, device string, grid scene.Grid) *scene.Document {
	doc := scene.NewDocument(uuid.NewString(), name, grid)
	_ = doc.AddScreen(newScreen(uuid.NewString(), "Screen 1", device))
	return doc
}

func newScreen(id, name, device string) *scene.Screen {
	d, ok := catalog.LookupDevice(device)
	if !ok {
		d, _ = catalog.LookupDevice("mobile")
	}
	return &scene.Screen{
		ID:         id,
		Name:       name,
		Background: "#ffffff",
		Viewport:   d.Viewport,
		Elements:   []scene.Element{},
	}
}

// Document returns the live document. It must be treated as read-only;
// mutate it only through the editor.
func (e *Editor) Document() *scene.Document { return e.doc }

// History returns the history engine, for persistence.
func (e *Editor) History() *history.Engine { return e.hist }

// Catalog returns the component library.
func (e *Editor) Catalog() *catalog.Catalog { return e.catalog }

// Active returns the screen edits apply to.
func (e *Editor) Active() *scene.Screen { return e.doc.Active() }

// Scale returns the canvas zoom factor applied to pointer deltas.
func (e *Editor) Scale() float64 { return e.scale }

// SetScale sets the zoom factor. Non-positive and non-finite values are
// ignored.
func (e *Editor) SetScale(f float64) {
	if f > 0 && finite(f) {
		e.scale = f
	}
}

func (e *Editor) screen(id string) (*scene.Screen, error) {
	s, ok := e.doc.Screen(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", scene.ErrUnknownScreen, id)
	}
	return s, nil
}

// edit runs fn on a clone of the active screen and commits the clone when fn
// reports a change.
func (e *Editor) edit(op string, fn func(s *scene.Screen) bool) bool {
	cur := e.doc.Active()
	if cur == nil {
		return false
	}
	start := time.Now()
	work := cur.Clone()
	if !fn(work) {
		e.reject(cur.ID, op, "no change")
		return false
	}
	e.commit(op, work, start)
	return true
}

// commit swaps s into the document and lets history observe it. Gestures
// still open on the screen hold a copy from before this edit and are
// dropped.
func (e *Editor) commit(op string, s *scene.Screen, start time.Time) {
	if err := e.doc.ReplaceScreen(s); err != nil {
		// The screen was removed while a gesture was open.
		e.reject(s.ID, op, "screen removed")
		return
	}
	e.dropGestures(s.ID)
	e.pruneSelection(s)
	observability.Editor().OnCommit(s.ID, op, time.Since(start))

	if label, ok := e.hist.Observe(s); ok {
		past := len(e.hist.List(s.ID).Past)
		observability.Editor().OnRecord(s.ID, label, past)
		e.logger.Debug("edit", "op", op, "screen", s.ID, "label", label)
	}
}

// finite reports whether every v is a real number. NaN or infinite geometry
// cannot be hashed or stored.
func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (e *Editor) reject(screenID, op, reason string) {
	observability.Editor().OnReject(screenID, op, reason)
	e.logger.Debug("rejected", "op", op, "screen", screenID, "reason", reason)
}

func (e *Editor) pruneSelection(s *scene.Screen) {
	if e.sel.ScreenID == s.ID {
		e.sel.Retain(s.Has)
	}
}
