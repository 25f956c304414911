package editor

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/mockup/pkg/interact"
	"github.com/matzehuels/mockup/pkg/scene"
)

// PointerDown is a press on an element of the active screen: it updates the
// selection the way a canvas click does and starts a gesture.
//
// A plain press on an unselected element replaces the selection; a plain
// press on an already selected element keeps the selection so the whole set
// can be dragged. A toggle press flips membership and only starts a gesture
// if the element ends up selected.
func (e *Editor) PointerDown(elementID string, toggle bool, mode interact.Mode, handle interact.Handle) (string, error) {
	s := e.doc.Active()
	if s == nil || !s.Has(elementID) {
		return "", nil
	}
	e.activate(s.ID)
	switch {
	case toggle:
		e.sel.Apply(s.ID, []string{elementID}, interact.Toggle)
		if !e.sel.Contains(elementID) {
			return "", nil
		}
	case !e.sel.Contains(elementID):
		e.sel.Apply(s.ID, []string{elementID}, interact.Replace)
	}
	return e.BeginTransform(elementID, mode, handle)
}

// BeginTransform starts a move or resize gesture on elementID using the
// current selection, and returns the session id to pass to
// [Editor.ApplyDelta] and [Editor.EndTransform]. It returns "" when the
// element is missing or locked.
func (e *Editor) BeginTransform(elementID string, mode interact.Mode, handle interact.Handle) (string, error) {
	s := e.doc.Active()
	if s == nil {
		return "", nil
	}
	var selected []string
	if e.sel.ScreenID == s.ID {
		selected = e.sel.Snapshot()
	}
	g, err := interact.Begin(s, selected, elementID, mode, handle, e.doc.GridFor(s))
	switch {
	case errors.Is(err, interact.ErrLocked):
		e.reject(s.ID, string(mode), "locked")
		return "", nil
	case errors.Is(err, interact.ErrUnknownElement):
		return "", nil
	case err != nil:
		return "", err
	}
	if !g.Applies() {
		e.reject(s.ID, string(mode), "resize needs a single selection")
	}
	id := uuid.NewString()
	e.gestures[id] = g
	e.logger.Debug("gesture started", "session", id, "mode", mode, "element", elementID)
	return id, nil
}

// ApplyDelta moves the gesture to a pointer delta, in screen pixels, measured
// from pointer-down. It returns false for an unknown session or a
// non-finite delta.
func (e *Editor) ApplyDelta(session string, dx, dy float64) bool {
	g, ok := e.gestures[session]
	if !ok || !finite(dx, dy) {
		return false
	}
	return g.Apply(dx, dy, e.scale) == nil
}

// Live returns the in-progress screen of a gesture for preview rendering.
func (e *Editor) Live(session string) (*scene.Screen, bool) {
	g, ok := e.gestures[session]
	if !ok {
		return nil, false
	}
	return g.Live(), true
}

// EndTransform is pointer-up: the gesture's final geometry is committed as a
// single edit. It returns false for an unknown session.
func (e *Editor) EndTransform(session string) bool {
	g, ok := e.gestures[session]
	if !ok {
		return false
	}
	delete(e.gestures, session)
	start := time.Now()
	s, err := g.End()
	if err != nil {
		return false
	}
	e.commit(string(g.Mode()), s, start)
	return true
}

// Transform runs a complete gesture in one call: press, a single delta and
// release. The CLI and the HTTP API use it for scripted moves and resizes.
func (e *Editor) Transform(elementID string, mode interact.Mode, handle interact.Handle, dx, dy float64) bool {
	if !finite(dx, dy) {
		return false
	}
	id, err := e.BeginTransform(elementID, mode, handle)
	if err != nil || id == "" {
		return false
	}
	e.ApplyDelta(id, dx, dy)
	return e.EndTransform(id)
}

// dropGestures discards open gestures on screenID. A replay replaces the
// screen underneath them, so their working copies are stale.
func (e *Editor) dropGestures(screenID string) {
	for id, g := range e.gestures {
		if g.ScreenID() == screenID {
			delete(e.gestures, id)
		}
	}
}
