package editor

import (
	"github.com/matzehuels/mockup/pkg/history"
	"github.com/matzehuels/mockup/pkg/observability"
	"github.com/matzehuels/mockup/pkg/scene"
)

// Undo reverts the most recent edit on screenID. It returns false when there
// is nothing to undo.
func (e *Editor) Undo(screenID string) (bool, error) {
	s, err := e.screen(screenID)
	if err != nil {
		return false, err
	}
	snap, ok := e.hist.Undo(s)
	if ok {
		e.replay("undo", snap)
	}
	return ok, nil
}

// Redo re-applies the most recently undone edit on screenID.
func (e *Editor) Redo(screenID string) (bool, error) {
	s, err := e.screen(screenID)
	if err != nil {
		return false, err
	}
	snap, ok := e.hist.Redo(s)
	if ok {
		e.replay("redo", snap)
	}
	return ok, nil
}

// Jump travels to entry index of the given stack of screenID. See
// [history.Engine.Jump] for index semantics.
func (e *Editor) Jump(screenID string, index int, which history.Stack) (bool, error) {
	s, err := e.screen(screenID)
	if err != nil {
		return false, err
	}
	snap, ok := e.hist.Jump(s, index, which)
	if ok {
		e.replay("jump", snap)
	}
	return ok, nil
}

// CanUndo reports whether screenID has an edit to undo.
func (e *Editor) CanUndo(screenID string) bool { return e.hist.CanUndo(screenID) }

// CanRedo reports whether screenID has an edit to redo.
func (e *Editor) CanRedo(screenID string) bool { return e.hist.CanRedo(screenID) }

// HistoryOf returns the past and future stacks of screenID.
func (e *Editor) HistoryOf(screenID string) (history.Stacks, error) {
	if _, err := e.screen(screenID); err != nil {
		return history.Stacks{}, err
	}
	return e.hist.List(screenID), nil
}

// replay swaps a history snapshot into the document. The engine has already
// re-baselined on snap, so it is not observed again. Screen attributes that
// history does not track keep their live values.
func (e *Editor) replay(kind string, snap *scene.Screen) {
	if cur, ok := e.doc.Screen(snap.ID); ok {
		snap.Name, snap.Locked, snap.Hidden, snap.Grid = cur.Name, cur.Locked, cur.Hidden, cur.Grid
	}
	if err := e.doc.ReplaceScreen(snap); err != nil {
		return
	}
	e.dropGestures(snap.ID)
	e.pruneSelection(snap)
	observability.Editor().OnReplay(snap.ID, kind)
	e.logger.Debug("history "+kind, "screen", snap.ID)
}
