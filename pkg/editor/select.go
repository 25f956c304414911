package editor

import (
	"slices"

	"github.com/matzehuels/mockup/pkg/interact"
)

// Selection returns a copy of the current selection.
func (e *Editor) Selection() interact.Selection {
	s := e.sel
	s.IDs = slices.Clone(s.IDs)
	return s
}

// Select updates the element selection on screenID and makes it the active
// screen. Ids that are not on the screen are ignored.
func (e *Editor) Select(screenID string, ids []string, mode interact.SelectMode) error {
	s, err := e.screen(screenID)
	if err != nil {
		return err
	}
	e.activate(screenID)
	known := slices.DeleteFunc(slices.Clone(ids), func(id string) bool { return !s.Has(id) })
	e.sel.Apply(screenID, known, mode)
	return nil
}

// SelectScreen switches to screen-level selection of screenID.
func (e *Editor) SelectScreen(screenID string) error {
	if _, err := e.screen(screenID); err != nil {
		return err
	}
	e.activate(screenID)
	e.sel.SelectScreen(screenID)
	return nil
}

// ClearSelection deselects everything.
func (e *Editor) ClearSelection() { e.sel.Clear() }

// SetActive makes screenID the screen edits apply to. Switching screens
// clears the selection.
func (e *Editor) SetActive(screenID string) error {
	if _, err := e.screen(screenID); err != nil {
		return err
	}
	e.activate(screenID)
	return nil
}

func (e *Editor) activate(screenID string) {
	if e.doc.ActiveID != screenID {
		e.doc.ActiveID = screenID
	}
	if e.sel.ScreenID != screenID {
		e.sel = interact.Selection{ScreenID: screenID}
	}
}
