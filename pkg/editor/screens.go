package editor

import (
	"fmt"
	"time"

	"github.com/matzehuels/mockup/pkg/interact"
	"github.com/matzehuels/mockup/pkg/scene"
)

// AddScreen appends a new empty screen sized for device and makes it active.
func (e *Editor) AddScreen(name, device string) (string, error) {
	id := e.newID()
	if name == "" {
		name = fmt.Sprintf("Screen %d", len(e.doc.Screens)+1)
	}
	s := newScreen(id, name, device)
	if err := e.doc.AddScreen(s); err != nil {
		return "", err
	}
	e.hist.Observe(s)
	e.activate(id)
	return id, nil
}

// RemoveScreen deletes a screen and drops its history. Links on other
// screens that pointed at it are cleared; each screen that lost a link gets
// its own undoable history entry.
func (e *Editor) RemoveScreen(id string) error {
	if _, err := e.screen(id); err != nil {
		return err
	}
	if err := e.doc.RemoveScreen(id); err != nil {
		return err
	}
	e.hist.Forget(id)
	e.dropGestures(id)
	for _, s := range e.doc.Screens {
		e.hist.Observe(s)
	}
	if e.sel.ScreenID == id {
		e.sel = interact.Selection{}
	}
	if a := e.doc.Active(); a != nil {
		e.activate(a.ID)
	}
	return nil
}

// RenameScreen sets a screen's display name.
func (e *Editor) RenameScreen(id, name string) error {
	return e.updateScreen(id, "rename-screen", func(s *scene.Screen) { s.Name = name })
}

// ToggleScreenLock flips a screen's lock flag and returns the new state.
// A locked screen blocks every gesture on its elements.
func (e *Editor) ToggleScreenLock(id string) (bool, error) {
	var locked bool
	err := e.updateScreen(id, "lock-screen", func(s *scene.Screen) {
		s.Locked = !s.Locked
		locked = s.Locked
	})
	return locked, err
}

// ToggleScreenHidden flips a screen's hidden flag and returns the new state.
func (e *Editor) ToggleScreenHidden(id string) (bool, error) {
	var hidden bool
	err := e.updateScreen(id, "hide-screen", func(s *scene.Screen) {
		s.Hidden = !s.Hidden
		hidden = s.Hidden
	})
	return hidden, err
}

// updateScreen commits a change to screen-level attributes of any screen.
func (e *Editor) updateScreen(id, op string, fn func(s *scene.Screen)) error {
	cur, err := e.screen(id)
	if err != nil {
		return err
	}
	start := time.Now()
	work := cur.Clone()
	fn(work)
	e.commit(op, work, start)
	return nil
}
