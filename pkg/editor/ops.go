package editor

import (
	"fmt"

	"github.com/matzehuels/mockup/pkg/catalog"
	"github.com/matzehuels/mockup/pkg/geom"
	"github.com/matzehuels/mockup/pkg/interact"
	"github.com/matzehuels/mockup/pkg/scene"
	"github.com/matzehuels/mockup/pkg/scene/edit"
)

// Group wraps ids in a new group on the active screen and selects it.
func (e *Editor) Group(ids []string) string {
	var id string
	e.edit("group", func(s *scene.Screen) bool {
		id = edit.Group(s, ids, e.newID)
		return id != ""
	})
	if id != "" {
		e.selectOnActive(id)
	}
	return id
}

// Ungroup dissolves a group, keeping its children.
func (e *Editor) Ungroup(groupID string) bool {
	return e.edit("ungroup", func(s *scene.Screen) bool {
		return edit.Ungroup(s, groupID)
	})
}

// Reparent moves id relative to target. An empty target detaches id to the
// top level.
func (e *Editor) Reparent(id, target string, pos edit.Position) bool {
	return e.edit("reparent", func(s *scene.Screen) bool {
		return edit.Reparent(s, id, target, pos)
	})
}

// Duplicate clones ids with their descendants, selects the clones and
// returns their ids.
func (e *Editor) Duplicate(ids []string) []string {
	var out []string
	e.edit("duplicate", func(s *scene.Screen) bool {
		out = edit.Duplicate(s, ids, e.newID)
		return len(out) > 0
	})
	if len(out) > 0 {
		e.selectOnActive(out...)
	}
	return out
}

// Delete removes ids and their descendants in one edit and returns the
// number of elements removed.
func (e *Editor) Delete(ids []string) int {
	var n int
	e.edit("delete", func(s *scene.Screen) bool {
		n = edit.Delete(s, ids)
		return n > 0
	})
	return n
}

// DeleteKeepChildren removes a group but keeps its children.
func (e *Editor) DeleteKeepChildren(groupID string) bool {
	return e.edit("delete-keep-children", func(s *scene.Screen) bool {
		return edit.DeleteKeepChildren(s, groupID)
	})
}

// ToggleLock locks all of ids if any is unlocked, otherwise unlocks them
// all. It returns the resulting lock state and whether anything changed.
func (e *Editor) ToggleLock(ids []string) (locked, ok bool) {
	e.edit("lock", func(s *scene.Screen) bool {
		locked, ok = edit.ToggleLock(s, ids)
		return ok
	})
	return locked, ok
}

// ToggleHidden flips the hidden flag of each of ids independently.
func (e *Editor) ToggleHidden(ids []string) int {
	var n int
	e.edit("hide", func(s *scene.Screen) bool {
		n = edit.ToggleHidden(s, ids)
		return n > 0
	})
	return n
}

// Drop instantiates a catalog item at (x, y), snapped to the grid, on top of
// the active screen. parent may name a group to drop into. The new root is
// selected. It returns the ids of every created element.
func (e *Editor) Drop(itemKey string, x, y float64, parent string) ([]string, error) {
	it, err := e.catalog.Lookup(itemKey)
	if err != nil {
		return nil, err
	}
	if !finite(x, y) {
		e.reject(e.doc.ActiveID, "drop", "non-finite position")
		return nil, nil
	}
	var added []string
	e.edit("drop", func(s *scene.Screen) bool {
		g := e.doc.GridFor(s)
		sx, sy := geom.Snap(x, g.Size, g.Enabled), geom.Snap(y, g.Size, g.Enabled)
		added = edit.Drop(s, catalog.Instantiate(it, sx, sy, e.newID), parent)
		return len(added) > 0
	})
	if len(added) > 0 {
		e.selectOnActive(added[0])
	}
	return added, nil
}

// AddGroup creates an empty group. It returns "" for non-finite geometry.
func (e *Editor) AddGroup(name string, r geom.Rect) string {
	if !finite(r.X, r.Y, r.Width, r.Height) {
		e.reject(e.doc.ActiveID, "add-group", "non-finite geometry")
		return ""
	}
	var id string
	e.edit("add-group", func(s *scene.Screen) bool {
		id = edit.AddGroup(s, name, r.X, r.Y, geom.ClampSize(r.Width), geom.ClampSize(r.Height), e.newID)
		return true
	})
	return id
}

// Rename sets an element's name.
func (e *Editor) Rename(id, name string) bool {
	return e.edit("rename", func(s *scene.Screen) bool {
		return edit.Rename(s, id, name)
	})
}

// SetLink makes id navigate to the screen target in prototype mode. An empty
// target clears the link. Targets that are not screens of the document are
// rejected.
func (e *Editor) SetLink(id, target string) bool {
	if _, ok := e.doc.Screen(target); target != "" && !ok {
		e.reject(e.doc.ActiveID, "link", "unknown target screen")
		return false
	}
	return e.edit("link", func(s *scene.Screen) bool {
		return edit.SetLink(s, id, target)
	})
}

// SetCollapsed sets the layer-panel disclosure state of a group.
func (e *Editor) SetCollapsed(id string, collapsed bool) bool {
	return e.edit("collapse", func(s *scene.Screen) bool {
		return edit.SetCollapsed(s, id, collapsed)
	})
}

// SetStyle merges style values into an element. Nil values remove keys.
func (e *Editor) SetStyle(id string, values scene.Payload) bool {
	return e.edit("style", func(s *scene.Screen) bool {
		return edit.SetStyle(s, id, values)
	})
}

// SetProps merges type-specific properties into an element.
func (e *Editor) SetProps(id string, values scene.Payload) bool {
	return e.edit("props", func(s *scene.Screen) bool {
		return edit.SetProps(s, id, values)
	})
}

// SetBackground sets the active screen's background color.
func (e *Editor) SetBackground(color string) bool {
	return e.edit("background", func(s *scene.Screen) bool {
		if s.Background == color {
			return false
		}
		s.Background = color
		return true
	})
}

// SetViewport resizes the active screen's device frame.
func (e *Editor) SetViewport(vp scene.Viewport) bool {
	if vp.Width <= 0 || vp.Height <= 0 {
		return false
	}
	return e.edit("viewport", func(s *scene.Screen) bool {
		if s.Viewport == vp {
			return false
		}
		s.Viewport = vp
		return true
	})
}

// SetGrid overrides the grid for the active screen; nil restores the
// document default.
func (e *Editor) SetGrid(g *scene.Grid) bool {
	return e.edit("grid", func(s *scene.Screen) bool {
		s.Grid = g
		return true
	})
}

// Navigate follows the link on elementID of the active screen, making the
// target screen active. It returns the target id, or "" when the element is
// not a hotspot.
func (e *Editor) Navigate(elementID string) string {
	s := e.doc.Active()
	if s == nil {
		return ""
	}
	el, ok := s.Element(elementID)
	if !ok || el.Link == "" {
		return ""
	}
	if _, ok := e.doc.Screen(el.Link); !ok {
		return ""
	}
	e.activate(el.Link)
	return el.Link
}

func (e *Editor) selectOnActive(ids ...string) {
	if s := e.doc.Active(); s != nil {
		e.sel.Apply(s.ID, ids, interact.Replace)
	}
}

// Describe returns a one-line summary of an element for logs and CLI output.
func Describe(el scene.Element) string {
	return fmt.Sprintf("%s %q (%s) at %g,%g %gx%g", el.ID, el.DisplayName(), el.Type, el.X, el.Y, el.Width, el.Height)
}
