package edit

import (
	"fmt"
	"slices"

	"github.com/matzehuels/mockup/pkg/scene"
)

// Position says where a dragged element lands relative to the drop target.
type Position string

const (
	// Into makes the target the new parent. Only groups accept it.
	Into Position = "into"
	// Before inserts as a sibling immediately below the target in paint order.
	Before Position = "before"
	// After inserts as a sibling immediately above the target in paint order.
	After Position = "after"
)

// ParsePosition converts a string flag or request field to a Position.
func ParsePosition(s string) (Position, error) {
	switch p := Position(s); p {
	case Into, Before, After:
		return p, nil
	case "":
		return Before, nil
	default:
		return "", fmt.Errorf("unknown drop position %q", s)
	}
}

// Group wraps the selected elements in a new group and returns its id.
//
// Only selected roots are reparented; a selected descendant of another
// selected element stays under it. The group's geometry is the bounding box
// of the roots and all their descendants. It is painted directly above the
// topmost selected root (z = max(selected)+1) and inherits the roots' parent
// when they all share one; otherwise it becomes a root.
//
// Group returns "" and leaves s untouched when no id resolves.
func Group(s *scene.Screen, ids []string, newID IDFunc) string {
	roots := scene.Roots(s.Elements, ids)
	if len(roots) == 0 {
		return ""
	}
	scene.ReindexZ(s.Elements)

	covered := scene.WithDescendants(s.Elements, roots)
	bbox, _ := scene.Bounds(scene.Select(s.Elements, covered))

	parent, shared := "", true
	top := -1
	for i, id := range roots {
		idx := s.Index(id)
		top = max(top, idx)
		p := s.Elements[idx].ParentID
		if i == 0 {
			parent = p
		} else if p != parent {
			shared = false
		}
	}
	if !shared {
		parent = ""
	}

	g := scene.Element{
		ID:     newID(),
		Type:   scene.TypeGroup,
		Name:   fmt.Sprintf("Group %d", countType(s, scene.TypeGroup)+1),
		X:      bbox.X,
		Y:      bbox.Y,
		Width:  bbox.Width,
		Height: bbox.Height,
		Z:      s.Elements[top].Z + 1,
	}
	if parent != "" && !slices.Contains(roots, parent) {
		g.ParentID = parent
	}

	s.Elements = slices.Insert(s.Elements, top+1, g)
	for _, id := range roots {
		s.Elements[s.Index(id)].ParentID = g.ID
	}
	scene.Renumber(s.Elements)
	return g.ID
}

// Ungroup removes a group and hands its direct children to the group's own
// parent. Children are never deleted. It returns false if groupID is not a
// group on s.
func Ungroup(s *scene.Screen, groupID string) bool {
	el, ok := s.Element(groupID)
	if !ok || !el.IsGroup() {
		return false
	}
	parent := el.ParentID
	for i := range s.Elements {
		if s.Elements[i].ParentID == groupID {
			s.Elements[i].ParentID = parent
		}
	}
	s.Elements = slices.DeleteFunc(s.Elements, func(e scene.Element) bool { return e.ID == groupID })
	scene.ReindexZ(s.Elements)
	return true
}

// Reparent applies a layer-panel drop of id onto target.
//
// An empty target is the "unsorted" zone and clears the parent. [Into]
// requires a group target, which is expanded. [Before] and [After] adopt the
// target's parent and splice id next to it in paint order.
//
// Before anything changes, the target's ancestor chain (target included) is
// walked; if id appears in it the drop would create a cycle and is refused.
func Reparent(s *scene.Screen, id, target string, pos Position) bool {
	i := s.Index(id)
	if i < 0 || id == target {
		return false
	}
	if target == "" {
		if s.Elements[i].ParentID == "" {
			return false
		}
		s.Elements[i].ParentID = ""
		scene.ReindexZ(s.Elements)
		return true
	}

	t, ok := s.Element(target)
	if !ok {
		return false
	}
	if slices.Contains(scene.AncestorChain(s.Elements, target), id) {
		return false
	}

	switch pos {
	case Into:
		if !t.IsGroup() {
			return false
		}
		t.Collapsed = false
		s.Elements[i].ParentID = target
		scene.ReindexZ(s.Elements)
		return true
	case Before, After:
		parent := t.ParentID
		scene.ReindexZ(s.Elements)
		moved := s.Elements[s.Index(id)]
		moved.ParentID = parent
		s.Elements = slices.DeleteFunc(s.Elements, func(e scene.Element) bool { return e.ID == id })
		at := s.Index(target)
		if pos == After {
			at++
		}
		s.Elements = slices.Insert(s.Elements, at, moved)
		scene.Renumber(s.Elements)
		return true
	default:
		return false
	}
}

// Drop inserts freshly instantiated elements above everything on s. Elements
// whose ParentID is empty are attached to parent when parent is a group on s.
// Ids already present on s are skipped. It returns the ids that were added.
func Drop(s *scene.Screen, elems []scene.Element, parent string) []string {
	if p, ok := s.Element(parent); !ok || !p.IsGroup() {
		parent = ""
	}
	scene.ReindexZ(s.Elements)
	var added []string
	for _, e := range elems {
		if e.ID == "" || s.Has(e.ID) {
			continue
		}
		if e.ParentID == "" {
			e.ParentID = parent
		}
		e.Z = len(s.Elements) + 1
		s.Elements = append(s.Elements, e)
		added = append(added, e.ID)
	}
	// A template may reference a parent that was skipped; detach it.
	for i := range s.Elements {
		if p := s.Elements[i].ParentID; p != "" && !s.Has(p) {
			s.Elements[i].ParentID = ""
		}
	}
	return added
}

// AddGroup creates an empty group at the top of the paint order.
func AddGroup(s *scene.Screen, name string, x, y, w, h float64, newID IDFunc) string {
	if name == "" {
		name = fmt.Sprintf("Group %d", countType(s, scene.TypeGroup)+1)
	}
	scene.ReindexZ(s.Elements)
	g := scene.Element{
		ID:     newID(),
		Type:   scene.TypeGroup,
		Name:   name,
		X:      x,
		Y:      y,
		Width:  w,
		Height: h,
		Z:      len(s.Elements) + 1,
	}
	s.Elements = append(s.Elements, g)
	return g.ID
}

func countType(s *scene.Screen, t scene.ElementType) int {
	n := 0
	for _, e := range s.Elements {
		if e.Type == t {
			n++
		}
	}
	return n
}
