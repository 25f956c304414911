package edit

import (
	"slices"

	"github.com/matzehuels/mockup/pkg/scene"
)

// DuplicateOffset is added to both axes of every duplicated element.
const DuplicateOffset = 10.0

// Duplicate deep-clones the selected roots together with all of their
// descendants. Clones get fresh ids, parent references inside the cloned set
// are remapped, and each root clone keeps the original root's parent. The
// clones are offset by [DuplicateOffset] and painted above every existing
// element, preserving their relative order.
//
// It returns the ids of the cloned roots, in input order.
func Duplicate(s *scene.Screen, ids []string, newID IDFunc) []string {
	roots := scene.Roots(s.Elements, ids)
	if len(roots) == 0 {
		return nil
	}
	scene.ReindexZ(s.Elements)

	covered := scene.WithDescendants(s.Elements, roots)
	remap := make(map[string]string, len(covered))
	for _, id := range covered {
		remap[id] = newID()
	}

	var clones []scene.Element
	for _, e := range s.Elements {
		fresh, ok := remap[e.ID]
		if !ok {
			continue
		}
		c := e.Clone()
		c.ID = fresh
		if p, inSet := remap[e.ParentID]; inSet {
			c.ParentID = p
		}
		c.X += DuplicateOffset
		c.Y += DuplicateOffset
		c.Z = len(s.Elements) + len(clones) + 1
		clones = append(clones, c)
	}
	s.Elements = append(s.Elements, clones...)

	out := make([]string, len(roots))
	for i, id := range roots {
		out[i] = remap[id]
	}
	return out
}

// Delete removes the given elements and all of their descendants and
// returns how many elements were removed.
func Delete(s *scene.Screen, ids []string) int {
	doomed := scene.WithDescendants(s.Elements, ids)
	if len(doomed) == 0 {
		return 0
	}
	before := len(s.Elements)
	s.Elements = slices.DeleteFunc(s.Elements, func(e scene.Element) bool {
		return slices.Contains(doomed, e.ID)
	})
	scene.ReindexZ(s.Elements)
	return before - len(s.Elements)
}

// DeleteKeepChildren is the "ungroup only" alternative to deleting a group:
// the group disappears and its children survive under the group's parent.
func DeleteKeepChildren(s *scene.Screen, groupID string) bool {
	return Ungroup(s, groupID)
}

// ToggleLock locks every selected root if any of them is unlocked, otherwise
// unlocks them all. The result is unified across the selection. It returns
// the new lock state and false if nothing was selected.
func ToggleLock(s *scene.Screen, ids []string) (locked, ok bool) {
	roots := scene.Roots(s.Elements, ids)
	if len(roots) == 0 {
		return false, false
	}
	anyUnlocked := false
	for _, id := range roots {
		if el, _ := s.Element(id); !el.Locked {
			anyUnlocked = true
			break
		}
	}
	for _, id := range roots {
		el, _ := s.Element(id)
		el.Locked = anyUnlocked
	}
	return anyUnlocked, true
}

// ToggleHidden flips the hidden flag of every selected root independently.
// It returns the number of elements toggled.
func ToggleHidden(s *scene.Screen, ids []string) int {
	roots := scene.Roots(s.Elements, ids)
	for _, id := range roots {
		el, _ := s.Element(id)
		el.Hidden = !el.Hidden
	}
	return len(roots)
}

// Rename sets an element's display name.
func Rename(s *scene.Screen, id, name string) bool {
	el, ok := s.Element(id)
	if !ok || el.Name == name {
		return false
	}
	el.Name = name
	return true
}

// SetLink makes id a click-through hotspot to the screen target, or clears
// the link when target is empty. Validating that target exists is the
// caller's job since a screen does not know its siblings.
func SetLink(s *scene.Screen, id, target string) bool {
	el, ok := s.Element(id)
	if !ok || el.Link == target || target == s.ID {
		return false
	}
	el.Link = target
	return true
}

// SetCollapsed toggles the layer-panel disclosure state of a group.
func SetCollapsed(s *scene.Screen, id string, collapsed bool) bool {
	el, ok := s.Element(id)
	if !ok || !el.Type.IsStructural() || el.Collapsed == collapsed {
		return false
	}
	el.Collapsed = collapsed
	return true
}

// SetStyle merges values into an element's style payload. A nil value
// removes the key.
func SetStyle(s *scene.Screen, id string, values scene.Payload) bool {
	el, ok := s.Element(id)
	if !ok || len(values) == 0 {
		return false
	}
	el.Style = merge(el.Style, values)
	return true
}

// SetProps merges values into an element's type-specific props.
func SetProps(s *scene.Screen, id string, values scene.Payload) bool {
	el, ok := s.Element(id)
	if !ok || len(values) == 0 {
		return false
	}
	el.Props = merge(el.Props, values)
	return true
}

func merge(dst, src scene.Payload) scene.Payload {
	if dst == nil {
		dst = scene.Payload{}
	}
	for k, v := range src {
		if v == nil {
			delete(dst, k)
			continue
		}
		dst[k] = v
	}
	return dst
}
