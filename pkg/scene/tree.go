package scene

import (
	"cmp"
	"slices"

	"github.com/matzehuels/mockup/pkg/geom"
)

// DescendantsOf returns the ids of every element whose parent chain reaches
// id, in breadth-first order. It returns an empty slice for a childless id.
//
// The scan is linear per level: children are found by scanning ParentID
// back-references rather than through a maintained child list.
func DescendantsOf(elems []Element, id string) []string {
	out := []string{}
	if id == "" {
		return out
	}
	seen := map[string]bool{id: true}
	frontier := []string{id}
	for len(frontier) > 0 {
		var next []string
		for _, e := range elems {
			if e.ParentID == "" || seen[e.ID] {
				continue
			}
			if slices.Contains(frontier, e.ParentID) {
				seen[e.ID] = true
				out = append(out, e.ID)
				next = append(next, e.ID)
			}
		}
		frontier = next
	}
	return out
}

// WithDescendants returns ids followed by all of their descendants, without
// duplicates and in a stable order.
func WithDescendants(elems []Element, ids []string) []string {
	seen := make(map[string]bool, len(ids))
	var out []string
	add := func(id string) {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	for _, id := range ids {
		if indexOf(elems, id) < 0 {
			continue
		}
		add(id)
		for _, d := range DescendantsOf(elems, id) {
			add(d)
		}
	}
	return out
}

// IsVisible reports whether el is effectively visible: neither it nor any of
// its ancestors is hidden. It terminates because parent cycles are rejected
// by every mutating operation.
func IsVisible(el Element, elems []Element) bool {
	if el.Hidden {
		return false
	}
	if el.ParentID == "" {
		return true
	}
	i := indexOf(elems, el.ParentID)
	if i < 0 {
		return true
	}
	return IsVisible(elems[i], elems)
}

// AncestorChain returns the ids of id's ancestors from the direct parent up
// to the root. A corrupted cycle stops the walk rather than looping forever.
func AncestorChain(elems []Element, id string) []string {
	var chain []string
	i := indexOf(elems, id)
	if i < 0 {
		return chain
	}
	seen := map[string]bool{id: true}
	for p := elems[i].ParentID; p != "" && !seen[p]; {
		j := indexOf(elems, p)
		if j < 0 {
			break
		}
		chain = append(chain, p)
		seen[p] = true
		p = elems[j].ParentID
	}
	return chain
}

// WouldCycle reports whether making parent the parent of id would put id in
// its own ancestor chain. It walks parent upwards looking for id.
func WouldCycle(elems []Element, id, parent string) bool {
	if parent == "" {
		return false
	}
	if parent == id {
		return true
	}
	return slices.Contains(AncestorChain(elems, parent), id)
}

// SetParent points id at parent. It is a no-op returning false when either
// element is missing or the change would create a cycle; the check runs
// before any mutation.
func SetParent(s *Screen, id, parent string) bool {
	i := s.Index(id)
	if i < 0 {
		return false
	}
	if parent != "" && !s.Has(parent) {
		return false
	}
	if WouldCycle(s.Elements, id, parent) {
		return false
	}
	s.Elements[i].ParentID = parent
	return true
}

// IsLocked reports whether id is blocked from transforms: the screen is
// locked, the element is locked, or one of its ancestors is locked.
func IsLocked(s *Screen, id string) bool {
	if s.Locked {
		return true
	}
	el, ok := s.Element(id)
	if !ok {
		return false
	}
	if el.Locked {
		return true
	}
	for _, a := range AncestorChain(s.Elements, id) {
		if p, ok := s.Element(a); ok && p.Locked {
			return true
		}
	}
	return false
}

// Roots filters ids down to those with no ancestor also present in ids.
// Unknown ids are dropped. Order follows the input.
func Roots(elems []Element, ids []string) []string {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		if indexOf(elems, id) >= 0 {
			set[id] = true
		}
	}
	var out []string
	for _, id := range ids {
		if !set[id] || slices.Contains(out, id) {
			continue
		}
		covered := false
		for _, a := range AncestorChain(elems, id) {
			if set[a] {
				covered = true
				break
			}
		}
		if !covered {
			out = append(out, id)
		}
	}
	return out
}

// ReindexZ sorts elems into paint order (by Z, ties keep slice order) and
// renumbers Z to 1..N.
func ReindexZ(elems []Element) {
	slices.SortStableFunc(elems, func(a, b Element) int { return cmp.Compare(a.Z, b.Z) })
	Renumber(elems)
}

// Renumber assigns Z = index+1, treating the current slice order as the
// paint order. Use it after splicing elements into place.
func Renumber(elems []Element) {
	for i := range elems {
		elems[i].Z = i + 1
	}
}

// Bounds returns the bounding box of the given elements.
func Bounds(elems []Element) (geom.Rect, bool) {
	rects := make([]geom.Rect, len(elems))
	for i, e := range elems {
		rects[i] = e.Rect()
	}
	return geom.BoundingBox(rects)
}

// Select returns copies of the elements with the given ids, in paint order.
func Select(elems []Element, ids []string) []Element {
	var out []Element
	for _, e := range elems {
		if slices.Contains(ids, e.ID) {
			out = append(out, e)
		}
	}
	return out
}
