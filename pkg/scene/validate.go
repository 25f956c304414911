package scene

import (
	"cmp"
	"fmt"
	"slices"
)

// Validate checks the forest invariants of s and returns nil if they hold:
//
//  1. Every element has a unique, non-empty ID
//  2. Every ParentID references another element on s
//  3. No parent chain contains a cycle
//  4. Z values are exactly 1..N
//
// Errors wrap the sentinel values of this package with the offending id.
// Cycle detection runs in O(N) using depth-first search with
// white/gray/black coloring over the parent links.
func (s *Screen) Validate() error {
	seen := make(map[string]bool, len(s.Elements))
	for _, e := range s.Elements {
		if e.ID == "" {
			return ErrInvalidElementID
		}
		if seen[e.ID] {
			return fmt.Errorf("%w: %s", ErrDuplicateElementID, e.ID)
		}
		seen[e.ID] = true
	}
	for _, e := range s.Elements {
		if e.ParentID != "" && (!seen[e.ParentID] || e.ParentID == e.ID) {
			return fmt.Errorf("%w: %s -> %s", ErrUnknownParent, e.ID, e.ParentID)
		}
	}
	if err := s.detectCycles(); err != nil {
		return err
	}
	return s.validateZ()
}

func (s *Screen) detectCycles() error {
	const (
		white = iota
		gray
		black
	)

	parent := make(map[string]string, len(s.Elements))
	for _, e := range s.Elements {
		parent[e.ID] = e.ParentID
	}

	color := make(map[string]int, len(s.Elements))
	for _, e := range s.Elements {
		// Walk the chain marking gray; meeting gray again means a loop.
		var path []string
		id := e.ID
		for id != "" && color[id] == white {
			color[id] = gray
			path = append(path, id)
			id = parent[id]
		}
		if id != "" && color[id] == gray {
			return fmt.Errorf("%w: %s", ErrParentCycle, id)
		}
		for _, p := range path {
			color[p] = black
		}
	}
	return nil
}

func (s *Screen) validateZ() error {
	zs := make([]int, len(s.Elements))
	for i, e := range s.Elements {
		zs[i] = e.Z
	}
	slices.SortFunc(zs, cmp.Compare)
	for i, z := range zs {
		if z != i+1 {
			return fmt.Errorf("%w: found %d at rank %d", ErrSparseZOrder, z, i+1)
		}
	}
	return nil
}

// Validate checks every screen of d and that the active screen exists.
func (d *Document) Validate() error {
	ids := make(map[string]bool, len(d.Screens))
	for _, s := range d.Screens {
		if ids[s.ID] {
			return fmt.Errorf("%w: %s", ErrDuplicateScreenID, s.ID)
		}
		ids[s.ID] = true
		if err := s.Validate(); err != nil {
			return fmt.Errorf("screen %s: %w", s.ID, err)
		}
	}
	if d.ActiveID != "" && !ids[d.ActiveID] {
		return fmt.Errorf("%w: active %s", ErrUnknownScreen, d.ActiveID)
	}
	return nil
}
