package interact

import (
	"fmt"
	"slices"
)

// SelectMode controls how [Selection.Apply] combines ids with the current
// selection.
type SelectMode string

const (
	// Replace discards the current selection. This is a plain click.
	Replace SelectMode = "replace"
	// Toggle flips membership of each id. This is a modifier click.
	Toggle SelectMode = "toggle"
)

// ParseSelectMode converts a string to a SelectMode; empty means Replace.
func ParseSelectMode(s string) (SelectMode, error) {
	switch m := SelectMode(s); m {
	case Replace, Toggle:
		return m, nil
	case "":
		return Replace, nil
	default:
		return "", fmt.Errorf("unknown select mode %q", s)
	}
}

// Scope says what kind of thing is selected. Element and screen selection
// are mutually exclusive.
type Scope int

const (
	ScopeNone Scope = iota
	ScopeElements
	ScopeScreen
)

// Selection is the set of selected element ids on one screen, or a
// screen-level selection.
type Selection struct {
	ScreenID string
	IDs      []string
	Scope    Scope
}

// Apply updates the selection for screenID. Switching screens always starts
// from an empty selection.
func (s *Selection) Apply(screenID string, ids []string, mode SelectMode) {
	if s.ScreenID != screenID || s.Scope != ScopeElements {
		s.ScreenID = screenID
		s.IDs = nil
	}
	s.Scope = ScopeElements
	switch mode {
	case Toggle:
		for _, id := range ids {
			if i := slices.Index(s.IDs, id); i >= 0 {
				s.IDs = slices.Delete(s.IDs, i, i+1)
			} else {
				s.IDs = append(s.IDs, id)
			}
		}
	default:
		s.IDs = nil
		for _, id := range ids {
			if !slices.Contains(s.IDs, id) {
				s.IDs = append(s.IDs, id)
			}
		}
	}
	if len(s.IDs) == 0 {
		s.Scope = ScopeNone
	}
}

// SelectScreen switches to screen-level selection, dropping element ids.
func (s *Selection) SelectScreen(screenID string) {
	s.ScreenID = screenID
	s.IDs = nil
	s.Scope = ScopeScreen
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.IDs = nil
	s.Scope = ScopeNone
}

// Contains reports whether id is selected.
func (s *Selection) Contains(id string) bool {
	return s.Scope == ScopeElements && slices.Contains(s.IDs, id)
}

// Len returns the number of selected elements.
func (s *Selection) Len() int {
	if s.Scope != ScopeElements {
		return 0
	}
	return len(s.IDs)
}

// Retain drops ids for which keep returns false, typically after a delete or
// an undo removed them from the screen.
func (s *Selection) Retain(keep func(id string) bool) {
	s.IDs = slices.DeleteFunc(s.IDs, func(id string) bool { return !keep(id) })
	if s.Scope == ScopeElements && len(s.IDs) == 0 {
		s.Scope = ScopeNone
	}
}

// Snapshot returns a copy of the selected ids.
func (s *Selection) Snapshot() []string {
	if s.Scope != ScopeElements {
		return nil
	}
	return slices.Clone(s.IDs)
}
