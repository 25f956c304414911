// Package edit implements invariant-preserving tree edits on a single
// [scene.Screen].
//
// Every function mutates the screen it is given and leaves it satisfying
// [scene.Screen.Validate]. Callers that need the previous state (the editor,
// for history) pass a clone. Operations that would violate a structural
// invariant, such as a drop that creates a parent cycle or an "into" drop on
// a non-group, are rejected as no-ops and report false; they never return an
// error because they are reachable through ordinary interaction.
//
// # Operations
//
//   - [Group] and [Ungroup] create and dissolve groups
//   - [Reparent] handles layer-panel drag and drop (into, before, after)
//   - [Duplicate] and [Delete] cascade over descendants
//   - [ToggleLock] and [ToggleHidden] flip flags on selected roots
//   - [Drop] and [AddGroup] insert new elements on top of the paint order
//
// Fresh identifiers come from an [IDFunc], normally backed by uuid.
package edit

// IDFunc returns a new, unique element id.
type IDFunc func() string
