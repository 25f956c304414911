// Package scene provides the hierarchical element model behind mockup
// screens.
//
// # Overview
//
// A [Document] is an ordered set of [Screen] values. Each screen holds a flat
// slice of [Element] values; the element tree is expressed through ParentID
// back-references (an arena with index links) rather than pointers. This keeps
// snapshots trivially serializable and makes invariant checks simple linear
// scans. Ancestry and descendant queries are O(n) scans; an adjacency index
// could be added later without changing semantics.
//
// # Invariants
//
//   - ParentID, if set, references another element on the same screen.
//   - Parent chains never contain cycles.
//   - The slice order is the paint order and Z is dense 1..N after every
//     structural change ([ReindexZ], [Renumber]).
//   - Only [TypeGroup] elements accept "into" drops.
//   - Visibility is inherited ([IsVisible]); lock is not, but an ancestor or
//     screen lock still blocks transforms ([IsLocked]).
//
// [Screen.Validate] checks all of them and is used at import boundaries.
//
// # Concurrency
//
// Nothing in this package is safe for concurrent mutation. The editor owns a
// single writer and treats committed screens as immutable, editing clones.
//
// # Related Packages
//
// The [edit] subpackage implements the tree editing operations (group,
// ungroup, reparent, duplicate, delete, lock, hide) on top of this model.
//
// [edit]: github.com/matzehuels/mockup/pkg/scene/edit
package scene
