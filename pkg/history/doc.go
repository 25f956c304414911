// Package history implements per-screen linear undo/redo with time-travel
// jumps.
//
// # Overview
//
// The [Engine] does not record operations. Instead the caller hands it every
// committed screen through [Engine.Observe]; the engine hashes the parts of the
// screen that matter for editing (elements, background, viewport) and, when
// the hash differs from the last one it saw for that screen, pushes the
// previously observed snapshot onto the screen's past stack under a label
// derived by diffing the two states (see [Label]). A new recording clears the
// future stack, so timelines never branch.
//
// Undo, redo and jump return the snapshot the caller should commit and
// re-baseline the engine on it at the same time. Replays therefore never look
// like user edits, with no shared "replaying" flag to set or clear.
//
// # Capacity
//
// Both stacks are capped ([DefaultCapacity] entries unless configured with
// [WithCapacity]). Overflowing the past stack evicts the oldest entry.
// Overflowing the future stack evicts the entry farthest from the present.
//
// # Lifecycle
//
// State for a screen is created lazily by its first observation, which only
// records a baseline. [Engine.Forget] and [Engine.Retain] drop state for
// screens that no longer exist. [Engine.Export] and [Engine.Restore] move the
// stacks in and out of a persisted project.
//
// # Concurrency
//
// An Engine is not safe for concurrent use. Callers serialize access, as the
// editor does.
package history
