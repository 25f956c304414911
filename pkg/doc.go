// Package pkg provides the core libraries of Mockup, an editor for app
// screen mockups.
//
// # Overview
//
// A mockup is a document of screens. Each screen holds a forest of
// positioned elements (rectangles, text, buttons, groups) in paint order.
// The pkg directory is organized into four areas:
//
//  1. Model: [scene] (document, screens, elements, tree queries) and [geom]
//     (rectangles, snapping, resize math)
//  2. Editing: [scene/edit] (tree operations), [interact] (selection and
//     pointer gestures), [history] (per-screen undo with labelled
//     snapshots) and [editor], the facade that ties them together
//  3. Content: [catalog] (components, templates and device presets),
//     [docio] (JSON and YAML documents) and [export] (DOT and SVG diagrams)
//  4. Infrastructure: [store] (project persistence), [cache] (artifact
//     cache and structural hashing), [config], [errors], [observability]
//     and [buildinfo]
//
// # Architecture
//
// Every edit follows the same path:
//
//	user operation
//	     ↓
//	[editor] clones the active screen
//	     ↓
//	[scene/edit] or [interact] mutates the clone
//	     ↓
//	the clone replaces the screen in the [scene.Document]
//	     ↓
//	[history] diffs it against the last observed state and records one entry
//
// Screens are never mutated in place once committed, so history snapshots
// and cached exports can share them safely.
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/mockup/pkg/editor"
//	    "github.com/matzehuels/mockup/pkg/interact"
//	    "github.com/matzehuels/mockup/pkg/scene"
//	)
//
//	doc := editor.NewDocument("Shop", "mobile", scene.Grid{Size: 8, Enabled: true})
//	ed := editor.New(doc)
//	home := ed.Active().ID
//
//	ids, _ := ed.Drop("button", 24, 24, "")
//	ed.Transform(ids[0], interact.Move, "", 16, 0)
//	ed.Undo(home)
//
// # Persistence
//
// [store.Store] saves a project (document plus history stacks) to memory,
// files, SQLite, Redis or MongoDB. Use [store.Open] with a [store.Config]
// to pick a backend from configuration.
package pkg
