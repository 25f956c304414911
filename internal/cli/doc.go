// Package cli implements the mockup command-line interface.
//
// Every command loads the project named by --project from the configured
// store, applies one editor operation, and saves the project back together
// with its undo history. Commands that act on elements work on the active
// screen; --screen switches it first, by id or by name.
//
// # Commands
//
//   - init, projects: create and list projects
//   - screen: add, list, use, rename, remove, lock and hide screens
//   - catalog, add: browse the component library and drop items
//   - move, resize, group, ungroup, reparent, duplicate, delete, lock,
//     hide, rename, link, style: edit elements
//   - undo, redo, jump, history: time travel, including an interactive
//     browser (history browse)
//   - tree, export, import: inspect and exchange documents
//   - serve: run the HTTP API
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// logs every commit, history record and store access. Loggers are passed
// through context.Context.
package cli
