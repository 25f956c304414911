// Package observability provides hooks for metrics, tracing and logging.
//
// Instrumentation is optional and backend-agnostic: consumers register hook
// implementations at startup and the libraries call whatever is registered.
// The defaults are no-ops.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetEditorHooks(&myEditorHooks{})
//	    observability.SetStoreHooks(&myStoreHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Editor().OnCommit(screenID, "group", elapsed)
//	observability.Store().OnSave(ctx, "redis", projectID, elements, elapsed, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Editor Hooks
// =============================================================================

// EditorHooks receives events from the editing engine. Editing is in-memory
// and synchronous, so these hooks carry no context.
type EditorHooks interface {
	// OnCommit fires after op replaced a screen in the document.
	OnCommit(screenID, op string, duration time.Duration)

	// OnRecord fires when a commit produced a new history entry.
	OnRecord(screenID, label string, pastLen int)

	// OnReplay fires after an undo, redo or jump was applied.
	OnReplay(screenID, kind string)

	// OnReject fires when an interactive operation was refused as a no-op.
	OnReject(screenID, op, reason string)
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from project stores.
type StoreHooks interface {
	OnLoad(ctx context.Context, backend, projectID string, duration time.Duration, err error)
	OnSave(ctx context.Context, backend, projectID string, elements int, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from the export artifact cache.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopEditorHooks is a no-op implementation of EditorHooks.
type NoopEditorHooks struct{}

func (NoopEditorHooks) OnCommit(string, string, time.Duration) {}
func (NoopEditorHooks) OnRecord(string, string, int)           {}
func (NoopEditorHooks) OnReplay(string, string)                {}
func (NoopEditorHooks) OnReject(string, string, string)        {}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnLoad(context.Context, string, string, time.Duration, error)      {}
func (NoopStoreHooks) OnSave(context.Context, string, string, int, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	editorHooks EditorHooks = NoopEditorHooks{}
	storeHooks  StoreHooks  = NoopStoreHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
	hooksMu     sync.RWMutex
)

// SetEditorHooks registers editor hooks. A nil value is ignored.
func SetEditorHooks(h EditorHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		editorHooks = h
	}
}

// SetStoreHooks registers store hooks. A nil value is ignored.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// SetCacheHooks registers cache hooks. A nil value is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Editor returns the registered editor hooks.
func Editor() EditorHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return editorHooks
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	editorHooks = NoopEditorHooks{}
	storeHooks = NoopStoreHooks{}
	cacheHooks = NoopCacheHooks{}
}
