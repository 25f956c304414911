package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks implements every hook interface by writing debug-level structured
// log lines. The CLI registers it when --verbose is set.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks writing to l, or to the default logger if l is nil.
func NewLogHooks(l *log.Logger) *LogHooks {
	if l == nil {
		l = log.Default()
	}
	return &LogHooks{Logger: l}
}

// Register installs h for every hook category.
func (h *LogHooks) Register() {
	SetEditorHooks(h)
	SetStoreHooks(h)
	SetCacheHooks(h)
}

func (h *LogHooks) OnCommit(screenID, op string, d time.Duration) {
	h.Logger.Debug("commit", "screen", screenID, "op", op, "duration", d)
}

func (h *LogHooks) OnRecord(screenID, label string, pastLen int) {
	h.Logger.Debug("history entry", "screen", screenID, "label", label, "past", pastLen)
}

func (h *LogHooks) OnReplay(screenID, kind string) {
	h.Logger.Debug("history replay", "screen", screenID, "kind", kind)
}

func (h *LogHooks) OnReject(screenID, op, reason string) {
	h.Logger.Debug("rejected", "screen", screenID, "op", op, "reason", reason)
}

func (h *LogHooks) OnLoad(_ context.Context, backend, id string, d time.Duration, err error) {
	h.Logger.Debug("project loaded", "backend", backend, "project", id, "duration", d, "err", err)
}

func (h *LogHooks) OnSave(_ context.Context, backend, id string, elements int, d time.Duration, err error) {
	h.Logger.Debug("project saved", "backend", backend, "project", id, "elements", elements, "duration", d, "err", err)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

var (
	_ EditorHooks = (*LogHooks)(nil)
	_ StoreHooks  = (*LogHooks)(nil)
	_ CacheHooks  = (*LogHooks)(nil)
)
