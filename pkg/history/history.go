package history

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mockup/pkg/cache"
	"github.com/matzehuels/mockup/pkg/scene"
)

// DefaultCapacity is the per-stack entry limit.
const DefaultCapacity = 50

// Stack names one of a screen's two stacks.
type Stack string

const (
	Past   Stack = "past"
	Future Stack = "future"
)

// ParseStack validates a stack name.
func ParseStack(s string) (Stack, error) {
	switch st := Stack(s); st {
	case Past, Future:
		return st, nil
	default:
		return "", fmt.Errorf("unknown history stack %q (want past or future)", s)
	}
}

// Entry is one captured screen state.
type Entry struct {
	Snapshot  *scene.Screen `json:"snapshot"`
	Label     string        `json:"label"`
	Timestamp time.Time     `json:"timestamp"`
}

// Stacks is the history of one screen. Past is ordered oldest first; Future
// is ordered nearest first, so Future[0] is what a redo would restore.
type Stacks struct {
	Past   []Entry `json:"past"`
	Future []Entry `json:"future"`
}

type state struct {
	Stacks
	hash string
	last *scene.Screen // nil until the first observation
}

// Engine tracks history for every screen of a document.
type Engine struct {
	capacity int
	now      func() time.Time
	logger   *log.Logger
	screens  map[string]*state
}

// Option configures an Engine.
type Option func(*Engine)

// WithCapacity sets the per-stack limit. Values below 1 are ignored.
func WithCapacity(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.capacity = n
		}
	}
}

// WithClock sets the time source for entry timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		capacity: DefaultCapacity,
		now:      time.Now,
		logger:   log.Default(),
		screens:  make(map[string]*state),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Capacity returns the per-stack limit.
func (e *Engine) Capacity() int { return e.capacity }

// StructuralHash hashes the parts of s that history tracks: its elements,
// background and viewport.
func StructuralHash(s *scene.Screen) string {
	elems := s.Elements
	if elems == nil {
		elems = []scene.Element{}
	}
	h, err := cache.HashJSON(struct {
		Elements   []scene.Element `json:"elements"`
		Background string          `json:"background"`
		Viewport   scene.Viewport  `json:"viewport"`
	}{elems, s.Background, s.Viewport})
	if err != nil {
		// Payloads hold JSON-compatible values only; an unencodable value
		// must still count as a change.
		return fmt.Sprintf("unhashable:%p", s)
	}
	return h
}

// Observe is called with every committed state of a screen. The first call
// for a screen records a baseline. Later calls whose structural hash differs
// from the previous observation push the previous state onto the past stack,
// clear the future stack and return the derived label with recorded=true.
//
// s is cloned; the caller may keep mutating its copy.
func (e *Engine) Observe(s *scene.Screen) (label string, recorded bool) {
	st := e.state(s.ID)
	h := StructuralHash(s)
	if st.last == nil {
		st.hash, st.last = h, s.Clone()
		return "", false
	}
	if h == st.hash {
		// Untracked fields (name, lock) still follow the latest commit.
		st.last = s.Clone()
		return "", false
	}

	label = Label(st.last, s)
	st.Past = e.pushPast(st.Past, Entry{Snapshot: st.last, Label: label, Timestamp: e.now()})
	st.Future = nil
	st.hash, st.last = h, s.Clone()

	e.logger.Debug("history recorded", "screen", s.ID, "label", label, "past", len(st.Past))
	return label, true
}

// Undo steps current's screen one entry back. It returns the state to commit
// and true, or nil and false when there is nothing to undo. The current state
// moves to the front of the future stack under the undone entry's label.
func (e *Engine) Undo(current *scene.Screen) (*scene.Screen, bool) {
	st, ok := e.prepare(current)
	if !ok || len(st.Past) == 0 {
		return nil, false
	}
	snap := e.undo(st, current)
	e.rebaseline(st, snap)
	e.logger.Debug("history undo", "screen", current.ID, "past", len(st.Past), "future", len(st.Future))
	return snap.Clone(), true
}

// Redo is the inverse of [Engine.Undo].
func (e *Engine) Redo(current *scene.Screen) (*scene.Screen, bool) {
	st, ok := e.prepare(current)
	if !ok || len(st.Future) == 0 {
		return nil, false
	}
	snap := e.redo(st, current)
	e.rebaseline(st, snap)
	e.logger.Debug("history redo", "screen", current.ID, "past", len(st.Past), "future", len(st.Future))
	return snap.Clone(), true
}

// Jump travels directly to an entry. For [Past], index counts from the
// oldest entry and every state after it moves to the future stack. For
// [Future], index counts from the nearest entry and every state up to it
// moves to the past stack. It returns false for an out-of-range index.
func (e *Engine) Jump(current *scene.Screen, index int, which Stack) (*scene.Screen, bool) {
	st, ok := e.prepare(current)
	if !ok || index < 0 {
		return nil, false
	}

	var steps int
	var step func(*state, *scene.Screen) *scene.Screen
	switch which {
	case Past:
		if index >= len(st.Past) {
			return nil, false
		}
		steps, step = len(st.Past)-index, e.undo
	case Future:
		if index >= len(st.Future) {
			return nil, false
		}
		steps, step = index+1, e.redo
	default:
		return nil, false
	}

	snap := current
	for range steps {
		snap = step(st, snap)
	}
	e.rebaseline(st, snap)
	e.logger.Debug("history jump", "screen", current.ID, "stack", which, "index", index, "steps", steps)
	return snap.Clone(), true
}

// CanUndo reports whether screenID has a past entry.
func (e *Engine) CanUndo(screenID string) bool {
	st, ok := e.screens[screenID]
	return ok && len(st.Past) > 0
}

// CanRedo reports whether screenID has a future entry.
func (e *Engine) CanRedo(screenID string) bool {
	st, ok := e.screens[screenID]
	return ok && len(st.Future) > 0
}

// List returns a copy of screenID's stacks. Snapshots are shared with the
// engine and must not be modified.
func (e *Engine) List(screenID string) Stacks {
	st, ok := e.screens[screenID]
	if !ok {
		return Stacks{Past: []Entry{}, Future: []Entry{}}
	}
	return Stacks{
		Past:   append([]Entry{}, st.Past...),
		Future: append([]Entry{}, st.Future...),
	}
}

// Tracked returns the number of screens with history state.
func (e *Engine) Tracked() int { return len(e.screens) }

// Forget drops all state for screenID.
func (e *Engine) Forget(screenID string) {
	delete(e.screens, screenID)
}

// Retain drops state for every screen not in ids.
func (e *Engine) Retain(ids []string) {
	keep := make(map[string]bool, len(ids))
	for _, id := range ids {
		keep[id] = true
	}
	for id := range e.screens {
		if !keep[id] {
			delete(e.screens, id)
		}
	}
}

// Export returns every screen's stacks for persistence.
func (e *Engine) Export() map[string]Stacks {
	out := make(map[string]Stacks, len(e.screens))
	for id := range e.screens {
		out[id] = e.List(id)
	}
	return out
}

// Restore replaces all state with stacks, trimmed to capacity. Restored
// screens have no baseline until their next [Engine.Observe].
func (e *Engine) Restore(stacks map[string]Stacks) {
	e.screens = make(map[string]*state, len(stacks))
	for id, s := range stacks {
		st := &state{}
		for _, en := range s.Past {
			if en.Snapshot != nil {
				st.Past = e.pushPast(st.Past, en)
			}
		}
		for _, en := range s.Future {
			if en.Snapshot != nil && len(st.Future) < e.capacity {
				st.Future = append(st.Future, en)
			}
		}
		e.screens[id] = st
	}
}

func (e *Engine) state(id string) *state {
	st, ok := e.screens[id]
	if !ok {
		st = &state{}
		e.screens[id] = st
	}
	return st
}

// prepare flushes an unobserved edit in current before a replay, so it is
// undoable like any other.
func (e *Engine) prepare(current *scene.Screen) (*state, bool) {
	if current == nil {
		return nil, false
	}
	st, ok := e.screens[current.ID]
	if !ok {
		return nil, false
	}
	e.Observe(current)
	return st, true
}

func (e *Engine) undo(st *state, current *scene.Screen) *scene.Screen {
	n := len(st.Past) - 1
	en := st.Past[n]
	st.Past = st.Past[:n]
	st.Future = e.pushFuture(st.Future, Entry{Snapshot: current.Clone(), Label: en.Label, Timestamp: e.now()})
	return en.Snapshot
}

func (e *Engine) redo(st *state, current *scene.Screen) *scene.Screen {
	en := st.Future[0]
	st.Future = st.Future[1:]
	st.Past = e.pushPast(st.Past, Entry{Snapshot: current.Clone(), Label: en.Label, Timestamp: e.now()})
	return en.Snapshot
}

func (e *Engine) rebaseline(st *state, s *scene.Screen) {
	st.hash, st.last = StructuralHash(s), s.Clone()
}

func (e *Engine) pushPast(past []Entry, en Entry) []Entry {
	past = append(past, en)
	if over := len(past) - e.capacity; over > 0 {
		past = append(past[:0:0], past[over:]...)
	}
	return past
}

func (e *Engine) pushFuture(future []Entry, en Entry) []Entry {
	future = append([]Entry{en}, future...)
	if len(future) > e.capacity {
		future = future[:e.capacity]
	}
	return future
}
