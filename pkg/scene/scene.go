package scene

import (
	"errors"
	"maps"
	"slices"

	"github.com/matzehuels/mockup/pkg/geom"
)

var (
	// ErrInvalidElementID is returned by [Screen.Validate] when an element
	// has an empty identifier.
	ErrInvalidElementID = errors.New("element ID must not be empty")

	// ErrDuplicateElementID is returned by [Screen.Validate] when two
	// elements on the same screen share an identifier.
	ErrDuplicateElementID = errors.New("duplicate element ID")

	// ErrUnknownParent is returned by [Screen.Validate] when an element's
	// ParentID does not reference another element on the same screen.
	ErrUnknownParent = errors.New("parent is not an element of this screen")

	// ErrParentCycle is returned by [Screen.Validate] when following
	// ParentID links from some element leads back to that element.
	ErrParentCycle = errors.New("parent chain contains a cycle")

	// ErrSparseZOrder is returned by [Screen.Validate] when Z values are not
	// exactly 1..N in paint order.
	ErrSparseZOrder = errors.New("z-order must be dense 1..N")

	// ErrUnknownScreen is returned by document operations that name a
	// screen id absent from the document. Reaching it indicates an
	// integration bug rather than a user action.
	ErrUnknownScreen = errors.New("unknown screen")

	// ErrDuplicateScreenID is returned by [Document.AddScreen] when the
	// screen id is already in use.
	ErrDuplicateScreenID = errors.New("duplicate screen ID")
)

// ElementType is the type tag of an element.
type ElementType string

// Leaf kinds render something; structural kinds only own children.
const (
	TypeRect      ElementType = "rect"
	TypeText      ElementType = "text"
	TypeButton    ElementType = "button"
	TypeImage     ElementType = "image"
	TypeInput     ElementType = "input"
	TypeIcon      ElementType = "icon"
	TypeLine      ElementType = "line"
	TypeGroup     ElementType = "group"
	TypeContainer ElementType = "container"
)

// IsStructural reports whether t is a group or container.
func (t ElementType) IsStructural() bool {
	return t == TypeGroup || t == TypeContainer
}

// Payload is an opaque map of type-specific data carried by an element.
// The engine never interprets payload keys; it only compares and copies them.
type Payload map[string]any

// Clone returns a deep copy of p. Nested maps and slices produced by JSON or
// YAML decoding are copied as well, so snapshots never alias live data.
func (p Payload) Clone() Payload {
	if p == nil {
		return nil
	}
	out := make(Payload, len(p))
	for k, v := range p {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return map[string]any(Payload(t).Clone())
	case Payload:
		return t.Clone()
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

// Element is a single positioned node on a screen.
//
// Elements live in a flat slice on their [Screen]; the tree is expressed by
// ParentID back-references. The slice order is the paint order and Z mirrors
// it as 1..N after every structural change.
type Element struct {
	ID     string      `json:"id" yaml:"id"`
	Type   ElementType `json:"type" yaml:"type"`
	Name   string      `json:"name,omitempty" yaml:"name,omitempty"`
	X      float64     `json:"x" yaml:"x"`
	Y      float64     `json:"y" yaml:"y"`
	Width  float64     `json:"width" yaml:"width"`
	Height float64     `json:"height" yaml:"height"`
	Z      int         `json:"z" yaml:"z"`

	// ParentID is a weak reference to another element on the same screen.
	ParentID string `json:"parentId,omitempty" yaml:"parentId,omitempty"`

	Locked    bool `json:"locked,omitempty" yaml:"locked,omitempty"`
	Hidden    bool `json:"hidden,omitempty" yaml:"hidden,omitempty"`
	Collapsed bool `json:"collapsed,omitempty" yaml:"collapsed,omitempty"` // layer panel only

	Style Payload `json:"style,omitempty" yaml:"style,omitempty"`
	Props Payload `json:"props,omitempty" yaml:"props,omitempty"`

	// Link is the id of the screen a click on this element navigates to in
	// prototype mode. Empty means the element is not a hotspot.
	Link string `json:"link,omitempty" yaml:"link,omitempty"`
}

// Rect returns the element's geometry.
func (e Element) Rect() geom.Rect {
	return geom.Rect{X: e.X, Y: e.Y, Width: e.Width, Height: e.Height}
}

// SetRect overwrites the element's geometry.
func (e *Element) SetRect(r geom.Rect) {
	e.X, e.Y, e.Width, e.Height = r.X, r.Y, r.Width, r.Height
}

// IsGroup reports whether the element accepts "into" drops.
func (e Element) IsGroup() bool { return e.Type == TypeGroup }

// DisplayName returns Name, or the type tag when the element is unnamed.
func (e Element) DisplayName() string {
	if e.Name != "" {
		return e.Name
	}
	return string(e.Type)
}

// Clone returns a deep copy of e.
func (e Element) Clone() Element {
	e.Style = e.Style.Clone()
	e.Props = e.Props.Clone()
	return e
}

// Viewport is the device frame size of a screen.
type Viewport struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Grid configures snapping.
type Grid struct {
	Size    float64 `json:"size" yaml:"size"`
	Enabled bool    `json:"enabled" yaml:"enabled"`
}

// Screen is one editable canvas: an element forest plus background and
// viewport.
//
// Screen is not safe for concurrent use. The editor treats committed screens
// as immutable values and mutates clones.
type Screen struct {
	ID         string    `json:"id" yaml:"id"`
	Name       string    `json:"name" yaml:"name"`
	Background string    `json:"background,omitempty" yaml:"background,omitempty"`
	Viewport   Viewport  `json:"viewport" yaml:"viewport"`
	Grid       *Grid     `json:"grid,omitempty" yaml:"grid,omitempty"`
	Elements   []Element `json:"elements" yaml:"elements"`
	Locked     bool      `json:"locked,omitempty" yaml:"locked,omitempty"`
	Hidden     bool      `json:"hidden,omitempty" yaml:"hidden,omitempty"`
}

// Clone returns a deep copy of s.
func (s *Screen) Clone() *Screen {
	if s == nil {
		return nil
	}
	c := *s
	if s.Grid != nil {
		g := *s.Grid
		c.Grid = &g
	}
	c.Elements = make([]Element, len(s.Elements))
	for i, e := range s.Elements {
		c.Elements[i] = e.Clone()
	}
	return &c
}

// Index returns the slice position of the element with the given id, or -1.
func (s *Screen) Index(id string) int {
	return indexOf(s.Elements, id)
}

// Element returns a pointer to the element with the given id and true, or nil
// and false. The pointer refers into the screen's slice and is invalidated by
// any operation that reorders or resizes it.
func (s *Screen) Element(id string) (*Element, bool) {
	i := s.Index(id)
	if i < 0 {
		return nil, false
	}
	return &s.Elements[i], true
}

// Has reports whether an element with the given id exists on s.
func (s *Screen) Has(id string) bool { return s.Index(id) >= 0 }

// ElementIDs returns the ids of all elements in paint order.
func (s *Screen) ElementIDs() []string {
	ids := make([]string, len(s.Elements))
	for i, e := range s.Elements {
		ids[i] = e.ID
	}
	return ids
}

// MaxZ returns the highest Z on the screen, or 0 when it is empty.
func (s *Screen) MaxZ() int {
	z := 0
	for _, e := range s.Elements {
		z = max(z, e.Z)
	}
	return z
}

// Children returns the ids of the direct children of id in paint order.
func (s *Screen) Children(id string) []string {
	var out []string
	for _, e := range s.Elements {
		if e.ParentID == id {
			out = append(out, e.ID)
		}
	}
	return out
}

func indexOf(elems []Element, id string) int {
	if id == "" {
		return -1
	}
	for i := range elems {
		if elems[i].ID == id {
			return i
		}
	}
	return -1
}

// Document is the full mockup: an ordered set of screens, the active screen
// and the default grid.
type Document struct {
	ID       string    `json:"id" yaml:"id"`
	Name     string    `json:"name" yaml:"name"`
	Screens  []*Screen `json:"screens" yaml:"screens"`
	ActiveID string    `json:"activeId" yaml:"activeId"`
	Grid     Grid      `json:"grid" yaml:"grid"`
	Meta     Payload   `json:"meta,omitempty" yaml:"meta,omitempty"`
}

// NewDocument creates an empty document with the given default grid.
func NewDocument(id, name string, grid Grid) *Document {
	return &Document{ID: id, Name: name, Grid: grid, Meta: Payload{}}
}

// Clone returns a deep copy of d.
func (d *Document) Clone() *Document {
	c := *d
	c.Screens = make([]*Screen, len(d.Screens))
	for i, s := range d.Screens {
		c.Screens[i] = s.Clone()
	}
	c.Meta = d.Meta.Clone()
	return &c
}

// Screen returns the screen with the given id.
func (d *Document) Screen(id string) (*Screen, bool) {
	for _, s := range d.Screens {
		if s.ID == id {
			return s, true
		}
	}
	return nil, false
}

// Active returns the active screen, falling back to the first screen when
// ActiveID is stale. It returns nil for a document without screens.
func (d *Document) Active() *Screen {
	if s, ok := d.Screen(d.ActiveID); ok {
		return s
	}
	if len(d.Screens) > 0 {
		return d.Screens[0]
	}
	return nil
}

// SetActive makes id the active screen.
func (d *Document) SetActive(id string) error {
	if _, ok := d.Screen(id); !ok {
		return ErrUnknownScreen
	}
	d.ActiveID = id
	return nil
}

// AddScreen appends s. The first screen added becomes active.
func (d *Document) AddScreen(s *Screen) error {
	if _, exists := d.Screen(s.ID); exists {
		return ErrDuplicateScreenID
	}
	if s.Elements == nil {
		s.Elements = []Element{}
	}
	d.Screens = append(d.Screens, s)
	if d.ActiveID == "" {
		d.ActiveID = s.ID
	}
	return nil
}

// RemoveScreen deletes the screen with the given id and clears every
// click-through link that targeted it. If it was active, the first remaining
// screen becomes active.
func (d *Document) RemoveScreen(id string) error {
	i := slices.IndexFunc(d.Screens, func(s *Screen) bool { return s.ID == id })
	if i < 0 {
		return ErrUnknownScreen
	}
	d.Screens = slices.Delete(d.Screens, i, i+1)
	for _, s := range d.Screens {
		for j := range s.Elements {
			if s.Elements[j].Link == id {
				s.Elements[j].Link = ""
			}
		}
	}
	if d.ActiveID == id {
		d.ActiveID = ""
		if len(d.Screens) > 0 {
			d.ActiveID = d.Screens[0].ID
		}
	}
	return nil
}

// ReplaceScreen swaps in s for the screen with the same id.
func (d *Document) ReplaceScreen(s *Screen) error {
	for i := range d.Screens {
		if d.Screens[i].ID == s.ID {
			d.Screens[i] = s
			return nil
		}
	}
	return ErrUnknownScreen
}

// ScreenIDs returns the ids of all screens in document order.
func (d *Document) ScreenIDs() []string {
	ids := make([]string, len(d.Screens))
	for i, s := range d.Screens {
		ids[i] = s.ID
	}
	return ids
}

// GridFor returns the effective grid of s: its override if set, otherwise
// the document default.
func (d *Document) GridFor(s *Screen) Grid {
	if s != nil && s.Grid != nil {
		return *s.Grid
	}
	return d.Grid
}

// Links returns, for each screen id, the ids of the screens it links to.
// Targets are deduplicated and sorted.
func (d *Document) Links() map[string][]string {
	out := make(map[string][]string, len(d.Screens))
	for _, s := range d.Screens {
		seen := map[string]bool{}
		for _, e := range s.Elements {
			if e.Link != "" {
				seen[e.Link] = true
			}
		}
		out[s.ID] = slices.Sorted(maps.Keys(seen))
	}
	return out
}
