package interact

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/mockup/pkg/geom"
	"github.com/matzehuels/mockup/pkg/scene"
)

var (
	// ErrLocked is returned by [Begin] when the pressed element is locked
	// directly, through an ancestor, or through its screen.
	ErrLocked = errors.New("element is locked")

	// ErrUnknownElement is returned by [Begin] when the pressed element is
	// not on the screen.
	ErrUnknownElement = errors.New("unknown element")

	// ErrGestureEnded is returned when a finished gesture is used again.
	ErrGestureEnded = errors.New("gesture already ended")
)

// Mode is the kind of transform a gesture performs.
type Mode string

const (
	Move   Mode = "move"
	Resize Mode = "resize"
)

// ParseMode converts a string to a Mode; empty means Move.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case Move, Resize:
		return m, nil
	case "":
		return Move, nil
	default:
		return "", fmt.Errorf("unknown transform mode %q", s)
	}
}

// Handle identifies the resize handle that was grabbed, as a compass point.
// The zero value behaves as [HandleSE].
type Handle string

const (
	HandleN  Handle = "n"
	HandleS  Handle = "s"
	HandleE  Handle = "e"
	HandleW  Handle = "w"
	HandleNE Handle = "ne"
	HandleNW Handle = "nw"
	HandleSE Handle = "se"
	HandleSW Handle = "sw"
)

// ParseHandle validates a handle name.
func ParseHandle(s string) (Handle, error) {
	switch h := Handle(strings.ToLower(s)); h {
	case HandleN, HandleS, HandleE, HandleW, HandleNE, HandleNW, HandleSE, HandleSW:
		return h, nil
	case "":
		return HandleSE, nil
	default:
		return "", fmt.Errorf("unknown resize handle %q", s)
	}
}

func (h Handle) edges() (left, right, top, bottom bool) {
	if h == "" {
		h = HandleSE
	}
	s := string(h)
	return strings.Contains(s, "w"), strings.Contains(s, "e"),
		strings.Contains(s, "n"), strings.Contains(s, "s")
}

// frame is the drag's reference geometry for one moving element.
type frame struct {
	idx    int
	origin geom.Rect
}

// Gesture is one pointer-down → move → up interaction.
//
// A gesture works on a private clone of the screen taken at pointer-down, so
// live drag state never touches the committed document and history only sees
// the state before and after the whole gesture. [Gesture.Apply] runs at
// input rate and does not allocate.
type Gesture struct {
	mode   Mode
	handle Handle
	target string
	grid   scene.Grid

	work   *scene.Screen
	frames []frame
	anchor geom.Rect

	// applies is false for a resize started with several elements selected:
	// deltas are still computed but never written.
	applies bool

	dx, dy float64
	ended  bool
}

// Begin starts a gesture on screen for the pressed element.
//
// For [Move], the moving set is every selected element plus all descendants;
// elements that are themselves locked stay put. For [Resize], only the
// pressed element is affected, and only when it is the sole selection.
// If target is not part of selected, the gesture acts as if it were the only
// selected element.
func Begin(screen *scene.Screen, selected []string, target string, mode Mode, handle Handle, grid scene.Grid) (*Gesture, error) {
	if !screen.Has(target) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownElement, target)
	}
	if scene.IsLocked(screen, target) {
		return nil, fmt.Errorf("%w: %s", ErrLocked, target)
	}
	if !slices.Contains(selected, target) {
		selected = []string{target}
	}

	work := screen.Clone()
	g := &Gesture{
		mode:    mode,
		handle:  handle,
		target:  target,
		grid:    grid,
		work:    work,
		applies: true,
	}
	anchor, _ := work.Element(target)
	g.anchor = anchor.Rect()

	switch mode {
	case Resize:
		g.applies = len(selected) == 1
		g.frames = []frame{{idx: work.Index(target), origin: g.anchor}}
	default:
		for _, id := range scene.WithDescendants(work.Elements, selected) {
			if scene.IsLocked(work, id) {
				continue
			}
			i := work.Index(id)
			g.frames = append(g.frames, frame{idx: i, origin: work.Elements[i].Rect()})
		}
	}
	return g, nil
}

// Mode returns the gesture's transform mode.
func (g *Gesture) Mode() Mode { return g.mode }

// Target returns the id of the pressed element.
func (g *Gesture) Target() string { return g.target }

// ScreenID returns the id of the screen being transformed.
func (g *Gesture) ScreenID() string { return g.work.ID }

// Applies reports whether deltas are written to the working screen.
func (g *Gesture) Applies() bool { return g.applies }

// Delta returns the last pointer delta in document units.
func (g *Gesture) Delta() (dx, dy float64) { return g.dx, g.dy }

// Live returns the working screen with the in-progress geometry. It must be
// treated as read-only.
func (g *Gesture) Live() *scene.Screen { return g.work }

// Apply sets the pointer delta since pointer-down, in screen pixels. The
// delta is divided by scale so the distance moved is independent of zoom.
// Every call is relative to the snapshot, not to the previous call.
func (g *Gesture) Apply(dx, dy, scale float64) error {
	if g.ended {
		return ErrGestureEnded
	}
	if scale <= 0 {
		scale = 1
	}
	g.dx, g.dy = dx/scale, dy/scale
	if !g.applies {
		return nil
	}
	if g.mode == Resize {
		g.resize()
		return nil
	}
	g.move()
	return nil
}

// move snaps the pressed element from its snapped origin and shifts the whole
// moving set by the same effective delta, preserving relative offsets.
func (g *Gesture) move() {
	size, on := g.grid.Size, g.grid.Enabled
	nx := geom.Snap(geom.Snap(g.anchor.X, size, on)+g.dx, size, on)
	ny := geom.Snap(geom.Snap(g.anchor.Y, size, on)+g.dy, size, on)
	ex, ey := nx-g.anchor.X, ny-g.anchor.Y
	for _, f := range g.frames {
		g.work.Elements[f.idx].SetRect(f.origin.Translate(ex, ey))
	}
}

func (g *Gesture) resize() {
	size, on := g.grid.Size, g.grid.Enabled
	left, right, top, bottom := g.handle.edges()
	f := g.frames[0]
	r := f.origin

	switch {
	case right:
		r.Width = geom.ClampSize(geom.Snap(f.origin.Width+g.dx, size, on))
	case left:
		r.Width = geom.ClampSize(geom.Snap(f.origin.Width-g.dx, size, on))
		r.X = f.origin.Right() - r.Width
	}
	switch {
	case bottom:
		r.Height = geom.ClampSize(geom.Snap(f.origin.Height+g.dy, size, on))
	case top:
		r.Height = geom.ClampSize(geom.Snap(f.origin.Height-g.dy, size, on))
		r.Y = f.origin.Bottom() - r.Height
	}
	g.work.Elements[f.idx].SetRect(r)
}

// End finishes the gesture and returns the screen to commit as one document
// update. There is no abort: the only way back is a later undo.
func (g *Gesture) End() (*scene.Screen, error) {
	if g.ended {
		return nil, ErrGestureEnded
	}
	g.ended = true
	return g.work, nil
}
