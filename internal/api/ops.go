package api

import (
	"github.com/matzehuels/mockup/pkg/editor"
	mkerrors "github.com/matzehuels/mockup/pkg/errors"
	"github.com/matzehuels/mockup/pkg/geom"
	"github.com/matzehuels/mockup/pkg/interact"
	"github.com/matzehuels/mockup/pkg/scene"
	"github.com/matzehuels/mockup/pkg/scene/edit"
)

// Op is one editor operation, the body of POST .../ops. Op names the
// operation; which other fields apply depends on it. Screen, when set, makes
// that screen active first; element operations act on the active screen.
type Op struct {
	Op     string   `json:"op"`
	Screen string   `json:"screen,omitempty"`
	ID     string   `json:"id,omitempty"`
	IDs    []string `json:"ids,omitempty"`

	// select
	Mode string `json:"mode,omitempty"`

	// move, resize
	Handle string  `json:"handle,omitempty"`
	DX     float64 `json:"dx,omitempty"`
	DY     float64 `json:"dy,omitempty"`

	// drop, add-group
	Item   string  `json:"item,omitempty"`
	Parent string  `json:"parent,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`

	// reparent, link
	Target   string `json:"target,omitempty"`
	Position string `json:"position,omitempty"`

	Name         string         `json:"name,omitempty"`
	Device       string         `json:"device,omitempty"`
	Values       scene.Payload  `json:"values,omitempty"`
	Color        string         `json:"color,omitempty"`
	Viewport     scene.Viewport `json:"viewport,omitzero"`
	Grid         *scene.Grid    `json:"grid,omitempty"`
	Collapsed    bool           `json:"collapsed,omitempty"`
	KeepChildren bool           `json:"keep_children,omitempty"`
}

// apply runs op and returns its result and whether the document changed.
func apply(ed *editor.Editor, op Op) (any, bool, error) {
	active := ""
	if a := ed.Active(); a != nil {
		active = a.ID
	}

	switch op.Op {
	case "select":
		mode, err := interact.ParseSelectMode(op.Mode)
		if err != nil {
			return nil, false, invalid(err)
		}
		return nil, false, ed.Select(active, op.IDs, mode)
	case "select-screen":
		return nil, false, ed.SelectScreen(active)

	case "move", "resize":
		mode, err := interact.ParseMode(op.Op)
		if err != nil {
			return nil, false, invalid(err)
		}
		handle := interact.Handle("")
		if mode == interact.Resize {
			if handle, err = interact.ParseHandle(op.Handle); err != nil {
				return nil, false, invalid(err)
			}
		}
		anchor := op.ID
		if len(op.IDs) > 0 {
			if err := ed.Select(active, op.IDs, interact.Replace); err != nil {
				return nil, false, err
			}
			if anchor == "" {
				anchor = op.IDs[0]
			}
		}
		return nil, ed.Transform(anchor, mode, handle, op.DX, op.DY), nil

	case "group":
		id := ed.Group(op.IDs)
		return result(id), id != "", nil
	case "add-group":
		id := ed.AddGroup(op.Name, geom.Rect{X: op.X, Y: op.Y, Width: op.Width, Height: op.Height})
		return result(id), id != "", nil
	case "ungroup":
		return nil, ed.Ungroup(op.ID), nil
	case "reparent":
		pos, err := edit.ParsePosition(op.Position)
		if err != nil {
			return nil, false, invalid(err)
		}
		return nil, ed.Reparent(op.ID, op.Target, pos), nil
	case "duplicate":
		ids := ed.Duplicate(op.IDs)
		return ids, len(ids) > 0, nil
	case "delete":
		if op.KeepChildren {
			return nil, ed.DeleteKeepChildren(op.ID), nil
		}
		n := ed.Delete(op.IDs)
		return n, n > 0, nil
	case "lock":
		locked, ok := ed.ToggleLock(op.IDs)
		return map[string]bool{"locked": locked}, ok, nil
	case "hide":
		n := ed.ToggleHidden(op.IDs)
		return n, n > 0, nil
	case "drop":
		ids, err := ed.Drop(op.Item, op.X, op.Y, op.Parent)
		if err != nil {
			return nil, false, err
		}
		return ids, len(ids) > 0, nil
	case "rename":
		return nil, ed.Rename(op.ID, op.Name), nil
	case "link":
		return nil, ed.SetLink(op.ID, op.Target), nil
	case "collapse":
		return nil, ed.SetCollapsed(op.ID, op.Collapsed), nil
	case "style":
		return nil, ed.SetStyle(op.ID, op.Values), nil
	case "props":
		return nil, ed.SetProps(op.ID, op.Values), nil
	case "navigate":
		target := ed.Navigate(op.ID)
		return result(target), false, nil

	case "background":
		if err := mkerrors.ValidateColor(op.Color); err != nil {
			return nil, false, err
		}
		return nil, ed.SetBackground(op.Color), nil
	case "viewport":
		return nil, ed.SetViewport(op.Viewport), nil
	case "grid":
		return nil, ed.SetGrid(op.Grid), nil
	case "add-screen":
		id, err := ed.AddScreen(op.Name, op.Device)
		if err != nil {
			return nil, false, err
		}
		return result(id), true, nil
	case "remove-screen":
		if len(ed.Document().Screens) == 1 {
			return nil, false, mkerrors.New(mkerrors.ErrCodeInvalidInput, "cannot remove the last screen")
		}
		return nil, true, ed.RemoveScreen(active)
	case "rename-screen":
		return nil, true, ed.RenameScreen(active, op.Name)
	case "lock-screen":
		locked, err := ed.ToggleScreenLock(active)
		return map[string]bool{"locked": locked}, err == nil, err
	case "hide-screen":
		hidden, err := ed.ToggleScreenHidden(active)
		return map[string]bool{"hidden": hidden}, err == nil, err

	case "":
		return nil, false, mkerrors.New(mkerrors.ErrCodeInvalidInput, "missing op")
	default:
		return nil, false, mkerrors.New(mkerrors.ErrCodeUnsupported, "unknown op %q", op.Op)
	}
}

func invalid(err error) error {
	return mkerrors.Wrap(mkerrors.ErrCodeInvalidInput, err, "invalid op")
}

// result omits empty ids from the response.
func result(id string) any {
	if id == "" {
		return nil
	}
	return map[string]string{"id": id}
}
