package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mockup/pkg/catalog"
	mkerrors "github.com/matzehuels/mockup/pkg/errors"
	"github.com/matzehuels/mockup/pkg/geom"
	"github.com/matzehuels/mockup/pkg/interact"
	"github.com/matzehuels/mockup/pkg/scene/edit"
)

// catalogCommand lists the components and templates that add accepts.
func (c *CLI) catalogCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List components, templates and device presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := c.newCatalog()
			if err != nil {
				return err
			}
			for _, category := range cat.Categories() {
				fmt.Fprintln(stdout, StyleTitle.Render(category))
				for _, it := range cat.Items() {
					if it.Category != category {
						continue
					}
					kind := string(it.Type)
					if it.IsTemplate() {
						kind = fmt.Sprintf("template, %d parts", len(it.Parts))
					}
					fmt.Fprintf(stdout, "  %-12s %s %s\n", StyleHighlight.Render(it.Key), it.Name,
						StyleDim.Render(fmt.Sprintf("(%s, %gx%g)", kind, it.Width, it.Height)))
				}
			}
			printNewline()
			fmt.Fprintln(stdout, StyleTitle.Render("devices"))
			for _, d := range catalog.Devices() {
				fmt.Fprintf(stdout, "  %-12s %s %s\n", StyleHighlight.Render(d.Key), d.Name,
					StyleDim.Render(fmt.Sprintf("(%gx%g)", d.Viewport.Width, d.Viewport.Height)))
			}
			return nil
		},
	}
}

// addCommand drops a catalog item onto the active screen.
func (c *CLI) addCommand() *cobra.Command {
	var (
		at   string
		into string
		name string
	)
	cmd := &cobra.Command{
		Use:   "add <item>",
		Short: "Drop a component or template onto the active screen",
		Long: `Drop a catalog item at a position, snapped to the grid. Templates such
as navbar or card create a group with their parts inside. Use --into to
drop into an existing group.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, y, err := parsePair("at", at, ",")
			if err != nil {
				return err
			}
			return c.edit(cmd.Context(), func(w *workspace) error {
				parent := ""
				if into != "" {
					if parent, err = w.element(into); err != nil {
						return err
					}
				}
				ids, err := w.editor.Drop(args[0], x, y, parent)
				if err != nil {
					return mkerrors.Wrap(mkerrors.ErrCodeNotFound, err, "catalog item %q", args[0])
				}
				if len(ids) == 0 {
					printNoop(fmt.Sprintf("%s only accepts drops into groups", into))
					return nil
				}
				if name != "" {
					w.editor.Rename(ids[0], name)
				}
				printSuccess("Added %s", w.describe(ids[0]))
				if len(ids) > 1 {
					printDetail("%d parts", len(ids)-1)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&at, "at", "0,0", "top-left position as x,y")
	cmd.Flags().StringVar(&into, "into", "", "group to drop into")
	cmd.Flags().StringVar(&name, "name", "", "name for the new element")
	return cmd
}

// moveCommand drags elements by a delta, as one gesture.
func (c *CLI) moveCommand() *cobra.Command {
	var by string
	cmd := &cobra.Command{
		Use:   "move <element>... --by dx,dy",
		Short: "Drag elements by a delta, snapping to the grid",
		Long: `Drag elements as one gesture. Groups carry their descendants, locked
elements stay put, and the first element is snapped to the grid with the
others keeping their offsets.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dx, dy, err := parsePair("by", by, ",")
			if err != nil {
				return err
			}
			return c.edit(cmd.Context(), func(w *workspace) error {
				ids, err := w.elements(args)
				if err != nil {
					return err
				}
				if err := w.editor.Select(w.active().ID, ids, interact.Replace); err != nil {
					return err
				}
				if !w.editor.Transform(ids[0], interact.Move, "", dx, dy) {
					printNoop("element is locked")
					return nil
				}
				el, _ := w.active().Element(ids[0])
				printSuccess("Moved %s to %g,%g", w.describe(ids[0]), el.X, el.Y)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&by, "by", "", "pointer delta as dx,dy (required)")
	_ = cmd.MarkFlagRequired("by")
	return cmd
}

// resizeCommand drags a resize handle of one element.
func (c *CLI) resizeCommand() *cobra.Command {
	var (
		by     string
		handle string
	)
	cmd := &cobra.Command{
		Use:   "resize <element> --by dx,dy",
		Short: "Drag a resize handle of one element",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dx, dy, err := parsePair("by", by, ",")
			if err != nil {
				return err
			}
			h, err := interact.ParseHandle(handle)
			if err != nil {
				return mkerrors.Wrap(mkerrors.ErrCodeInvalidInput, err, "--handle")
			}
			return c.edit(cmd.Context(), func(w *workspace) error {
				id, err := w.element(args[0])
				if err != nil {
					return err
				}
				if !w.editor.Transform(id, interact.Resize, h, dx, dy) {
					printNoop("element is locked")
					return nil
				}
				el, _ := w.active().Element(id)
				printSuccess("Resized %s to %gx%g", w.describe(id), el.Width, el.Height)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&by, "by", "", "pointer delta as dx,dy (required)")
	cmd.Flags().StringVar(&handle, "handle", "se", "handle: n, s, e, w, ne, nw, se, sw")
	_ = cmd.MarkFlagRequired("by")
	return cmd
}

func (c *CLI) groupCommand() *cobra.Command {
	var (
		empty string
		name  string
	)
	cmd := &cobra.Command{
		Use:   "group [element]...",
		Short: "Wrap elements in a new group",
		Long: `Wrap elements in a new group sized to their bounding box. With --empty
x,y,w,h an empty group is created instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.edit(cmd.Context(), func(w *workspace) error {
				var id string
				if empty != "" {
					r, err := parseRect(empty)
					if err != nil {
						return err
					}
					id = w.editor.AddGroup(name, r)
				} else {
					if len(args) == 0 {
						return mkerrors.New(mkerrors.ErrCodeInvalidInput, "name at least one element, or use --empty")
					}
					ids, err := w.elements(args)
					if err != nil {
						return err
					}
					if id = w.editor.Group(ids); id == "" {
						printNoop("nothing to group")
						return nil
					}
					if name != "" {
						w.editor.Rename(id, name)
					}
				}
				printSuccess("Created group %s", w.describe(id))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&empty, "empty", "", "create an empty group at x,y,w,h")
	cmd.Flags().StringVar(&name, "name", "", "group name")
	return cmd
}

func parseRect(s string) (geom.Rect, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return geom.Rect{}, mkerrors.New(mkerrors.ErrCodeInvalidInput, "--empty: want x,y,w,h, got %q", s)
	}
	x, y, err := parsePair("empty", parts[0]+","+parts[1], ",")
	if err != nil {
		return geom.Rect{}, err
	}
	width, height, err := parsePair("empty", parts[2]+","+parts[3], ",")
	if err != nil {
		return geom.Rect{}, err
	}
	return geom.Rect{X: x, Y: y, Width: width, Height: height}, nil
}

func (c *CLI) ungroupCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ungroup <group>",
		Short: "Dissolve a group, keeping its children",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.edit(cmd.Context(), func(w *workspace) error {
				id, err := w.element(args[0])
				if err != nil {
					return err
				}
				label := w.describe(id)
				if !w.editor.Ungroup(id) {
					printNoop("not a group")
					return nil
				}
				printSuccess("Ungrouped %s", label)
				return nil
			})
		},
	}
}

func (c *CLI) reparentCommand() *cobra.Command {
	var (
		target string
		pos    string
	)
	cmd := &cobra.Command{
		Use:   "reparent <element>",
		Short: "Move an element into a group, or before/after a sibling",
		Long: `Move an element in the layer tree. --position into requires a group
target; before and after place it next to the target in paint order.
Without --target the element moves to the top level.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := edit.ParsePosition(pos)
			if err != nil {
				return mkerrors.Wrap(mkerrors.ErrCodeInvalidInput, err, "--position")
			}
			return c.edit(cmd.Context(), func(w *workspace) error {
				id, err := w.element(args[0])
				if err != nil {
					return err
				}
				tid := ""
				if target != "" {
					if tid, err = w.element(target); err != nil {
						return err
					}
				}
				if !w.editor.Reparent(id, tid, p) {
					printNoop("the move would create a cycle, or the target is not a group")
					return nil
				}
				printSuccess("Moved %s %s %s", w.describe(id), p, target)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&target, "target", "", "drop target element")
	cmd.Flags().StringVar(&pos, "position", string(edit.Into), "into, before or after")
	return cmd
}

func (c *CLI) duplicateCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "duplicate <element>...",
		Aliases: []string{"dup"},
		Short:   "Clone elements with their descendants",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.edit(cmd.Context(), func(w *workspace) error {
				ids, err := w.elements(args)
				if err != nil {
					return err
				}
				for _, id := range w.editor.Duplicate(ids) {
					printSuccess("Duplicated as %s", w.describe(id))
				}
				return nil
			})
		},
	}
}

func (c *CLI) deleteCommand() *cobra.Command {
	var keepChildren bool
	cmd := &cobra.Command{
		Use:     "delete <element>...",
		Aliases: []string{"rm"},
		Short:   "Delete elements and their descendants",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.edit(cmd.Context(), func(w *workspace) error {
				ids, err := w.elements(args)
				if err != nil {
					return err
				}
				if keepChildren {
					if len(ids) != 1 || !w.editor.DeleteKeepChildren(ids[0]) {
						printNoop("--keep-children needs exactly one group")
						return nil
					}
					printSuccess("Deleted group, kept its children")
					return nil
				}
				n := w.editor.Delete(ids)
				printSuccess("Deleted %d element(s)", n)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&keepChildren, "keep-children", false, "delete only the group and keep its children")
	return cmd
}

func (c *CLI) lockCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lock <element>...",
		Short: "Toggle lock: locks all if any is unlocked, otherwise unlocks all",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.edit(cmd.Context(), func(w *workspace) error {
				ids, err := w.elements(args)
				if err != nil {
					return err
				}
				locked, ok := w.editor.ToggleLock(ids)
				if !ok {
					printNoop("nothing selected")
					return nil
				}
				if locked {
					printSuccess("Locked %d element(s)", len(ids))
				} else {
					printSuccess("Unlocked %d element(s)", len(ids))
				}
				return nil
			})
		},
	}
}

func (c *CLI) hideCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hide <element>...",
		Short: "Toggle each element's hidden flag",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.edit(cmd.Context(), func(w *workspace) error {
				ids, err := w.elements(args)
				if err != nil {
					return err
				}
				printSuccess("Toggled visibility of %d element(s)", w.editor.ToggleHidden(ids))
				return nil
			})
		},
	}
}

func (c *CLI) renameCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <element> <name>",
		Short: "Rename an element",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := mkerrors.ValidateName(args[1]); err != nil {
				return err
			}
			return c.edit(cmd.Context(), func(w *workspace) error {
				id, err := w.element(args[0])
				if err != nil {
					return err
				}
				if !w.editor.Rename(id, args[1]) {
					printNoop("the element already has that name")
					return nil
				}
				printSuccess("Renamed to %s", w.describe(id))
				return nil
			})
		},
	}
}

func (c *CLI) linkCommand() *cobra.Command {
	var (
		clear  bool
		follow bool
	)
	cmd := &cobra.Command{
		Use:   "link <element> [screen]",
		Short: "Make an element a click-through hotspot to another screen",
		Long: `Link an element to a screen so that clicking it in prototype mode
navigates there. --clear removes the link; --follow navigates it, making the
target the active screen.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.edit(cmd.Context(), func(w *workspace) error {
				id, err := w.element(args[0])
				if err != nil {
					return err
				}
				switch {
				case follow:
					target := w.editor.Navigate(id)
					if target == "" {
						printNoop("the element is not linked")
						return nil
					}
					s, _ := w.doc().Screen(target)
					printSuccess("Now on %s", StyleLink.Render(s.Name))
					return nil
				case clear:
					if !w.editor.SetLink(id, "") {
						printNoop("the element is not linked")
						return nil
					}
					printSuccess("Cleared link on %s", w.describe(id))
					return nil
				case len(args) < 2:
					return mkerrors.New(mkerrors.ErrCodeInvalidInput, "name a target screen, or use --clear or --follow")
				}
				target, err := w.screen(args[1])
				if err != nil {
					return err
				}
				if !w.editor.SetLink(id, target.ID) {
					printNoop("already linked there, or linking a screen to itself")
					return nil
				}
				printSuccess("%s %s %s", w.describe(id), iconArrow, StyleLink.Render(target.Name))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&clear, "clear", false, "remove the link")
	cmd.Flags().BoolVar(&follow, "follow", false, "navigate the link")
	return cmd
}

func (c *CLI) styleCommand() *cobra.Command {
	var props bool
	cmd := &cobra.Command{
		Use:   "style <element> key=value...",
		Short: "Merge style (or, with --props, type properties) into an element",
		Long: `Merge key=value pairs into an element's style. Numbers and booleans are
typed; "key=" removes the key. With --props the pairs go into the element's
type-specific properties, such as a button's label.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parsePayload(args[1:])
			if err != nil {
				return err
			}
			return c.edit(cmd.Context(), func(w *workspace) error {
				id, err := w.element(args[0])
				if err != nil {
					return err
				}
				var ok bool
				if props {
					ok = w.editor.SetProps(id, values)
				} else {
					ok = w.editor.SetStyle(id, values)
				}
				if !ok {
					printNoop("nothing to set")
					return nil
				}
				printSuccess("Updated %s", w.describe(id))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&props, "props", false, "set type properties instead of style")
	return cmd
}
