package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	mkerrors "github.com/matzehuels/mockup/pkg/errors"
	"github.com/matzehuels/mockup/pkg/scene"
)

// screenCommand groups the screen management subcommands.
func (c *CLI) screenCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "screen",
		Short: "Manage the screens of a project",
	}
	cmd.AddCommand(c.screenListCommand())
	cmd.AddCommand(c.screenAddCommand())
	cmd.AddCommand(c.screenUseCommand())
	cmd.AddCommand(c.screenRenameCommand())
	cmd.AddCommand(c.screenRemoveCommand())
	cmd.AddCommand(c.screenLockCommand())
	cmd.AddCommand(c.screenHideCommand())
	cmd.AddCommand(c.screenSetCommand())
	return cmd
}

func (c *CLI) screenListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List screens",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.view(cmd.Context(), func(w *workspace) error {
				printScreens(w)
				return nil
			})
		},
	}
}

func printScreens(w *workspace) {
	doc := w.doc()
	rows := make([][]string, len(doc.Screens))
	for i, s := range doc.Screens {
		marker := ""
		if s.ID == doc.ActiveID {
			marker = iconActive
		}
		var flags string
		if s.Locked {
			flags += iconLock
		}
		if s.Hidden {
			flags += iconHidden
		}
		undo, redo := len(w.editor.History().List(s.ID).Past), len(w.editor.History().List(s.ID).Future)
		rows[i] = []string{
			marker, s.Name, s.ID,
			fmt.Sprintf("%gx%g", s.Viewport.Width, s.Viewport.Height),
			fmt.Sprint(len(s.Elements)),
			fmt.Sprintf("%d/%d", undo, redo),
			flags,
		}
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers("", "Screen", "ID", "Size", "Elements", "Undo/Redo", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return styleHeader
			case doc.Screens[row].ID == doc.ActiveID:
				return StyleHighlight
			case col == 2:
				return StyleDim
			}
			return lipgloss.NewStyle()
		})
	fmt.Fprintln(stdout, t.Render())
}

func (c *CLI) screenAddCommand() *cobra.Command {
	var device string
	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Add an empty screen and make it active",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if device == "" {
				device = c.cfg.Editor.Device
			}
			var name string
			if len(args) == 1 {
				name = args[0]
			}
			return c.edit(cmd.Context(), func(w *workspace) error {
				if err := mkerrors.ValidateName(name); err != nil {
					return err
				}
				id, err := w.editor.AddScreen(name, device)
				if err != nil {
					return err
				}
				s, _ := w.doc().Screen(id)
				printSuccess("Added screen %s %s", StyleHighlight.Render(s.Name), StyleDim.Render("("+id+")"))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&device, "device", "", "device preset: mobile, tablet, desktop")
	return cmd
}

func (c *CLI) screenUseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "use <screen>",
		Short: "Make a screen the active one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.edit(cmd.Context(), func(w *workspace) error {
				s, err := w.screen(args[0])
				if err != nil {
					return err
				}
				if err := w.editor.SetActive(s.ID); err != nil {
					return err
				}
				printSuccess("Active screen is %s", StyleHighlight.Render(s.Name))
				return nil
			})
		},
	}
}

func (c *CLI) screenRenameCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <screen> <name>",
		Short: "Rename a screen",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := mkerrors.ValidateName(args[1]); err != nil {
				return err
			}
			return c.edit(cmd.Context(), func(w *workspace) error {
				s, err := w.screen(args[0])
				if err != nil {
					return err
				}
				if err := w.editor.RenameScreen(s.ID, args[1]); err != nil {
					return err
				}
				printSuccess("Renamed screen to %s", StyleHighlight.Render(args[1]))
				return nil
			})
		},
	}
}

func (c *CLI) screenRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <screen>",
		Aliases: []string{"rm"},
		Short:   "Remove a screen, its history and every link to it",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.edit(cmd.Context(), func(w *workspace) error {
				s, err := w.screen(args[0])
				if err != nil {
					return err
				}
				if len(w.doc().Screens) == 1 {
					return mkerrors.New(mkerrors.ErrCodeInvalidInput, "cannot remove the last screen")
				}
				name := s.Name
				if err := w.editor.RemoveScreen(s.ID); err != nil {
					return err
				}
				printSuccess("Removed screen %s", name)
				return nil
			})
		},
	}
}

func (c *CLI) screenLockCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lock [screen]",
		Short: "Toggle a screen's lock; locked screens reject every drag",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.toggleScreen(cmd.Context(), args, "locked", func(w *workspace, id string) (bool, error) {
				return w.editor.ToggleScreenLock(id)
			})
		},
	}
}

func (c *CLI) screenHideCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hide [screen]",
		Short: "Toggle a screen's hidden flag",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.toggleScreen(cmd.Context(), args, "hidden", func(w *workspace, id string) (bool, error) {
				return w.editor.ToggleScreenHidden(id)
			})
		},
	}
}

func (c *CLI) toggleScreen(ctx context.Context, args []string, what string, fn func(*workspace, string) (bool, error)) error {
	return c.edit(ctx, func(w *workspace) error {
		s := w.active()
		if len(args) == 1 {
			var err error
			if s, err = w.screen(args[0]); err != nil {
				return err
			}
		}
		on, err := fn(w, s.ID)
		if err != nil {
			return err
		}
		state := what
		if !on {
			state = "not " + what
		}
		printSuccess("Screen %s is %s", StyleHighlight.Render(s.Name), state)
		return nil
	})
}

// screenSetCommand edits the active screen's background, size and grid.
func (c *CLI) screenSetCommand() *cobra.Command {
	var (
		background string
		size       string
		grid       float64
		snap       string
	)
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Set the active screen's background, size or grid",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if background != "" {
				if err := mkerrors.ValidateColor(background); err != nil {
					return err
				}
			}
			return c.edit(cmd.Context(), func(w *workspace) error {
				changed := 0
				if background != "" && w.editor.SetBackground(background) {
					changed++
				}
				if size != "" {
					width, height, err := parsePair("size", size, "x")
					if err != nil {
						return err
					}
					if w.editor.SetViewport(scene.Viewport{Width: width, Height: height}) {
						changed++
					}
				}
				if cmd.Flags().Changed("grid") || snap != "" {
					g := w.doc().GridFor(w.active())
					if cmd.Flags().Changed("grid") {
						g.Size = grid
					}
					switch snap {
					case "on":
						g.Enabled = true
					case "off":
						g.Enabled = false
					case "":
					default:
						return mkerrors.New(mkerrors.ErrCodeInvalidInput, "--snap: want on or off, got %q", snap)
					}
					if w.editor.SetGrid(&g) {
						changed++
					}
				}
				if changed == 0 {
					printNoop("the screen already has these settings")
					return nil
				}
				printSuccess("Updated screen %s", StyleHighlight.Render(w.active().Name))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&background, "background", "", "background color (#rgb, #rrggbb, #rrggbbaa)")
	cmd.Flags().StringVar(&size, "size", "", "viewport size as WxH, e.g. 390x844")
	cmd.Flags().Float64Var(&grid, "grid", 0, "grid size for this screen (0 disables snapping)")
	cmd.Flags().StringVar(&snap, "snap", "", "snap to grid: on or off")
	return cmd
}
