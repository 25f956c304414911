package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mockup/pkg/editor"
	mkerrors "github.com/matzehuels/mockup/pkg/errors"
	"github.com/matzehuels/mockup/pkg/scene"
	"github.com/matzehuels/mockup/pkg/store"
)

// initCommand creates a new project with one empty screen.
func (c *CLI) initCommand() *cobra.Command {
	var (
		name   string
		device string
		force  bool
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a project with one empty screen",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if device == "" {
				device = c.cfg.Editor.Device
			}
			return c.runInit(cmd.Context(), name, device, force)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "document name (default: project id)")
	cmd.Flags().StringVar(&device, "device", "", "device preset for the first screen: mobile, tablet, desktop")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing project")
	return cmd
}

func (c *CLI) runInit(ctx context.Context, name, device string, force bool) error {
	if err := mkerrors.ValidateProjectID(c.projectID); err != nil {
		return err
	}
	st, owned, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	if owned {
		defer st.Close()
	}

	if !force {
		_, err := st.Load(ctx, c.projectID)
		if err == nil {
			return mkerrors.New(mkerrors.ErrCodeInvalidInput, "project %q already exists (use --force to replace it)", c.projectID)
		}
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}
	}

	if name == "" {
		name = c.projectID
	}
	grid := scene.Grid{Size: c.cfg.Editor.GridSize, Enabled: c.cfg.Editor.Snap}
	doc := editor.NewDocument(name, device, grid)
	if err := st.Save(ctx, &store.Project{ID: c.projectID, Document: doc}); err != nil {
		return err
	}

	printSuccess("Created project %s", StyleHighlight.Render(c.projectID))
	first := doc.Screens[0]
	printKeyValue("Screen", first.Name)
	printKeyValue("Viewport", fmt.Sprintf("%gx%g (%s)", first.Viewport.Width, first.Viewport.Height, device))
	printKeyValue("Grid", fmt.Sprintf("%g, snap %t", grid.Size, grid.Enabled))
	printKeyValue("Store", c.cfg.Store.Backend)
	printNextStep("Add a component", "mockup add button --at 24,24")
	return nil
}

// projectsCommand lists and deletes stored projects.
func (c *CLI) projectsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "projects",
		Aliases: []string{"ls"},
		Short:   "List stored projects",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runProjects(cmd.Context())
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a project and its history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, owned, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			if owned {
				defer st.Close()
			}
			if err := st.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			printSuccess("Deleted project %s", args[0])
			return nil
		},
	})
	return cmd
}

func (c *CLI) runProjects(ctx context.Context) error {
	st, owned, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	if owned {
		defer st.Close()
	}
	list, err := st.List(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		printInfo("No projects yet")
		printNextStep("Create one", "mockup init -p my-app")
		return nil
	}

	rows := make([][]string, len(list))
	for i, p := range list {
		marker := ""
		if p.ID == c.projectID {
			marker = iconActive
		}
		rows[i] = []string{marker, p.ID, p.Name, fmt.Sprint(p.Screens), formatRelativeTime(p.UpdatedAt)}
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers("", "Project", "Name", "Screens", "Updated").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			if col == 0 || list[row].ID == c.projectID {
				return StyleHighlight
			}
			return lipgloss.NewStyle()
		})
	fmt.Fprintln(stdout, t.Render())
	return nil
}

// formatRelativeTime renders t relative to now for listings.
func formatRelativeTime(t time.Time) string {
	diff := time.Since(t)
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
