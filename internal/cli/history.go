package cli

import (
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	mkerrors "github.com/matzehuels/mockup/pkg/errors"
	"github.com/matzehuels/mockup/pkg/history"
)

func (c *CLI) undoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "undo",
		Short: "Revert the last edit on the active screen",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.edit(cmd.Context(), func(w *workspace) error {
				return replayOne(w, "undo")
			})
		},
	}
}

func (c *CLI) redoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "redo",
		Short: "Re-apply the last undone edit on the active screen",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.edit(cmd.Context(), func(w *workspace) error {
				return replayOne(w, "redo")
			})
		},
	}
}

func replayOne(w *workspace, kind string) error {
	id := w.active().ID
	before, _ := w.editor.HistoryOf(id)

	var (
		ok    bool
		err   error
		label string
	)
	if kind == "undo" {
		if n := len(before.Past); n > 0 {
			label = before.Past[n-1].Label
		}
		ok, err = w.editor.Undo(id)
	} else {
		if len(before.Future) > 0 {
			label = before.Future[0].Label
		}
		ok, err = w.editor.Redo(id)
	}
	if err != nil {
		return err
	}
	if !ok {
		printNoop("nothing to " + kind)
		return nil
	}
	after, _ := w.editor.HistoryOf(id)
	printSuccess("%s %s", kindTitle(kind), StyleHighlight.Render(label))
	printDetail("%d undo · %d redo", len(after.Past), len(after.Future))
	return nil
}

func kindTitle(kind string) string {
	if kind == "undo" {
		return "Undid"
	}
	return "Redid"
}

func (c *CLI) jumpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "jump <past|future> <index>",
		Short: "Travel directly to a history entry",
		Long: `Travel to an entry listed by "mockup history". Past indexes count from the
oldest entry; future indexes count from the nearest one.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			which, err := history.ParseStack(args[0])
			if err != nil {
				return mkerrors.Wrap(mkerrors.ErrCodeInvalidInput, err, "jump")
			}
			index, err := strconv.Atoi(args[1])
			if err != nil {
				return mkerrors.New(mkerrors.ErrCodeInvalidInput, "index must be a number, got %q", args[1])
			}
			return c.edit(cmd.Context(), func(w *workspace) error {
				return jump(w, which, index)
			})
		},
	}
}

func jump(w *workspace, which history.Stack, index int) error {
	id := w.active().ID
	ok, err := w.editor.Jump(id, index, which)
	if err != nil {
		return err
	}
	if !ok {
		return mkerrors.New(mkerrors.ErrCodeInvalidInput, "no %s entry %d on %s", which, index, w.active().Name)
	}
	st, _ := w.editor.HistoryOf(id)
	printSuccess("Jumped to %s entry %d", which, index)
	printDetail("%d undo · %d redo", len(st.Past), len(st.Future))
	return nil
}

// historyCommand prints the timeline of the active screen.
func (c *CLI) historyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the undo history of the active screen",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.view(cmd.Context(), func(w *workspace) error {
				st, err := w.editor.HistoryOf(w.active().ID)
				if err != nil {
					return err
				}
				printTimeline(w.active().Name, st)
				return nil
			})
		},
	}
	cmd.AddCommand(c.historyBrowseCommand())
	return cmd
}

// timelineRow is one line of the history timeline.
type timelineRow struct {
	stack   history.Stack // "" for the current state
	index   int
	label   string
	when    string
	current bool
}

// timeline lays the stacks out oldest first: past, current, then future
// from nearest to farthest.
func timeline(st history.Stacks) []timelineRow {
	rows := make([]timelineRow, 0, len(st.Past)+len(st.Future)+1)
	for i, e := range st.Past {
		rows = append(rows, timelineRow{stack: history.Past, index: i, label: e.Label, when: e.Timestamp.Format("15:04:05")})
	}
	rows = append(rows, timelineRow{label: "current", current: true})
	for i, e := range st.Future {
		rows = append(rows, timelineRow{stack: history.Future, index: i, label: e.Label, when: e.Timestamp.Format("15:04:05")})
	}
	return rows
}

func (r timelineRow) ref() string {
	if r.current {
		return iconActive
	}
	return fmt.Sprintf("%s %d", r.stack, r.index)
}

func printTimeline(screen string, st history.Stacks) {
	fmt.Fprintln(stdout, StyleTitle.Render("History of "+screen))
	if len(st.Past) == 0 && len(st.Future) == 0 {
		printInfo("No edits yet")
		return
	}
	rows := timeline(st)
	data := make([][]string, len(rows))
	for i, r := range rows {
		data[i] = []string{r.ref(), r.label, r.when}
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers("Entry", "Edit", "At").
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return styleHeader
			case rows[row].current:
				return StyleHighlight.Bold(true)
			case rows[row].stack == history.Future:
				return StyleDim
			}
			return lipgloss.NewStyle()
		})
	fmt.Fprintln(stdout, t.Render())
	printNextStep("Travel", "mockup jump past 0")
}

func (c *CLI) historyBrowseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Pick a history entry interactively and jump to it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.edit(cmd.Context(), func(w *workspace) error {
				st, err := w.editor.HistoryOf(w.active().ID)
				if err != nil {
					return err
				}
				m := NewHistoryModel(w.active().Name, st)
				out, err := tea.NewProgram(m, tea.WithContext(cmd.Context())).Run()
				if err != nil {
					return fmt.Errorf("history browser: %w", err)
				}
				final := out.(HistoryModel)
				if final.Selected == nil {
					printInfo("Stayed at the current state")
					return nil
				}
				return jump(w, final.Selected.stack, final.Selected.index)
			})
		},
	}
}
