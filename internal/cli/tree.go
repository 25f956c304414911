package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss/tree"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mockup/pkg/scene"
)

// treeCommand prints the layer tree of the active screen, topmost first as
// in a layers panel.
func (c *CLI) treeCommand() *cobra.Command {
	var ids bool
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Show the layer tree of the active screen",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.view(cmd.Context(), func(w *workspace) error {
				fmt.Fprintln(stdout, layerTree(w.doc(), w.active(), ids))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&ids, "ids", false, "show element ids")
	return cmd
}

func layerTree(doc *scene.Document, s *scene.Screen, showIDs bool) string {
	g := doc.GridFor(s)
	title := fmt.Sprintf("%s %s", StyleTitle.Render(s.Name),
		StyleDim.Render(fmt.Sprintf("%gx%g · grid %g", s.Viewport.Width, s.Viewport.Height, g.Size)))
	if s.Locked {
		title += " " + styleLocked.Render(iconLock)
	}
	root := tree.Root(title).Enumerator(tree.RoundedEnumerator)

	children := map[string][]scene.Element{}
	for _, e := range s.Elements {
		children[e.ParentID] = append(children[e.ParentID], e)
	}
	var add func(parent *tree.Tree, id string)
	add = func(parent *tree.Tree, id string) {
		kids := children[id]
		// Topmost first.
		for i := len(kids) - 1; i >= 0; i-- {
			e := kids[i]
			label := layerLabel(e, s.Elements, showIDs)
			if len(children[e.ID]) == 0 {
				parent.Child(label)
				continue
			}
			sub := tree.Root(label)
			if !e.Collapsed {
				add(sub, e.ID)
			} else {
				sub = tree.Root(label + StyleDim.Render(fmt.Sprintf(" (+%d)", len(scene.DescendantsOf(s.Elements, e.ID)))))
			}
			parent.Child(sub)
		}
	}
	add(root, "")
	if len(s.Elements) == 0 {
		root.Child(StyleDim.Render("empty"))
	}
	return root.String()
}

func layerLabel(e scene.Element, all []scene.Element, showIDs bool) string {
	var b strings.Builder
	name := e.DisplayName()
	if scene.IsVisible(e, all) {
		b.WriteString(StyleValue.Render(name))
	} else {
		b.WriteString(styleHidden.Render(name + " " + iconHidden))
	}
	b.WriteString(" " + typeStyle(e.Type).Render(string(e.Type)))
	b.WriteString(StyleDim.Render(fmt.Sprintf(" %g,%g %gx%g", e.X, e.Y, e.Width, e.Height)))
	if e.Locked {
		b.WriteString(" " + styleLocked.Render(iconLock))
	}
	if e.Link != "" {
		b.WriteString(" " + StyleLink.Render(iconArrow+" "+e.Link))
	}
	if showIDs {
		b.WriteString(" " + StyleDim.Render(e.ID))
	}
	return b.String()
}
