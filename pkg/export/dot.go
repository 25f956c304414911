package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/mockup/pkg/scene"
)

// Options configures diagram generation.
type Options struct {
	// Direction is the Graphviz rankdir: "TB" (default) or "LR".
	Direction string
	// ShowHidden includes hidden elements, drawn greyed out. When false,
	// hidden elements and their subtrees are omitted.
	ShowHidden bool
	// IncludeLinks draws click-through links as dashed edges.
	IncludeLinks bool
}

func (o Options) rankdir() string {
	if strings.EqualFold(o.Direction, "LR") {
		return "LR"
	}
	return "TB"
}

func header(buf *bytes.Buffer, opts Options) {
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(buf, "  rankdir=%s;\n", opts.rankdir())
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")
}

// ScreenDOT converts a screen's element forest to Graphviz DOT. Nodes appear
// in paint order so sibling order in the diagram matches z-order.
func ScreenDOT(s *scene.Screen, opts Options) string {
	var buf bytes.Buffer
	header(&buf, opts)

	root := "screen:" + s.ID
	fmt.Fprintf(&buf, "  %q [label=%q, shape=folder, fillcolor=%q];\n", root, screenLabel(s), "#e8eefc")

	var edges, links []string
	for _, e := range s.Elements {
		if !opts.ShowHidden && !scene.IsVisible(e, s.Elements) {
			continue
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", e.ID, strings.Join(elementAttrs(e, s.Elements), ", "))

		parent := root
		if e.ParentID != "" {
			parent = e.ParentID
		}
		edges = append(edges, fmt.Sprintf("  %q -> %q;\n", parent, e.ID))
		if opts.IncludeLinks && e.Link != "" {
			links = append(links, fmt.Sprintf("  %q -> %q [style=dashed, color=\"#3b6fd8\"];\n", e.ID, "screen:"+e.Link))
		}
	}

	if len(links) > 0 {
		buf.WriteString("\n")
		seen := map[string]bool{}
		for _, e := range s.Elements {
			if e.Link == "" || seen[e.Link] || (!opts.ShowHidden && !scene.IsVisible(e, s.Elements)) {
				continue
			}
			seen[e.Link] = true
			fmt.Fprintf(&buf, "  %q [label=%q, shape=folder, style=dashed];\n", "screen:"+e.Link, e.Link)
		}
	}

	buf.WriteString("\n")
	for _, e := range edges {
		buf.WriteString(e)
	}
	for _, l := range links {
		buf.WriteString(l)
	}
	buf.WriteString("}\n")
	return buf.String()
}

// FlowDOT converts a document to a screen flow diagram: one node per screen
// and one edge for every screen pair joined by at least one link.
func FlowDOT(doc *scene.Document, opts Options) string {
	var buf bytes.Buffer
	header(&buf, opts)

	for _, s := range doc.Screens {
		if s.Hidden && !opts.ShowHidden {
			continue
		}
		attrs := []string{fmt.Sprintf("label=%q", screenLabel(s))}
		if s.ID == doc.ActiveID {
			attrs = append(attrs, "penwidth=2")
		}
		if s.Hidden {
			attrs = append(attrs, "fontcolor=grey", "style=\"rounded,filled,dashed\"")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", s.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	links := doc.Links()
	for _, s := range doc.Screens {
		if s.Hidden && !opts.ShowHidden {
			continue
		}
		for _, target := range links[s.ID] {
			t, ok := doc.Screen(target)
			if !ok || (t.Hidden && !opts.ShowHidden) {
				continue
			}
			fmt.Fprintf(&buf, "  %q -> %q;\n", s.ID, target)
		}
	}
	buf.WriteString("}\n")
	return buf.String()
}

func screenLabel(s *scene.Screen) string {
	name := s.Name
	if name == "" {
		name = s.ID
	}
	return fmt.Sprintf("%s\n%.0fx%.0f", name, s.Viewport.Width, s.Viewport.Height)
}

func elementAttrs(e scene.Element, all []scene.Element) []string {
	label := fmt.Sprintf("%s\n%s %.0fx%.0f", e.DisplayName(), e.Type, e.Width, e.Height)
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch {
	case !scene.IsVisible(e, all):
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=\"#f2f2f2\"", "fontcolor=grey")
	case e.Type.IsStructural():
		attrs = append(attrs, "fillcolor=\"#fff7e0\"")
	}
	if e.Locked {
		attrs = append(attrs, "penwidth=2")
	}
	return attrs
}
