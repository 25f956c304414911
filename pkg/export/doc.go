// Package export renders mockup structure as Graphviz diagrams.
//
// # Diagrams
//
// [ScreenDOT] draws one screen's element hierarchy: the screen is the root
// node, every element hangs off its parent, and links to other screens
// appear as dashed edges. [FlowDOT] draws the whole document as a screen
// flow, one node per screen and one edge per click-through link.
//
// Both produce plain DOT source that [RenderSVG] turns into SVG in process
// using [github.com/goccy/go-graphviz], so no Graphviz installation is
// needed.
//
// # Caching
//
// An [Exporter] caches rendered artifacts under a key derived from the
// screen's structural hash, the same hash the history engine uses to detect
// changes. Exporting an unchanged screen twice renders once:
//
//	ex := export.New(cache.NewMemoryCache())
//	svg, err := ex.Screen(ctx, screen, export.FormatSVG, export.Options{IncludeLinks: true})
package export
