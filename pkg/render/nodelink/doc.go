// Package nodelink renders editable graphs as node-link diagrams.
//
// # Overview
//
// This package exports a graph through Graphviz, keeping the positions the
// editor assigned. Nodes appear as rounded boxes connected by arrows.
//
// # Usage
//
// Render straight from a graph:
//
//	svg, err := nodelink.Render(g, nodelink.Options{Height: 800})
//
// Or produce DOT source for external tools:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderPinnedSVG(dot)
//
// # Coordinates
//
// Editor coordinates are pixels with y growing downward. [ToDOT] converts
// them to Graphviz inches (px/72) and flips y against Options.Height, then
// pins each node with pos="x,y!". [Render] uses the neato engine when every
// node is positioned, since only neato honors pinned positions, and falls
// back to dot otherwise.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
