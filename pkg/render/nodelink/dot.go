package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/graphpad/pkg/model"
	"github.com/matzehuels/graphpad/pkg/render"
)

// pointsPerInch converts canvas pixels to Graphviz inches.
const pointsPerInch = 72.0

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the node id, layer and description to each label.
	// When false, only the display label is shown.
	Detailed bool

	// Weights labels edges with their weight on force graphs.
	Weights bool

	// Height is the canvas height used to flip y so the diagram matches the
	// editor, which grows y downward. Zero uses the graph's own extent.
	Height float64
}

// ToDOT converts a graph to Graphviz DOT format.
//
// Positioned nodes are pinned with pos="x,y!" so [RenderPinnedSVG] reproduces
// the editor layout. Nodes without a position are left for Graphviz to place.
func ToDOT(g *model.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	if g.Title != "" {
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n", g.Title)
	}
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	if g.Type == model.TypeHierarchy {
		buf.WriteString("  rankdir=TB;\n")
	}
	buf.WriteString("\n")

	flip := opts.Height
	if flip <= 0 {
		flip = maxY(g)
	}
	for _, n := range g.Nodes {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(fmtAttrs(n, opts.Detailed, flip), ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Links {
		var attrs []string
		if opts.Weights && g.Type.Weighted() && e.Weight != nil {
			attrs = append(attrs, fmt.Sprintf("label=%q", strconv.FormatFloat(*e.Weight, 'g', -1, 64)))
		}
		if len(attrs) > 0 {
			fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.Source, e.Target, strings.Join(attrs, ", "))
		} else {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.Source, e.Target)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n *model.Node, detailed bool) string {
	label := n.DisplayLabel()
	if !detailed {
		return label
	}
	var parts []string
	if label != n.ID {
		parts = append(parts, "id: "+n.ID)
	}
	if n.Layer > 0 {
		parts = append(parts, fmt.Sprintf("layer: %d", n.Layer))
	}
	if n.Description != "" {
		parts = append(parts, n.Description)
	}
	if len(parts) == 0 {
		return label
	}
	return label + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(n *model.Node, detailed bool, flip float64) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(n, detailed))}
	if n.Description != "" {
		attrs = append(attrs, fmt.Sprintf("tooltip=%q", n.Description))
	}
	if x, y, ok := n.Position(); ok {
		attrs = append(attrs, fmt.Sprintf("pos=\"%s,%s!\"", inches(x), inches(flip-y)))
	}
	return attrs
}

func inches(px float64) string {
	return strconv.FormatFloat(px/pointsPerInch, 'f', 3, 64)
}

func maxY(g *model.Graph) float64 {
	m := 0.0
	for _, n := range g.Nodes {
		if n.Y != nil && *n.Y > m {
			m = *n.Y
		}
	}
	return m
}

// Render draws g as SVG, pinning nodes to their editor positions when every
// node has one and letting Graphviz lay the graph out otherwise.
func Render(g *model.Graph, opts Options) ([]byte, error) {
	dot := ToDOT(g, opts)
	if allPositioned(g) {
		return RenderPinnedSVG(dot)
	}
	return RenderSVG(dot)
}

func allPositioned(g *model.Graph) bool {
	if len(g.Nodes) == 0 {
		return false
	}
	for _, n := range g.Nodes {
		if !n.HasPosition() {
			return false
		}
	}
	return true
}

// RenderSVG renders a DOT graph to SVG using the Graphviz dot engine.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(dot string) ([]byte, error) {
	return renderSVG(dot, graphviz.DOT)
}

// RenderPinnedSVG renders a DOT graph with the neato engine, which honors
// pinned pos attributes.
func RenderPinnedSVG(dot string) ([]byte, error) {
	return renderSVG(dot, graphviz.NEATO)
}

func renderSVG(dot string, engine graphviz.Layout) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(engine)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPDF renders g as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(g *model.Graph, opts Options) ([]byte, error) {
	svg, err := Render(g, opts)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

// RenderPNG renders g as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(g *model.Graph, opts Options, scale float64) ([]byte, error) {
	svg, err := Render(g, opts)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}
