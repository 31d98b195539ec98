package layout

import (
	"fmt"
	"math"

	"github.com/matzehuels/graphpad/pkg/model"
)

// Canvas defaults used when no size is configured.
const (
	DefaultWidth  = 1200.0
	DefaultHeight = 800.0
)

// Geometry constants for the built-in layouts.
const (
	ForceSeedRadius = 0.38 // fraction of min(width, height)
	CircleRadius    = 0.4  // fraction of min(width, height)
	GridGap         = 40.0
)

// Engine positions graph nodes on a fixed-size canvas.
//
// The engine caches hierarchy row geometry in a [LayerState]. The cache is
// invalidated by [Engine.Resize] and whenever the number of layers changes.
type Engine struct {
	Width  float64
	Height float64

	layers    *LayerState
	layerRows int // row count the cached gap was computed for
}

// New creates an engine for a canvas of the given size. Non-positive sizes
// fall back to the defaults.
func New(width, height float64) *Engine {
	e := &Engine{}
	e.Resize(width, height)
	return e
}

// Resize changes the canvas size and drops cached layer geometry.
func (e *Engine) Resize(width, height float64) {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	e.Width, e.Height = width, height
	e.layers = nil
}

// Center returns the canvas center point.
func (e *Engine) Center() (x, y float64) { return e.Width / 2, e.Height / 2 }

// Apply lays out g according to g.Type. Only hierarchy graphs are always
// recomputed; the other types keep existing positions when every node has
// one.
func (e *Engine) Apply(g *model.Graph) error {
	switch g.Type {
	case model.TypeForce:
		e.force(g)
	case model.TypeCircle:
		e.circle(g)
	case model.TypeGrid:
		e.grid(g)
	case model.TypeHierarchy:
		e.hierarchy(g)
	default:
		return fmt.Errorf("layout: unknown graph type %q", g.Type)
	}
	return nil
}

// ClearPositions removes every node coordinate so the next Apply starts
// fresh. Layers are kept.
func ClearPositions(g *model.Graph) {
	for _, n := range g.Nodes {
		n.ClearPosition()
	}
}

// AllHavePositions reports whether g has at least one node and every node
// has finite x and y. Consumers use it to decide when to auto-fit.
func AllHavePositions(g *model.Graph) bool {
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

// Pinned returns the ids of pinned nodes in list order.
func Pinned(g *model.Graph) []string {
	var ids []string
	for _, n := range g.Nodes {
		if n.Pinned {
			ids = append(ids, n.ID)
		}
	}
	return ids
}

func (e *Engine) force(g *model.Graph) {
	if !AllHavePositions(g) {
		cx, cy := e.Center()
		r := ForceSeedRadius * math.Min(e.Width, e.Height)
		count := float64(len(g.Nodes))
		for i, n := range g.Nodes {
			if n.HasPosition() {
				continue
			}
			a := 2 * math.Pi * float64(i) / count
			n.SetPosition(cx+r*math.Cos(a), cy+r*math.Sin(a))
		}
	}
	for _, n := range g.Nodes {
		n.Pinned = true
	}
}

func (e *Engine) circle(g *model.Graph) {
	if AllHavePositions(g) {
		return
	}
	cx, cy := e.Center()
	r := CircleRadius * math.Min(e.Width, e.Height)
	count := float64(len(g.Nodes))
	for i, n := range g.Nodes {
		a := 2 * math.Pi * float64(i) / count
		n.SetPosition(cx+r*math.Cos(a), cy+r*math.Sin(a))
	}
}

func (e *Engine) grid(g *model.Graph) {
	if AllHavePositions(g) || len(g.Nodes) == 0 {
		return
	}
	cols := int(math.Ceil(math.Sqrt(float64(len(g.Nodes)))))
	rows := (len(g.Nodes) + cols - 1) / cols
	cx, cy := e.Center()
	x0 := cx - float64(cols-1)*GridGap/2
	y0 := cy - float64(rows-1)*GridGap/2
	for i, n := range g.Nodes {
		n.SetPosition(x0+float64(i%cols)*GridGap, y0+float64(i/cols)*GridGap)
	}
}
