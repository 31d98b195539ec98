package layout

import (
	"slices"

	"github.com/matzehuels/graphpad/pkg/model"
)

// Hierarchy geometry.
const (
	HierarchyMargin = 40.0
	HierarchyXGap   = 60.0
	HierarchySide   = 40.0
	MinGapY         = 80.0
	MaxGapY         = 140.0
)

// LayerState is the cached row geometry of a hierarchy layout.
type LayerState struct {
	StartY   float64
	GapY     float64
	MaxLayer int
	XGap     float64
	SidePad  float64
}

// Y returns the canvas y of layer l.
func (s LayerState) Y(l int) float64 {
	return s.StartY + float64(l-1)*s.GapY
}

// Layers returns the layer geometry for maxLayer rows, reusing the cached
// value when the row count has not changed.
func (e *Engine) Layers(maxLayer int) LayerState {
	maxLayer = max(maxLayer, 1)
	if e.layers != nil && e.layerRows == maxLayer {
		return *e.layers
	}
	avail := e.Height - 2*HierarchyMargin
	gap := avail / float64(max(1, maxLayer-1))
	s := LayerState{
		StartY:   HierarchyMargin,
		GapY:     min(max(gap, MinGapY), MaxGapY),
		MaxLayer: maxLayer,
		XGap:     HierarchyXGap,
		SidePad:  HierarchySide,
	}
	e.layers = &s
	e.layerRows = maxLayer
	return s
}

// CachedLayers returns the cached geometry, if any.
func (e *Engine) CachedLayers() (LayerState, bool) {
	if e.layers == nil {
		return LayerState{}, false
	}
	return *e.layers, true
}

// YForLayer maps a layer number to its canvas y using the cached geometry.
// Without a cache, geometry for l rows is computed and cached.
func (e *Engine) YForLayer(l int) float64 {
	if e.layers == nil {
		e.Layers(l)
	}
	return e.layers.Y(l)
}

// SnapNodeToLayer sets n.Layer to l and moves n to the row's y. A node
// without an x is placed at the horizontal center. Layers beyond the cached
// maximum extend it without changing the row gap.
func (e *Engine) SnapNodeToLayer(n *model.Node, l int) {
	if l < 1 {
		l = 1
	}
	if e.layers == nil {
		e.Layers(l)
	} else if l > e.layers.MaxLayer {
		e.layers.MaxLayer = l
		e.layerRows = l
	}
	n.Layer = l
	if !n.HasX() {
		n.SetX(e.Width / 2)
	}
	n.SetY(e.YForLayer(l))
}

func (e *Engine) hierarchy(g *model.Graph) {
	if len(g.Nodes) == 0 {
		return
	}
	if NeedsLayering(g) {
		AssignLayers(g)
	}
	s := e.Layers(g.MaxLayer())

	buckets := make(map[int][]*model.Node)
	for _, n := range g.Nodes {
		buckets[n.Layer] = append(buckets[n.Layer], n)
	}
	for layer, row := range buckets {
		slices.SortStableFunc(row, func(a, b *model.Node) int {
			return NaturalCompare(a.ID, b.ID)
		})
		width := float64(len(row)-1) * s.XGap
		startX := max(s.SidePad, (e.Width-width)/2)
		for i, n := range row {
			if !n.HasX() {
				n.SetX(startX + float64(i)*s.XGap)
			}
			n.SetY(s.Y(layer))
		}
	}
}
