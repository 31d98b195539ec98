package layout

import "github.com/matzehuels/graphpad/pkg/model"

// Rect is an axis-aligned box in canvas units.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

// Width returns the horizontal extent.
func (r Rect) Width() float64 { return r.MaxX - r.MinX }

// Height returns the vertical extent.
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// Bounds returns the bounding box of all positioned nodes. ok is false when
// no node has a position.
func Bounds(g *model.Graph) (r Rect, ok bool) {
	for _, n := range g.Nodes {
		x, y, has := n.Position()
		if !has {
			continue
		}
		if !ok {
			r = Rect{MinX: x, MinY: y, MaxX: x, MaxY: y}
			ok = true
			continue
		}
		r.MinX, r.MaxX = min(r.MinX, x), max(r.MaxX, x)
		r.MinY, r.MaxY = min(r.MinY, y), max(r.MaxY, y)
	}
	return r, ok
}

// Fit returns the bounding box grown by pad on every side, the view a
// consumer should frame when auto-fitting.
func Fit(g *model.Graph, pad float64) (Rect, bool) {
	r, ok := Bounds(g)
	if !ok {
		return Rect{}, false
	}
	return Rect{MinX: r.MinX - pad, MinY: r.MinY - pad, MaxX: r.MaxX + pad, MaxY: r.MaxY + pad}, true
}
