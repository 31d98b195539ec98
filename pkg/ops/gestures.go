package ops

import (
	"math"

	"github.com/matzehuels/graphpad/pkg/errors"
	"github.com/matzehuels/graphpad/pkg/layout"
	"github.com/matzehuels/graphpad/pkg/model"
)

type dragState struct {
	node          *model.Node
	startX        *float64
	startY        *float64
	startLayer    int
	startedPinned bool
}

// MoveNode sets a node position in one step. On hierarchy graphs only x is
// taken; y stays on the node's row.
func (e *Editor) MoveNode(id string, x, y float64) error {
	if err := e.checkWrite(); err != nil {
		return err
	}
	n, ok := e.Graph.Node(id)
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "node %q not found", id)
	}
	if !finite(x, y) {
		return errors.New(errors.ErrCodeInvalidInput, "node position must be finite")
	}

	e.capture("move node")
	e.place(n, x, y)
	return nil
}

// BeginDrag starts a continuous drag of node id. History is captured once
// here; DragTo calls do not capture. Only one drag may be active.
func (e *Editor) BeginDrag(id string) error {
	if err := e.checkWrite(); err != nil {
		return err
	}
	if e.drag != nil {
		return errors.New(errors.ErrCodeInvalidInput, "drag of %q already in progress", e.drag.node.ID)
	}
	n, ok := e.Graph.Node(id)
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "node %q not found", id)
	}
	e.capture("drag node")
	e.drag = &dragState{
		node:          n,
		startX:        cloneFloat(n.X),
		startY:        cloneFloat(n.Y),
		startLayer:    n.Layer,
		startedPinned: n.Pinned,
	}
	return nil
}

// DragTo moves the dragged node. Hierarchy nodes follow the pointer freely
// until EndDrag snaps them to a row.
func (e *Editor) DragTo(x, y float64) error {
	if e.drag == nil {
		return errors.New(errors.ErrCodeInvalidInput, "no drag in progress")
	}
	if !finite(x, y) {
		return errors.New(errors.ErrCodeInvalidInput, "node position must be finite")
	}
	e.drag.node.SetPosition(x, y)
	return nil
}

// EndDrag finishes the drag. A drag that ends where it started rolls back
// its history capture and reports moved=false.
//
// On hierarchy graphs the node snaps to the row nearest its final y. A row
// change is validated like SetNodeLayer; when it is rejected the node returns
// to its original row, keeps the new x, and the error is returned.
func (e *Editor) EndDrag() (moved bool, err error) {
	d := e.drag
	if d == nil {
		return false, errors.New(errors.ErrCodeInvalidInput, "no drag in progress")
	}
	e.drag = nil
	n := d.node

	if e.hierarchy() {
		target := d.startLayer
		if n.Y != nil {
			target = e.nearestLayer(*n.Y)
		}
		if target != d.startLayer {
			if verr := e.ValidateLayerChange(n.ID, target); verr != nil {
				err = verr
				target = d.startLayer
			}
		}
		e.Layout.SnapNodeToLayer(n, max(target, 1))
	}
	if e.Graph.Type == model.TypeForce {
		n.Pinned = true
	}

	if sameFloat(n.X, d.startX) && sameFloat(n.Y, d.startY) &&
		n.Layer == d.startLayer && n.Pinned == d.startedPinned {
		e.History.Discard()
		return false, err
	}
	return true, err
}

// SetNodeLayer moves a hierarchy node to layer l after validating every
// incident edge against the new layer.
func (e *Editor) SetNodeLayer(id string, l int) error {
	if err := e.checkWrite(); err != nil {
		return err
	}
	if !e.hierarchy() {
		return errors.New(errors.ErrCodeInvalidInput, "layers only apply to hierarchy graphs")
	}
	n, ok := e.Graph.Node(id)
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "node %q not found", id)
	}
	if l < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "layer must be at least 1")
	}
	if l == n.Layer {
		return nil
	}
	if err := e.ValidateLayerChange(id, l); err != nil {
		return err
	}
	e.capture("set layer")
	e.Layout.SnapNodeToLayer(n, l)
	return nil
}

// SetType switches the graph type. Positions are cleared and the new layout
// applied; switching into hierarchy also recomputes layers.
func (e *Editor) SetType(t model.Type) error {
	if err := e.checkWrite(); err != nil {
		return err
	}
	if !t.Valid() {
		return errors.New(errors.ErrCodeInvalidInput, "unknown graph type %q", t)
	}
	if t == e.Graph.Type {
		return nil
	}
	e.capture("set type")
	e.Graph.Type = t
	e.resetLayout()
	if err := e.Layout.Apply(e.Graph); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "apply layout")
	}
	e.Logger.Debug("changed graph type", "type", t)
	return nil
}

// SetTitle renames the graph.
func (e *Editor) SetTitle(title string) error {
	if err := e.checkWrite(); err != nil {
		return err
	}
	if err := errors.ValidateTitle(title); err != nil {
		return err
	}
	if title == e.Graph.Title {
		return nil
	}
	e.capture("set title")
	e.Graph.Title = title
	return nil
}

// Relayout discards all positions (and hierarchy layers) and lays the graph
// out from scratch.
func (e *Editor) Relayout() error {
	if err := e.checkWrite(); err != nil {
		return err
	}
	e.capture("relayout")
	e.resetLayout()
	if err := e.Layout.Apply(e.Graph); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "apply layout")
	}
	return nil
}

func (e *Editor) resetLayout() {
	layout.ClearPositions(e.Graph)
	if e.hierarchy() {
		for _, n := range e.Graph.Nodes {
			n.Layer = 0
		}
	}
}

func (e *Editor) place(n *model.Node, x, y float64) {
	switch e.Graph.Type {
	case model.TypeHierarchy:
		n.SetX(x)
		e.Layout.SnapNodeToLayer(n, max(n.Layer, 1))
	case model.TypeForce:
		n.SetPosition(x, y)
		n.Pinned = true
	default:
		n.SetPosition(x, y)
	}
}

// nearestLayer maps y to a row using the geometry the rows were placed
// with, so snapping never re-spaces existing rows.
func (e *Editor) nearestLayer(y float64) int {
	s, ok := e.Layout.CachedLayers()
	if !ok {
		s = e.Layout.Layers(e.Graph.MaxLayer())
	}
	if s.GapY <= 0 {
		return 1
	}
	return max(1, int(math.Round((y-s.StartY)/s.GapY))+1)
}

func cloneFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	return model.Float(*p)
}

func sameFloat(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
