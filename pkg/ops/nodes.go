package ops

import (
	"math"

	"github.com/matzehuels/graphpad/pkg/errors"
	"github.com/matzehuels/graphpad/pkg/model"
)

// NodeInput describes a node to add. X and Y are the placement position;
// when either is nil the node is placed at the canvas center.
type NodeInput struct {
	ID          string
	Label       string
	Description string
	X, Y        *float64
}

// NodeEdit lists the fields to change on an existing node. Nil fields are
// left alone. Layer only applies to hierarchy graphs.
type NodeEdit struct {
	ID          *string
	Label       *string
	Description *string
	Layer       *int
}

// EditResult reports the outcome of EditNode.
type EditResult struct {
	Node    *model.Node
	Renamed bool
	Changed bool

	// LayerErr is set when the layer change was rejected. The other fields
	// of the edit were still applied.
	LayerErr error
}

// AddNode appends a node. Hierarchy graphs put new nodes on layer 1.
func (e *Editor) AddNode(in NodeInput) (*model.Node, error) {
	if err := e.checkWrite(); err != nil {
		return nil, err
	}
	if err := errors.ValidateNodeID(in.ID); err != nil {
		return nil, err
	}
	if e.Graph.HasNode(in.ID) {
		return nil, errors.New(errors.ErrCodeDuplicateID, "node %q already exists", in.ID)
	}
	if in.X != nil && in.Y != nil && !finite(*in.X, *in.Y) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "node position must be finite")
	}

	e.capture("add node")

	n := &model.Node{ID: in.ID, Label: in.Label, Description: in.Description}
	if in.X != nil && in.Y != nil {
		n.SetPosition(*in.X, *in.Y)
	} else {
		n.SetPosition(e.Layout.Center())
	}
	switch e.Graph.Type {
	case model.TypeHierarchy:
		e.Layout.SnapNodeToLayer(n, 1)
	case model.TypeForce:
		n.Pinned = true
	}
	e.Graph.Nodes = append(e.Graph.Nodes, n)

	e.Logger.Debug("added node", "id", n.ID, "nodes", len(e.Graph.Nodes))
	return n, nil
}

// EditNode changes the id, label, description and layer of the node oldID.
//
// A rename rewrites every incident edge in the same step. A layer change is
// validated against all incident edges before anything is applied; when it
// is invalid the rest of the edit proceeds and the layer error is returned in
// the result rather than as the error value.
func (e *Editor) EditNode(oldID string, edit NodeEdit) (EditResult, error) {
	if err := e.checkWrite(); err != nil {
		return EditResult{}, err
	}
	n, ok := e.Graph.Node(oldID)
	if !ok {
		return EditResult{}, errors.New(errors.ErrCodeNotFound, "node %q not found", oldID)
	}

	newID := oldID
	if edit.ID != nil {
		if err := errors.ValidateNodeID(*edit.ID); err != nil {
			return EditResult{}, err
		}
		newID = *edit.ID
		if newID != oldID && e.Graph.HasNode(newID) {
			return EditResult{}, errors.New(errors.ErrCodeDuplicateID, "node %q already exists", newID)
		}
	}

	res := EditResult{Node: n}
	newLayer := n.Layer
	if edit.Layer != nil && *edit.Layer != n.Layer {
		switch {
		case !e.hierarchy():
			res.LayerErr = errors.New(errors.ErrCodeInvalidInput, "layers only apply to hierarchy graphs")
		case *edit.Layer < 1:
			res.LayerErr = errors.New(errors.ErrCodeInvalidInput, "layer must be at least 1")
		default:
			if err := e.ValidateLayerChange(oldID, *edit.Layer); err != nil {
				res.LayerErr = err
			} else {
				newLayer = *edit.Layer
			}
		}
	}

	labelChanged := edit.Label != nil && *edit.Label != n.Label
	descChanged := edit.Description != nil && *edit.Description != n.Description
	res.Renamed = newID != oldID
	res.Changed = res.Renamed || labelChanged || descChanged || newLayer != n.Layer
	if !res.Changed {
		return res, nil
	}

	e.capture("edit node")

	if res.Renamed {
		e.Graph.RenameNode(oldID, newID)
	}
	if labelChanged {
		n.Label = *edit.Label
	}
	if descChanged {
		n.Description = *edit.Description
	}
	if newLayer != n.Layer {
		e.Layout.SnapNodeToLayer(n, newLayer)
	}

	e.Logger.Debug("edited node", "id", n.ID, "renamed", res.Renamed, "layer_rejected", res.LayerErr != nil)
	return res, nil
}

// DeleteNode removes the node and all incident edges, then re-applies the
// layout.
func (e *Editor) DeleteNode(id string) error {
	if err := e.checkWrite(); err != nil {
		return err
	}
	if !e.Graph.HasNode(id) {
		return errors.New(errors.ErrCodeNotFound, "node %q not found", id)
	}

	e.capture("delete node")
	removed, _ := e.Graph.RemoveNode(id)
	if err := e.Layout.Apply(e.Graph); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "re-apply layout")
	}

	e.Logger.Debug("deleted node", "id", id, "edges_removed", removed)
	return nil
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
