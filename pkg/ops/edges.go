package ops

import (
	"github.com/matzehuels/graphpad/pkg/errors"
	"github.com/matzehuels/graphpad/pkg/model"
)

// EdgeOutcome describes what AddOrUpdateEdge did.
type EdgeOutcome int

const (
	EdgeUnchanged EdgeOutcome = iota
	EdgeAdded
	EdgeUpdated
)

func (o EdgeOutcome) String() string {
	switch o {
	case EdgeAdded:
		return "added"
	case EdgeUpdated:
		return "updated"
	default:
		return "unchanged"
	}
}

// EdgeResult reports the outcome of AddOrUpdateEdge.
type EdgeResult struct {
	Outcome EdgeOutcome

	// WeightIgnored is set when a weight was supplied for a graph type that
	// does not use weights. The edge is still added, without the weight.
	WeightIgnored bool
}

// AddOrUpdateEdge inserts the edge source→target.
//
// When the pair already exists, force graphs update the weight in place (a
// nil weight leaves it alone) and other graph types do nothing. Neither case
// is an error. Hierarchy graphs require layer(source) < layer(target).
func (e *Editor) AddOrUpdateEdge(source, target string, weight *float64) (EdgeResult, error) {
	if err := e.checkWrite(); err != nil {
		return EdgeResult{}, err
	}
	if source == target {
		return EdgeResult{}, errors.New(errors.ErrCodeSameEndpoint, "edge endpoints must differ (%q)", source)
	}
	for _, id := range []string{source, target} {
		if !e.Graph.HasNode(id) {
			return EdgeResult{}, errors.New(errors.ErrCodeMissingEndpoint, "node %q does not exist", id)
		}
	}
	if e.hierarchy() {
		if err := e.ValidateEdgeDirection(source, target); err != nil {
			return EdgeResult{}, err
		}
	}
	weighted := e.Graph.Type.Weighted()
	if weighted && weight != nil && !finite(*weight) {
		return EdgeResult{}, errors.New(errors.ErrCodeInvalidInput, "edge weight must be finite")
	}

	res := EdgeResult{WeightIgnored: weight != nil && !weighted}

	if idx := e.Graph.EdgeIndex(source, target); idx >= 0 {
		if !weighted || weight == nil {
			return res, nil
		}
		cur := e.Graph.Links[idx].Weight
		if cur != nil && *cur == *weight {
			return res, nil
		}
		e.capture("update edge")
		e.Graph.Links[idx].Weight = model.Float(*weight)
		res.Outcome = EdgeUpdated
		e.Logger.Debug("updated edge", "source", source, "target", target, "weight", *weight)
		return res, nil
	}

	e.capture("add edge")
	edge := model.Edge{Source: source, Target: target}
	if weighted && weight != nil {
		edge.Weight = model.Float(*weight)
	}
	e.Graph.Links = append(e.Graph.Links, edge)
	e.Graph.Dedupe()
	res.Outcome = EdgeAdded

	e.Logger.Debug("added edge", "source", source, "target", target, "edges", len(e.Graph.Links))
	return res, nil
}

// RemoveEdge deletes the edge source→target.
func (e *Editor) RemoveEdge(source, target string) error {
	if err := e.checkWrite(); err != nil {
		return err
	}
	if !e.Graph.HasEdge(source, target) {
		return errors.New(errors.ErrCodeEdgeNotFound, "no edge %s → %s", source, target)
	}
	e.capture("remove edge")
	e.Graph.RemoveEdge(source, target)
	e.Logger.Debug("removed edge", "source", source, "target", target)
	return nil
}

// ValidateEdgeDirection checks that source and target both have a layer and
// that the edge points strictly downward.
func (e *Editor) ValidateEdgeDirection(source, target string) error {
	s, ok := e.Graph.Node(source)
	if !ok {
		return errors.New(errors.ErrCodeMissingEndpoint, "node %q does not exist", source)
	}
	t, ok := e.Graph.Node(target)
	if !ok {
		return errors.New(errors.ErrCodeMissingEndpoint, "node %q does not exist", target)
	}
	return checkDirection(source, s.Layer, target, t.Layer)
}

// ValidateLayerChange checks every edge incident to id as if the node were
// on newLayer and returns the first violation.
func (e *Editor) ValidateLayerChange(id string, newLayer int) error {
	if !e.Graph.HasNode(id) {
		return errors.New(errors.ErrCodeNotFound, "node %q not found", id)
	}
	idx := e.Graph.Index()
	layerOf := func(nid string) int {
		if nid == id {
			return newLayer
		}
		if n := idx[nid]; n != nil {
			return n.Layer
		}
		return 0
	}
	for _, edge := range e.Graph.IncidentEdges(id) {
		if err := checkDirection(edge.Source, layerOf(edge.Source), edge.Target, layerOf(edge.Target)); err != nil {
			return err
		}
	}
	return nil
}

func checkDirection(source string, sl int, target string, tl int) error {
	if sl < 1 || tl < 1 {
		return errors.New(errors.ErrCodeInvalidDirection,
			"edge %s → %s: both endpoints need a layer", source, target)
	}
	if sl >= tl {
		return errors.New(errors.ErrCodeInvalidDirection,
			"edge %s → %s must point to a lower row (layer %d → %d)", source, target, sl, tl)
	}
	return nil
}
