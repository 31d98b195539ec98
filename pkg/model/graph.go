package model

import (
	"fmt"
	"math"
	"slices"
)

// Type selects the layout family of a graph.
type Type string

const (
	// TypeForce is an edge-weighted graph whose positions are seeded once and
	// then pinned. No physics simulation runs.
	TypeForce Type = "force"
	// TypeGrid arranges nodes row-major in a square-ish grid.
	TypeGrid Type = "grid"
	// TypeCircle places nodes evenly on a circle.
	TypeCircle Type = "circle"
	// TypeHierarchy assigns nodes to layers and constrains edges to point
	// from a lower layer to a strictly higher one.
	TypeHierarchy Type = "hierarchy"
)

// Types lists every supported graph type in display order.
var Types = []Type{TypeForce, TypeGrid, TypeCircle, TypeHierarchy}

// ParseType converts s to a Type. Returns an error for unknown values.
func ParseType(s string) (Type, error) {
	t := Type(s)
	if !t.Valid() {
		return "", fmt.Errorf("invalid graph type: %q (must be one of: force, grid, circle, hierarchy)", s)
	}
	return t, nil
}

// Valid reports whether t is one of the supported graph types.
func (t Type) Valid() bool { return slices.Contains(Types, t) }

// Weighted reports whether edge weights are meaningful for t.
func (t Type) Weighted() bool { return t == TypeForce }

// Node is a labeled point in the graph. X and Y are either both set or both
// nil; Layer is 0 when unassigned and only meaningful for hierarchy graphs.
type Node struct {
	ID          string
	Label       string
	Description string
	X, Y        *float64
	Layer       int

	// Pinned marks the position as fixed. Force seeding pins every node.
	Pinned bool
}

// HasPosition reports whether both coordinates are set and finite.
func (n *Node) HasPosition() bool {
	return n.X != nil && n.Y != nil && isFinite(*n.X) && isFinite(*n.Y)
}

// HasX reports whether the x coordinate is set and finite.
func (n *Node) HasX() bool { return n.X != nil && isFinite(*n.X) }

// Position returns the node coordinates and whether they are defined.
func (n *Node) Position() (x, y float64, ok bool) {
	if !n.HasPosition() {
		return 0, 0, false
	}
	return *n.X, *n.Y, true
}

// SetPosition sets both coordinates.
func (n *Node) SetPosition(x, y float64) {
	n.X = &x
	n.Y = &y
}

// SetX sets the x coordinate only.
func (n *Node) SetX(x float64) { n.X = &x }

// SetY sets the y coordinate only.
func (n *Node) SetY(y float64) { n.Y = &y }

// ClearPosition removes both coordinates and the pin.
func (n *Node) ClearPosition() {
	n.X, n.Y = nil, nil
	n.Pinned = false
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Clone returns a deep copy of the node.
func (n *Node) Clone() *Node {
	c := *n
	c.X = clonePtr(n.X)
	c.Y = clonePtr(n.Y)
	return &c
}

// Edge is a directed link between two node ids. Weight is nil when unset.
type Edge struct {
	Source string
	Target string
	Weight *float64
}

// Key returns the ordered endpoint pair used for dedupe and lookups.
func (e Edge) Key() EdgeKey { return EdgeKey{Source: e.Source, Target: e.Target} }

// IsSelfLoop reports whether the edge starts and ends at the same node.
func (e Edge) IsSelfLoop() bool { return e.Source == e.Target }

// Touches reports whether id is either endpoint.
func (e Edge) Touches(id string) bool { return e.Source == id || e.Target == id }

// WeightOr returns the weight when it is set and finite, otherwise def.
func (e Edge) WeightOr(def float64) float64 {
	if e.Weight == nil || !isFinite(*e.Weight) {
		return def
	}
	return *e.Weight
}

// Clone returns a copy of the edge that shares no memory with e.
func (e Edge) Clone() Edge {
	e.Weight = clonePtr(e.Weight)
	return e
}

// EdgeKey identifies an ordered (source, target) pair.
type EdgeKey struct {
	Source string
	Target string
}

// Graph is the in-memory representation of one editable graph.
//
// A Graph is owned by a single viewing session and is not safe for concurrent
// use. Consumers receive it as an explicit parameter; long-lived references
// stay valid across undo and redo because history restores contents in place.
type Graph struct {
	Nodes []*Node
	Links []Edge
	Type  Type
	Title string
}

// New creates an empty graph of the given type.
func New(t Type, title string) *Graph {
	return &Graph{Type: t, Title: title}
}

// Default returns the starter graph used when a load returns no nodes:
// three nodes joined by two edges.
func Default(t Type, title string) *Graph {
	if !t.Valid() {
		t = TypeForce
	}
	g := New(t, title)
	g.Nodes = []*Node{
		{ID: "A", Label: "A"},
		{ID: "B", Label: "B"},
		{ID: "C", Label: "C"},
	}
	g.Links = []Edge{
		{Source: "A", Target: "B"},
		{Source: "B", Target: "C"},
	}
	return g
}

// Node returns the node with the given id and true, or nil and false.
// The returned pointer refers to the node in the graph.
func (g *Graph) Node(id string) (*Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return nil, false
}

// HasNode reports whether a node with the given id exists.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.Node(id)
	return ok
}

// NodeIndex returns the position of id in Nodes, or -1.
func (g *Graph) NodeIndex(id string) int {
	return slices.IndexFunc(g.Nodes, func(n *Node) bool { return n.ID == id })
}

// Index builds an id lookup map. Rebuild it after renames, undo or redo.
func (g *Graph) Index() map[string]*Node {
	m := make(map[string]*Node, len(g.Nodes))
	for _, n := range g.Nodes {
		m[n.ID] = n
	}
	return m
}

// NodeIDs returns node ids in list order.
func (g *Graph) NodeIDs() []string {
	ids := make([]string, len(g.Nodes))
	for i, n := range g.Nodes {
		ids[i] = n.ID
	}
	return ids
}

// EdgeIndex returns the position of the edge source→target in Links, or -1.
func (g *Graph) EdgeIndex(source, target string) int {
	return slices.IndexFunc(g.Links, func(e Edge) bool {
		return e.Source == source && e.Target == target
	})
}

// HasEdge reports whether an edge source→target exists.
func (g *Graph) HasEdge(source, target string) bool {
	return g.EdgeIndex(source, target) >= 0
}

// IncidentEdges returns the edges that have id as source or target.
// The returned slice is a copy.
func (g *Graph) IncidentEdges(id string) []Edge {
	var out []Edge
	for _, e := range g.Links {
		if e.Touches(id) {
			out = append(out, e)
		}
	}
	return out
}

// MaxLayer returns the highest assigned layer, or 0 when none is assigned.
func (g *Graph) MaxLayer() int {
	maxLayer := 0
	for _, n := range g.Nodes {
		maxLayer = max(maxLayer, n.Layer)
	}
	return maxLayer
}

// Clone returns a deep copy of the graph. The copy shares no mutable memory
// with g, so later mutations of either side never leak into the other.
func (g *Graph) Clone() *Graph {
	c := &Graph{
		Nodes: make([]*Node, len(g.Nodes)),
		Links: make([]Edge, len(g.Links)),
		Type:  g.Type,
		Title: g.Title,
	}
	for i, n := range g.Nodes {
		c.Nodes[i] = n.Clone()
	}
	for i, e := range g.Links {
		c.Links[i] = e.Clone()
	}
	return c
}

// ReplaceWith overwrites the contents of g with a deep copy of other.
// The receiver pointer is kept so that external references remain valid.
func (g *Graph) ReplaceWith(other *Graph) {
	c := other.Clone()
	g.Nodes = c.Nodes
	g.Links = c.Links
	g.Type = c.Type
	g.Title = c.Title
}

// RenameNode changes a node id and rewrites every edge that references the
// old id in the same step. The caller validates the new id.
func (g *Graph) RenameNode(oldID, newID string) bool {
	n, ok := g.Node(oldID)
	if !ok {
		return false
	}
	n.ID = newID
	for i := range g.Links {
		if g.Links[i].Source == oldID {
			g.Links[i].Source = newID
		}
		if g.Links[i].Target == oldID {
			g.Links[i].Target = newID
		}
	}
	return true
}

// RemoveNode deletes the node and every edge incident to it.
// Returns the number of edges removed and whether the node existed.
func (g *Graph) RemoveNode(id string) (int, bool) {
	idx := g.NodeIndex(id)
	if idx < 0 {
		return 0, false
	}
	g.Nodes = slices.Delete(g.Nodes, idx, idx+1)
	before := len(g.Links)
	g.Links = slices.DeleteFunc(g.Links, func(e Edge) bool { return e.Touches(id) })
	return before - len(g.Links), true
}

// RemoveEdge deletes every edge source→target. Returns the count removed.
func (g *Graph) RemoveEdge(source, target string) int {
	before := len(g.Links)
	g.Links = slices.DeleteFunc(g.Links, func(e Edge) bool {
		return e.Source == source && e.Target == target
	})
	return before - len(g.Links)
}

func isFinite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

func clonePtr(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Float returns a pointer to v. Handy for optional weights and coordinates.
func Float(v float64) *float64 { return &v }
