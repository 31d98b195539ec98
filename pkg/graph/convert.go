package graph

import (
	"github.com/matzehuels/graphpad/pkg/errors"
	"github.com/matzehuels/graphpad/pkg/model"
)

// =============================================================================
// Model ↔ Document Conversion
// =============================================================================

// FromModel converts a graph to its serialization format. Node order is
// kept. Layers are only written for hierarchy graphs.
func FromModel(g *model.Graph) Document {
	return Document{
		Title: g.Title,
		Type:  string(g.Type),
		Nodes: nodeRecords(g),
		Links: edgeRecords(g.Links),
	}
}

// ToModel converts a document to a graph and reports the access level.
//
// Links are normalized to plain id references and deduped (last occurrence
// wins); links that reference unknown nodes are dropped. An empty type means
// force. Duplicate node ids are a hard failure.
func ToModel(doc Document) (*model.Graph, model.Access, error) {
	t := model.TypeForce
	if doc.Type != "" {
		parsed, err := model.ParseType(doc.Type)
		if err != nil {
			return nil, "", errors.Wrap(errors.ErrCodeInvalidInput, err, "document type")
		}
		t = parsed
	}
	access, err := model.ParseAccess(doc.Access)
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrCodeInvalidInput, err, "document access")
	}

	g := model.New(t, doc.Title)
	g.Nodes = make([]*model.Node, 0, len(doc.Nodes))
	for _, r := range doc.Nodes {
		n := &model.Node{
			ID:          r.ID,
			Label:       r.Label,
			Description: r.Description,
			Layer:       r.Layer,
		}
		if r.X != nil && r.Y != nil {
			n.SetPosition(*r.X, *r.Y)
		}
		if t != model.TypeHierarchy {
			n.Layer = 0
		}
		g.Nodes = append(g.Nodes, n)
	}
	if dups := g.DuplicateIDs(); len(dups) > 0 {
		return nil, "", errors.New(errors.ErrCodeDuplicateID, "duplicate node id %q in document", dups[0])
	}

	links, err := model.NormalizeLinks(rawLinks(doc.Links))
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrCodeInvalidInput, err, "normalize links")
	}
	g.Links = links
	g.DropDanglingEdges()

	return g, access, nil
}

// NewSaveRequest builds a full-save request from g.
func NewSaveRequest(g *model.Graph) SaveRequest {
	return SaveRequest{
		Title: g.Title,
		Type:  string(g.Type),
		Nodes: nodeRecords(g),
		Links: edgeRecords(g.Links),
	}
}

// Document returns the request as a stored document.
func (r SaveRequest) Document() Document {
	return Document{Title: r.Title, Type: r.Type, Nodes: r.Nodes, Links: r.Links}
}

// =============================================================================
// Position Deltas
// =============================================================================

// Positions snapshots the position of every positioned node, keyed by id.
func Positions(g *model.Graph) map[string]PositionRecord {
	m := make(map[string]PositionRecord, len(g.Nodes))
	for _, n := range g.Nodes {
		x, y, ok := n.Position()
		if !ok {
			continue
		}
		p := PositionRecord{ID: n.ID, X: x, Y: y}
		if g.Type == model.TypeHierarchy {
			p.Layer = n.Layer
		}
		m[n.ID] = p
	}
	return m
}

// PositionsDelta returns the records of nodes whose position or layer
// differs from prev, in node order. Nodes absent from prev are included.
func PositionsDelta(prev map[string]PositionRecord, g *model.Graph) []PositionRecord {
	cur := Positions(g)
	var out []PositionRecord
	for _, n := range g.Nodes {
		p, ok := cur[n.ID]
		if !ok {
			continue
		}
		if old, seen := prev[n.ID]; seen && old == p {
			continue
		}
		out = append(out, p)
	}
	return out
}

// ApplyPositions merges position records into doc by node id. Unknown ids
// are ignored. Returns the number of nodes updated.
func ApplyPositions(doc *Document, positions []PositionRecord) int {
	idx := make(map[string]int, len(doc.Nodes))
	for i, n := range doc.Nodes {
		idx[n.ID] = i
	}
	updated := 0
	for _, p := range positions {
		i, ok := idx[p.ID]
		if !ok {
			continue
		}
		doc.Nodes[i].X = model.Float(p.X)
		doc.Nodes[i].Y = model.Float(p.Y)
		if p.Layer > 0 {
			doc.Nodes[i].Layer = p.Layer
		}
		updated++
	}
	return updated
}

// =============================================================================
// Internal Helpers
// =============================================================================

func nodeRecords(g *model.Graph) []NodeRecord {
	out := make([]NodeRecord, len(g.Nodes))
	for i, n := range g.Nodes {
		r := NodeRecord{ID: n.ID, Label: n.Label, Description: n.Description}
		if x, y, ok := n.Position(); ok {
			r.X, r.Y = model.Float(x), model.Float(y)
		}
		if g.Type == model.TypeHierarchy {
			r.Layer = n.Layer
		}
		out[i] = r
	}
	return out
}

func edgeRecords(links []model.Edge) []EdgeRecord {
	out := make([]EdgeRecord, len(links))
	for i, e := range links {
		out[i] = EdgeRecord{Source: Endpoint(e.Source), Target: Endpoint(e.Target)}
		if e.Weight != nil {
			out[i].Weight = model.Float(*e.Weight)
		}
	}
	return out
}

func rawLinks(records []EdgeRecord) []model.RawLink {
	out := make([]model.RawLink, len(records))
	for i, r := range records {
		out[i] = model.RawLink{Source: string(r.Source), Target: string(r.Target), Weight: r.Weight}
	}
	return out
}
