package model

import "fmt"

// RawLink is an edge as it arrives from an untyped source: either endpoint
// may be a plain id or an object that carries one.
type RawLink struct {
	Source any
	Target any
	Weight *float64
}

// EndpointID resolves a raw endpoint to a node id. Accepted forms are a
// string, a *Node or Node, and a map with a string "id" entry. Resolution is
// idempotent: an id resolves to itself.
func EndpointID(v any) (string, error) {
	switch e := v.(type) {
	case string:
		return e, nil
	case *Node:
		if e == nil {
			return "", fmt.Errorf("nil node endpoint")
		}
		return e.ID, nil
	case Node:
		return e.ID, nil
	case map[string]any:
		if id, ok := e["id"].(string); ok {
			return id, nil
		}
		return "", fmt.Errorf("endpoint object has no string id")
	case fmt.Stringer:
		return e.String(), nil
	case nil:
		return "", fmt.Errorf("missing endpoint")
	default:
		return "", fmt.Errorf("unsupported endpoint type %T", v)
	}
}

// NormalizeLinks converts raw links to plain id edges and dedupes the result
// with [DedupeEdges]. Applying it twice yields the same edges.
func NormalizeLinks(raw []RawLink) ([]Edge, error) {
	out := make([]Edge, 0, len(raw))
	for i, r := range raw {
		src, err := EndpointID(r.Source)
		if err != nil {
			return nil, fmt.Errorf("link %d source: %w", i, err)
		}
		dst, err := EndpointID(r.Target)
		if err != nil {
			return nil, fmt.Errorf("link %d target: %w", i, err)
		}
		out = append(out, Edge{Source: src, Target: dst, Weight: clonePtr(r.Weight)})
	}
	return DedupeEdges(out), nil
}

// RawLinks lifts typed edges back into the raw form accepted by
// [NormalizeLinks].
func RawLinks(links []Edge) []RawLink {
	out := make([]RawLink, len(links))
	for i, e := range links {
		out[i] = RawLink{Source: e.Source, Target: e.Target, Weight: clonePtr(e.Weight)}
	}
	return out
}
