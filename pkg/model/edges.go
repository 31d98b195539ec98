package model

import "slices"

// DedupeEdges collapses edges that share an ordered (source, target) pair,
// keeping only the last occurrence of each pair. Relative order of the
// surviving edges is preserved.
//
// The scan runs from the end of the slice backward so that the later edge
// wins. The input slice is not modified.
func DedupeEdges(links []Edge) []Edge {
	seen := make(map[EdgeKey]bool, len(links))
	keep := make([]bool, len(links))
	for i := len(links) - 1; i >= 0; i-- {
		k := links[i].Key()
		if seen[k] {
			continue
		}
		seen[k] = true
		keep[i] = true
	}

	out := make([]Edge, 0, len(seen))
	for i, e := range links {
		if keep[i] {
			out = append(out, e)
		}
	}
	return out
}

// Dedupe applies DedupeEdges to g.Links in place.
// Returns the number of edges removed.
func (g *Graph) Dedupe() int {
	before := len(g.Links)
	g.Links = DedupeEdges(g.Links)
	return before - len(g.Links)
}

// DropDanglingEdges removes edges whose endpoints are not present in g.
// Imported data can reference deleted nodes; the editor never creates them.
func (g *Graph) DropDanglingEdges() int {
	idx := g.Index()
	before := len(g.Links)
	g.Links = slices.DeleteFunc(g.Links, func(e Edge) bool {
		return idx[e.Source] == nil || idx[e.Target] == nil
	})
	return before - len(g.Links)
}

// DuplicateIDs returns node ids that appear more than once, in first-seen
// order. An empty result means the id uniqueness invariant holds.
func (g *Graph) DuplicateIDs() []string {
	seen := make(map[string]int, len(g.Nodes))
	var dups []string
	for _, n := range g.Nodes {
		seen[n.ID]++
		if seen[n.ID] == 2 {
			dups = append(dups, n.ID)
		}
	}
	return dups
}
