package layout

import "github.com/matzehuels/graphpad/pkg/model"

// AssignLayers assigns every node of g to a layer starting at 1, based on its
// depth along directed edges.
//
// AssignLayers uses a longest-path pass over a topological order (Kahn's
// algorithm). Each node is placed one below the deepest of its
// predecessors, so that:
//   - Nodes with no incoming edges (including isolated nodes) are at layer 1
//   - Every edge points from a lower layer to a strictly higher one
//
// Existing layer assignments are overwritten.
//
// # Cycles
//
// Nodes on a cycle never reach zero in-degree. They are placed afterwards,
// in node-list order, at one more than the highest layer among their
// predecessors (unplaced predecessors count as 0). This is a best-effort
// placement: edges inside the cycle will violate the direction rule.
//
// Self-loops and edges that reference unknown nodes are ignored.
//
// Time complexity is O(V + E).
func AssignLayers(g *model.Graph) {
	idx := g.Index()
	inDegree := make(map[string]int, len(g.Nodes))
	children := make(map[string][]string, len(g.Nodes))
	parents := make(map[string][]string, len(g.Nodes))
	for _, e := range g.Links {
		if e.IsSelfLoop() || idx[e.Source] == nil || idx[e.Target] == nil {
			continue
		}
		inDegree[e.Target]++
		children[e.Source] = append(children[e.Source], e.Target)
		parents[e.Target] = append(parents[e.Target], e.Source)
	}

	layers := make(map[string]int, len(g.Nodes))
	queue := make([]string, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		if inDegree[n.ID] == 0 {
			layers[n.ID] = 1
			queue = append(queue, n.ID)
		}
	}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		for _, child := range children[curr] {
			if layer := layers[curr] + 1; layer > layers[child] {
				layers[child] = layer
			}
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	for _, n := range g.Nodes {
		if inDegree[n.ID] <= 0 {
			continue
		}
		best := 0
		for _, p := range parents[n.ID] {
			best = max(best, layers[p])
		}
		layers[n.ID] = best + 1
	}

	for _, n := range g.Nodes {
		n.Layer = layers[n.ID]
	}
}

// NeedsLayering reports whether any node lacks a layer.
func NeedsLayering(g *model.Graph) bool {
	for _, n := range g.Nodes {
		if n.Layer < 1 {
			return true
		}
	}
	return false
}
