package analytics

import (
	"math"

	"github.com/matzehuels/graphpad/pkg/errors"
	"github.com/matzehuels/graphpad/pkg/model"
)

// PathOptions configures ShortestPath.
type PathOptions struct {
	// Directed restricts traversal to edge direction. The default treats
	// every edge as traversable both ways.
	Directed bool
}

// PathEdge is one hop of a path.
type PathEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// PathResult is the outcome of ShortestPath. On failure OK is false, Msg
// explains why and Code is UNKNOWN_NODE or NO_PATH.
type PathResult struct {
	OK    bool        `json:"ok"`
	Msg   string      `json:"msg,omitempty"`
	Code  errors.Code `json:"code,omitempty"`
	Total float64     `json:"total"`
	Nodes []string    `json:"nodes,omitempty"`
	Edges []PathEdge  `json:"edges,omitempty"`
}

// Err converts a failed result to a *errors.Error. It returns nil when the
// path was found.
func (r PathResult) Err() error {
	if r.OK {
		return nil
	}
	return errors.New(r.Code, "%s", r.Msg)
}

type arc struct {
	to int
	w  float64
}

// ShortestPath finds the minimum-weight path from src to dst with
// Dijkstra's algorithm.
//
// Missing or non-finite weights count as 1 and negative weights as 0. The
// frontier is scanned linearly, O(V²) overall, and among equal tentative
// distances the node with the lowest index wins. The search stops as soon as
// dst is finalized. The graph is never modified.
func ShortestPath(g *model.Graph, src, dst string, opts PathOptions) PathResult {
	index := make(map[string]int, len(g.Nodes))
	for i, n := range g.Nodes {
		index[n.ID] = i
	}
	si, ok := index[src]
	if !ok {
		return fail(errors.ErrCodeUnknownNode, "unknown node "+src)
	}
	di, ok := index[dst]
	if !ok {
		return fail(errors.ErrCodeUnknownNode, "unknown node "+dst)
	}
	if si == di {
		return PathResult{OK: true, Total: 0, Nodes: []string{src}, Edges: []PathEdge{}}
	}

	n := len(g.Nodes)
	adj := make([][]arc, n)
	for _, e := range g.Links {
		u, uok := index[e.Source]
		v, vok := index[e.Target]
		if !uok || !vok {
			continue
		}
		w := max(e.WeightOr(1), 0)
		adj[u] = append(adj[u], arc{to: v, w: w})
		if !opts.Directed {
			adj[v] = append(adj[v], arc{to: u, w: w})
		}
	}

	dist := make([]float64, n)
	prev := make([]int, n)
	done := make([]bool, n)
	for i := range dist {
		dist[i] = math.Inf(1)
		prev[i] = -1
	}
	dist[si] = 0

	for {
		u := -1
		for i := 0; i < n; i++ {
			if !done[i] && (u < 0 || dist[i] < dist[u]) {
				u = i
			}
		}
		if u < 0 || math.IsInf(dist[u], 1) {
			break
		}
		done[u] = true
		if u == di {
			break
		}
		for _, a := range adj[u] {
			if nd := dist[u] + a.w; nd < dist[a.to] {
				dist[a.to] = nd
				prev[a.to] = u
			}
		}
	}

	if math.IsInf(dist[di], 1) {
		return fail(errors.ErrCodeNoPath, "no path from "+src+" to "+dst)
	}

	var order []int
	for v := di; v >= 0; v = prev[v] {
		order = append(order, v)
	}
	res := PathResult{OK: true, Total: dist[di]}
	for i := len(order) - 1; i >= 0; i-- {
		res.Nodes = append(res.Nodes, g.Nodes[order[i]].ID)
	}
	for i := 0; i+1 < len(res.Nodes); i++ {
		res.Edges = append(res.Edges, PathEdge{Source: res.Nodes[i], Target: res.Nodes[i+1]})
	}
	return res
}

func fail(code errors.Code, msg string) PathResult {
	return PathResult{OK: false, Code: code, Msg: msg}
}
