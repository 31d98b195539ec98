package analytics

import (
	"fmt"
	"math"
	"slices"

	"github.com/matzehuels/graphpad/pkg/layout"
	"github.com/matzehuels/graphpad/pkg/model"
)

// Score is a per-node metric value.
type Score struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

// DegreeMode selects which edge ends DegreeCentrality counts.
type DegreeMode string

const (
	DegreeTotal DegreeMode = "total"
	DegreeIn    DegreeMode = "in"
	DegreeOut   DegreeMode = "out"
)

// ParseDegreeMode converts s to a DegreeMode. Empty means total.
func ParseDegreeMode(s string) (DegreeMode, error) {
	switch DegreeMode(s) {
	case "":
		return DegreeTotal, nil
	case DegreeTotal, DegreeIn, DegreeOut:
		return DegreeMode(s), nil
	}
	return "", fmt.Errorf("invalid degree mode: %q (must be one of: total, in, out)", s)
}

// DegreeCentrality returns one score per node, in node order. Every edge
// occurrence counts, including parallel edges and self-loops.
func DegreeCentrality(g *model.Graph, mode DegreeMode) []Score {
	in := make(map[string]int, len(g.Nodes))
	out := make(map[string]int, len(g.Nodes))
	for _, e := range g.Links {
		out[e.Source]++
		in[e.Target]++
	}

	scores := make([]Score, len(g.Nodes))
	for i, n := range g.Nodes {
		var v int
		switch mode {
		case DegreeIn:
			v = in[n.ID]
		case DegreeOut:
			v = out[n.ID]
		default:
			v = in[n.ID] + out[n.ID]
		}
		scores[i] = Score{ID: n.ID, Score: float64(v)}
	}
	return scores
}

// PageRankOptions configures PageRank. Zero fields take the defaults.
type PageRankOptions struct {
	Damping float64
	MaxIter int
	Tol     float64
}

// PageRank defaults.
const (
	DefaultDamping = 0.85
	DefaultMaxIter = 50
	DefaultTol     = 1e-6
)

func (o *PageRankOptions) setDefaults() {
	if o.Damping <= 0 || o.Damping >= 1 {
		o.Damping = DefaultDamping
	}
	if o.MaxIter <= 0 {
		o.MaxIter = DefaultMaxIter
	}
	if o.Tol <= 0 {
		o.Tol = DefaultTol
	}
}

// PageRankResult holds scores in node order plus convergence details.
type PageRankResult struct {
	Scores     []Score `json:"scores"`
	Iterations int     `json:"iterations"`
	Converged  bool    `json:"converged"`
}

// PageRank runs power iteration over the directed edges of g.
//
// Self-loops are ignored and parallel edges collapse, so a node's out-degree
// is its number of distinct targets. Rank held by nodes without out-links is
// spread evenly over all nodes every iteration. Iteration stops when the L1
// change falls below Tol, or after MaxIter rounds. Scores sum to 1.
func PageRank(g *model.Graph, opts PageRankOptions) PageRankResult {
	opts.setDefaults()
	n := len(g.Nodes)
	if n == 0 {
		return PageRankResult{Scores: []Score{}, Converged: true}
	}

	index := make(map[string]int, n)
	for i, node := range g.Nodes {
		index[node.ID] = i
	}
	outs := make([][]int, n)
	seen := make(map[model.EdgeKey]bool, len(g.Links))
	for _, e := range g.Links {
		if e.IsSelfLoop() || seen[e.Key()] {
			continue
		}
		u, uok := index[e.Source]
		v, vok := index[e.Target]
		if !uok || !vok {
			continue
		}
		seen[e.Key()] = true
		outs[u] = append(outs[u], v)
	}

	fn := float64(n)
	rank := make([]float64, n)
	next := make([]float64, n)
	for i := range rank {
		rank[i] = 1 / fn
	}

	res := PageRankResult{}
	for iter := 1; iter <= opts.MaxIter; iter++ {
		dangling := 0.0
		for i, o := range outs {
			if len(o) == 0 {
				dangling += rank[i]
			}
		}
		base := (1-opts.Damping)/fn + opts.Damping*dangling/fn
		for i := range next {
			next[i] = base
		}
		for i, o := range outs {
			if len(o) == 0 {
				continue
			}
			share := opts.Damping * rank[i] / float64(len(o))
			for _, v := range o {
				next[v] += share
			}
		}

		delta := 0.0
		for i := range rank {
			delta += math.Abs(next[i] - rank[i])
		}
		rank, next = next, rank
		res.Iterations = iter
		if delta < opts.Tol {
			res.Converged = true
			break
		}
	}

	res.Scores = make([]Score, n)
	for i, node := range g.Nodes {
		res.Scores[i] = Score{ID: node.ID, Score: rank[i]}
	}
	return res
}

// TopN returns the n highest scores, highest first. Ties are ordered by
// natural id order. n <= 0 returns all scores sorted. The input is not
// modified.
func TopN(scores []Score, n int) []Score {
	out := slices.Clone(scores)
	slices.SortStableFunc(out, func(a, b Score) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		}
		return layout.NaturalCompare(a.ID, b.ID)
	})
	if n > 0 && n < len(out) {
		out = out[:n]
	}
	return out
}

// ScoreMap indexes scores by node id.
func ScoreMap(scores []Score) map[string]float64 {
	m := make(map[string]float64, len(scores))
	for _, s := range scores {
		m[s.ID] = s.Score
	}
	return m
}
