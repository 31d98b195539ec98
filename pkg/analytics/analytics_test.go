package analytics

import (
	"math"
	"reflect"
	"testing"

	"github.com/matzehuels/graphpad/pkg/errors"
	"github.com/matzehuels/graphpad/pkg/model"
)

func graphOf(ids []string, edges ...model.Edge) *model.Graph {
	g := model.New(model.TypeForce, "")
	for _, id := range ids {
		g.Nodes = append(g.Nodes, &model.Node{ID: id})
	}
	g.Links = edges
	return g
}

func edge(s, t string, w ...float64) model.Edge {
	e := model.Edge{Source: s, Target: t}
	if len(w) > 0 {
		e.Weight = model.Float(w[0])
	}
	return e
}

func triangle() *model.Graph {
	return graphOf([]string{"A", "B", "C"},
		edge("A", "B", 2), edge("B", "C", 3), edge("A", "C", 10))
}

func TestShortestPath_Weighted(t *testing.T) {
	g := triangle()
	before := g.Clone()

	res := ShortestPath(g, "A", "C", PathOptions{})

	if !res.OK || res.Total != 5 {
		t.Fatalf("ShortestPath() = %+v, want total 5", res)
	}
	if !reflect.DeepEqual(res.Nodes, []string{"A", "B", "C"}) {
		t.Errorf("Nodes = %v, want [A B C]", res.Nodes)
	}
	want := []PathEdge{{"A", "B"}, {"B", "C"}}
	if !reflect.DeepEqual(res.Edges, want) {
		t.Errorf("Edges = %v, want %v", res.Edges, want)
	}
	if !reflect.DeepEqual(g, before) {
		t.Error("ShortestPath modified the graph")
	}
}

func TestShortestPath_UndirectedVsDirected(t *testing.T) {
	g := triangle()

	res := ShortestPath(g, "C", "A", PathOptions{})
	if !res.OK || res.Total != 5 {
		t.Errorf("undirected C→A = %+v, want total 5", res)
	}

	res = ShortestPath(g, "C", "A", PathOptions{Directed: true})
	if res.OK || res.Code != errors.ErrCodeNoPath {
		t.Errorf("directed C→A = %+v, want NO_PATH", res)
	}
}

func TestShortestPath_Failures(t *testing.T) {
	g := graphOf([]string{"X", "Y"})

	res := ShortestPath(g, "X", "Y", PathOptions{})
	if res.OK || res.Code != errors.ErrCodeNoPath || res.Msg == "" {
		t.Errorf("disconnected = %+v", res)
	}
	if !errors.Is(res.Err(), errors.ErrCodeNoPath) {
		t.Errorf("Err() = %v", res.Err())
	}

	res = ShortestPath(g, "X", "nope", PathOptions{})
	if res.OK || res.Code != errors.ErrCodeUnknownNode {
		t.Errorf("unknown = %+v", res)
	}
}

func TestShortestPath_SameNode(t *testing.T) {
	res := ShortestPath(triangle(), "B", "B", PathOptions{})
	if !res.OK || res.Total != 0 || !reflect.DeepEqual(res.Nodes, []string{"B"}) || len(res.Edges) != 0 {
		t.Errorf("ShortestPath(B, B) = %+v", res)
	}
	if res.Err() != nil {
		t.Error("Err() should be nil on success")
	}
}

func TestShortestPath_WeightRules(t *testing.T) {
	tests := []struct {
		name  string
		w     float64
		total float64
	}{
		{"negative clamps to zero", -5, 0},
		{"nan defaults to one", math.NaN(), 1},
		{"inf defaults to one", math.Inf(1), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := graphOf([]string{"A", "B"}, edge("A", "B", tt.w))
			res := ShortestPath(g, "A", "B", PathOptions{})
			if !res.OK || res.Total != tt.total {
				t.Errorf("total = %v, want %v", res.Total, tt.total)
			}
		})
	}

	g := graphOf([]string{"A", "B"}, edge("A", "B"))
	if res := ShortestPath(g, "A", "B", PathOptions{}); res.Total != 1 {
		t.Errorf("unweighted total = %v, want 1", res.Total)
	}
}

func TestShortestPath_TieBreakFirstIndex(t *testing.T) {
	// Two equal-cost routes S→M1→T and S→M2→T; M1 is scanned first.
	g := graphOf([]string{"S", "M1", "M2", "T"},
		edge("S", "M1"), edge("S", "M2"), edge("M1", "T"), edge("M2", "T"))
	res := ShortestPath(g, "S", "T", PathOptions{})
	if !reflect.DeepEqual(res.Nodes, []string{"S", "M1", "T"}) {
		t.Errorf("Nodes = %v, want via M1", res.Nodes)
	}
}

func TestDegreeCentrality(t *testing.T) {
	g := graphOf([]string{"A", "B", "C"}, edge("A", "B"), edge("A", "C"))

	tests := []struct {
		mode DegreeMode
		want map[string]float64
	}{
		{DegreeOut, map[string]float64{"A": 2, "B": 0, "C": 0}},
		{DegreeIn, map[string]float64{"A": 0, "B": 1, "C": 1}},
		{DegreeTotal, map[string]float64{"A": 2, "B": 1, "C": 1}},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			got := ScoreMap(DegreeCentrality(g, tt.mode))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DegreeCentrality(%s) = %v, want %v", tt.mode, got, tt.want)
			}
		})
	}
}

func TestDegreeCentrality_CountsParallelEdges(t *testing.T) {
	g := graphOf([]string{"A", "B"}, edge("A", "B"), edge("A", "B"))
	if got := ScoreMap(DegreeCentrality(g, DegreeOut))["A"]; got != 2 {
		t.Errorf("out(A) = %v, want 2", got)
	}
}

func TestParseDegreeMode(t *testing.T) {
	if m, err := ParseDegreeMode(""); err != nil || m != DegreeTotal {
		t.Errorf("ParseDegreeMode(\"\") = %v, %v", m, err)
	}
	if _, err := ParseDegreeMode("both"); err == nil {
		t.Error("ParseDegreeMode(both) should fail")
	}
}

func sum(scores []Score) float64 {
	total := 0.0
	for _, s := range scores {
		total += s.Score
	}
	return total
}

func TestPageRank_MutualPair(t *testing.T) {
	g := graphOf([]string{"A", "B"}, edge("A", "B"), edge("B", "A"))
	res := PageRank(g, PageRankOptions{})

	m := ScoreMap(res.Scores)
	if math.Abs(m["A"]-0.5) > 1e-6 || math.Abs(m["B"]-0.5) > 1e-6 {
		t.Errorf("scores = %v, want 0.5 each", m)
	}
	if !res.Converged {
		t.Error("symmetric pair should converge")
	}
}

func TestPageRank_SumsToOne(t *testing.T) {
	g := graphOf([]string{"A", "B", "C", "D"},
		edge("A", "B"), edge("A", "C"), edge("B", "C"), edge("C", "A"),
		edge("C", "C"), edge("A", "B"))
	res := PageRank(g, PageRankOptions{})
	if s := sum(res.Scores); math.Abs(s-1) > 1e-9 {
		t.Errorf("sum = %v, want 1", s)
	}
	m := ScoreMap(res.Scores)
	if m["C"] <= m["D"] {
		t.Errorf("C (%v) should outrank dangling D (%v)", m["C"], m["D"])
	}
}

func TestPageRank_ParallelAndSelfLoopIgnored(t *testing.T) {
	plain := graphOf([]string{"A", "B", "C"}, edge("A", "B"), edge("A", "C"))
	noisy := graphOf([]string{"A", "B", "C"},
		edge("A", "B"), edge("A", "B"), edge("A", "B"), edge("A", "C"), edge("A", "A"))

	a := PageRank(plain, PageRankOptions{})
	b := PageRank(noisy, PageRankOptions{})
	if !reflect.DeepEqual(a.Scores, b.Scores) {
		t.Errorf("scores differ: %v vs %v", a.Scores, b.Scores)
	}
}

func TestPageRank_MaxIter(t *testing.T) {
	g := graphOf([]string{"A", "B", "C"}, edge("A", "B"), edge("B", "C"))
	res := PageRank(g, PageRankOptions{MaxIter: 2, Tol: 1e-300})
	if res.Iterations != 2 || res.Converged {
		t.Errorf("Iterations = %d, Converged = %v", res.Iterations, res.Converged)
	}
}

func TestPageRank_Empty(t *testing.T) {
	res := PageRank(model.New(model.TypeForce, ""), PageRankOptions{})
	if len(res.Scores) != 0 || !res.Converged {
		t.Errorf("PageRank(empty) = %+v", res)
	}
}

func TestTopN(t *testing.T) {
	scores := []Score{{"n10", 1}, {"n2", 1}, {"a", 3}, {"b", 0.5}}
	got := TopN(scores, 3)
	want := []Score{{"a", 3}, {"n2", 1}, {"n10", 1}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TopN() = %v, want %v", got, want)
	}
	if scores[0].ID != "n10" {
		t.Error("TopN() modified its input")
	}
	if len(TopN(scores, 0)) != 4 {
		t.Error("TopN(0) should return all scores")
	}
}
