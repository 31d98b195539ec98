package layout

import (
	"math"
	"testing"

	"github.com/matzehuels/graphpad/pkg/model"
)

const eps = 1e-9

func near(a, b float64) bool { return math.Abs(a-b) < eps }

func chain(t model.Type, ids ...string) *model.Graph {
	g := model.New(t, "")
	for i, id := range ids {
		g.Nodes = append(g.Nodes, &model.Node{ID: id})
		if i > 0 {
			g.Links = append(g.Links, model.Edge{Source: ids[i-1], Target: id})
		}
	}
	return g
}

func TestNew_Defaults(t *testing.T) {
	e := New(0, -5)
	if e.Width != DefaultWidth || e.Height != DefaultHeight {
		t.Errorf("New(0,-5) = %vx%v, want defaults", e.Width, e.Height)
	}
}

func TestApply_UnknownType(t *testing.T) {
	g := chain("spiral", "a")
	if err := New(100, 100).Apply(g); err == nil {
		t.Error("Apply() with unknown type should fail")
	}
}

func TestForce_SeedsMissingAndPins(t *testing.T) {
	e := New(1000, 800)
	g := chain(model.TypeForce, "a", "b", "c", "d")
	g.Nodes[1].SetPosition(5, 6)

	if err := e.Apply(g); err != nil {
		t.Fatal(err)
	}

	if x, y, _ := g.Nodes[1].Position(); x != 5 || y != 6 {
		t.Errorf("positioned node moved to %v,%v", x, y)
	}
	r := 0.38 * 800
	x, y, _ := g.Nodes[0].Position()
	if !near(x, 500+r) || !near(y, 400) {
		t.Errorf("node 0 seeded at %v,%v; want %v,400", x, y, 500+r)
	}
	x, y, _ = g.Nodes[2].Position()
	if !near(x, 500-r) || !near(y, 400) {
		t.Errorf("node 2 seeded at %v,%v; want %v,400", x, y, 500-r)
	}
	if got := len(Pinned(g)); got != 4 {
		t.Errorf("Pinned() = %d nodes, want 4", got)
	}
}

func TestForce_AllPositionedUntouched(t *testing.T) {
	g := chain(model.TypeForce, "a", "b")
	g.Nodes[0].SetPosition(1, 1)
	g.Nodes[1].SetPosition(2, 2)
	_ = New(100, 100).Apply(g)
	if x, _, _ := g.Nodes[1].Position(); x != 2 {
		t.Error("force layout moved a fully positioned graph")
	}
	if !g.Nodes[0].Pinned {
		t.Error("force layout should pin every node")
	}
}

func TestCircle(t *testing.T) {
	e := New(1000, 600)
	g := chain(model.TypeCircle, "a", "b", "c", "d")
	g.Nodes[0].SetPosition(1, 1)
	_ = e.Apply(g)

	r := 0.4 * 600
	for i, n := range g.Nodes {
		x, y, ok := n.Position()
		if !ok {
			t.Fatalf("node %d unpositioned", i)
		}
		if d := math.Hypot(x-500, y-300); !near(d, r) {
			t.Errorf("node %d at distance %v, want %v", i, d, r)
		}
	}
}

func TestGrid(t *testing.T) {
	e := New(400, 400)
	g := chain(model.TypeGrid, "a", "b", "c", "d", "e")
	_ = e.Apply(g)

	// 5 nodes -> 3 columns, 2 rows, centered on (200, 200)
	want := [][2]float64{{160, 180}, {200, 180}, {240, 180}, {160, 220}, {200, 220}}
	for i, n := range g.Nodes {
		x, y, _ := n.Position()
		if !near(x, want[i][0]) || !near(y, want[i][1]) {
			t.Errorf("node %d at %v,%v; want %v", i, x, y, want[i])
		}
	}
}

func TestHierarchy_ChainLayers(t *testing.T) {
	e := New(1200, 800)
	g := chain(model.TypeHierarchy, "A", "B", "C")
	_ = e.Apply(g)

	for i, n := range g.Nodes {
		if n.Layer != i+1 {
			t.Errorf("layer(%s) = %d, want %d", n.ID, n.Layer, i+1)
		}
	}
	// (800-80)/2 = 360, clamped to 140
	s, ok := e.CachedLayers()
	if !ok || s.GapY != MaxGapY || s.StartY != 40 || s.MaxLayer != 3 {
		t.Errorf("layer state = %+v", s)
	}
	if _, y, _ := g.Nodes[2].Position(); y != 40+2*140 {
		t.Errorf("y(C) = %v, want %v", y, 40+2*140)
	}
}

func TestHierarchy_GapClamp(t *testing.T) {
	tests := []struct {
		name   string
		height float64
		rows   int
		want   float64
	}{
		{"single row", 800, 1, 140},
		{"tall canvas", 800, 3, 140},
		{"fits", 580, 5, 125},
		{"cramped", 400, 10, 80},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(1000, tt.height)
			if got := e.Layers(tt.rows).GapY; !near(got, tt.want) {
				t.Errorf("GapY = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHierarchy_RowOrderAndPreservedX(t *testing.T) {
	e := New(1000, 800)
	g := model.New(model.TypeHierarchy, "")
	for _, id := range []string{"n10", "n2", "n1"} {
		g.Nodes = append(g.Nodes, &model.Node{ID: id, Layer: 1})
	}
	g.Nodes[0].SetX(777)
	g.Nodes[0].SetY(-5)

	_ = e.Apply(g)

	n1, _ := g.Node("n1")
	n2, _ := g.Node("n2")
	n10, _ := g.Node("n10")
	startX := (1000 - 2*60.0) / 2
	if !near(*n1.X, startX) || !near(*n2.X, startX+60) {
		t.Errorf("row x = %v, %v; want natural order from %v", *n1.X, *n2.X, startX)
	}
	if *n10.X != 777 {
		t.Errorf("finite x not preserved: %v", *n10.X)
	}
	if *n10.Y != 40 {
		t.Errorf("y not reassigned: %v", *n10.Y)
	}
}

func TestHierarchy_SidePad(t *testing.T) {
	e := New(100, 800)
	g := model.New(model.TypeHierarchy, "")
	for _, id := range []string{"a", "b", "c", "d"} {
		g.Nodes = append(g.Nodes, &model.Node{ID: id, Layer: 1})
	}
	_ = e.Apply(g)
	if *g.Nodes[0].X != HierarchySide {
		t.Errorf("x(a) = %v, want side pad %v", *g.Nodes[0].X, HierarchySide)
	}
}

func TestHierarchy_RecomputesWhenAnyLayerMissing(t *testing.T) {
	g := chain(model.TypeHierarchy, "A", "B")
	g.Nodes[0].Layer = 5
	_ = New(1000, 800).Apply(g)
	if g.Nodes[0].Layer != 1 || g.Nodes[1].Layer != 2 {
		t.Errorf("layers = %d, %d; want 1, 2", g.Nodes[0].Layer, g.Nodes[1].Layer)
	}
}

func TestAssignLayers(t *testing.T) {
	tests := []struct {
		name  string
		nodes []string
		edges [][2]string
		want  map[string]int
	}{
		{
			name:  "diamond",
			nodes: []string{"a", "b", "c", "d"},
			edges: [][2]string{{"a", "b"}, {"a", "c"}, {"b", "d"}, {"c", "d"}},
			want:  map[string]int{"a": 1, "b": 2, "c": 2, "d": 3},
		},
		{
			name:  "longest path wins",
			nodes: []string{"a", "b", "c"},
			edges: [][2]string{{"a", "c"}, {"a", "b"}, {"b", "c"}},
			want:  map[string]int{"a": 1, "b": 2, "c": 3},
		},
		{
			name:  "isolated and self loop",
			nodes: []string{"a", "b"},
			edges: [][2]string{{"b", "b"}},
			want:  map[string]int{"a": 1, "b": 1},
		},
		{
			name:  "cycle fallback",
			nodes: []string{"r", "x", "y"},
			edges: [][2]string{{"r", "x"}, {"x", "y"}, {"y", "x"}},
			want:  map[string]int{"r": 1, "x": 2, "y": 3},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := model.New(model.TypeHierarchy, "")
			for _, id := range tt.nodes {
				g.Nodes = append(g.Nodes, &model.Node{ID: id})
			}
			for _, e := range tt.edges {
				g.Links = append(g.Links, model.Edge{Source: e[0], Target: e[1]})
			}
			AssignLayers(g)
			for _, n := range g.Nodes {
				if n.Layer != tt.want[n.ID] {
					t.Errorf("layer(%s) = %d, want %d", n.ID, n.Layer, tt.want[n.ID])
				}
			}
		})
	}
}

func TestSnapNodeToLayer(t *testing.T) {
	e := New(1000, 800)
	g := chain(model.TypeHierarchy, "A", "B")
	_ = e.Apply(g)

	n := &model.Node{ID: "new"}
	e.SnapNodeToLayer(n, 4)

	if n.Layer != 4 {
		t.Errorf("Layer = %d, want 4", n.Layer)
	}
	if *n.X != 500 {
		t.Errorf("X = %v, want canvas center", *n.X)
	}
	s, _ := e.CachedLayers()
	if s.MaxLayer != 4 {
		t.Errorf("MaxLayer = %d, want 4", s.MaxLayer)
	}
	if *n.Y != e.YForLayer(4) || *n.Y != s.StartY+3*s.GapY {
		t.Errorf("Y = %v, want %v", *n.Y, s.StartY+3*s.GapY)
	}
}

func TestResizeInvalidatesCache(t *testing.T) {
	e := New(1000, 800)
	e.Layers(3)
	e.Resize(500, 400)
	if _, ok := e.CachedLayers(); ok {
		t.Error("Resize() should drop cached layer geometry")
	}
}

func TestAllHavePositions(t *testing.T) {
	g := model.New(model.TypeForce, "")
	if AllHavePositions(g) {
		t.Error("empty graph should report false")
	}
	g.Nodes = []*model.Node{{ID: "a"}}
	if AllHavePositions(g) {
		t.Error("unpositioned node should report false")
	}
	g.Nodes[0].SetPosition(math.NaN(), 1)
	if AllHavePositions(g) {
		t.Error("NaN coordinate should report false")
	}
	g.Nodes[0].SetPosition(0, 0)
	if !AllHavePositions(g) {
		t.Error("positioned node should report true")
	}
}

func TestFit(t *testing.T) {
	g := model.New(model.TypeForce, "")
	if _, ok := Fit(g, 10); ok {
		t.Error("Fit() on empty graph should report false")
	}
	g.Nodes = []*model.Node{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	g.Nodes[0].SetPosition(10, 20)
	g.Nodes[1].SetPosition(-10, 50)
	r, ok := Fit(g, 5)
	if !ok || r != (Rect{MinX: -15, MinY: 15, MaxX: 15, MaxY: 55}) {
		t.Errorf("Fit() = %+v, %v", r, ok)
	}
	if r.Width() != 30 || r.Height() != 40 {
		t.Errorf("size = %vx%v", r.Width(), r.Height())
	}
}
