package ops

import (
	"reflect"
	"testing"

	"github.com/matzehuels/graphpad/pkg/errors"
	"github.com/matzehuels/graphpad/pkg/layout"
	"github.com/matzehuels/graphpad/pkg/model"
)

func newEditor(t model.Type, ids ...string) *Editor {
	g := model.New(t, "test")
	for _, id := range ids {
		g.Nodes = append(g.Nodes, &model.Node{ID: id})
	}
	e := New(g, nil, layout.New(1000, 800))
	return e
}

func undoLen(e *Editor) int {
	u, _ := e.History.Len()
	return u
}

func wantCode(t *testing.T, err error, code errors.Code) {
	t.Helper()
	if !errors.Is(err, code) {
		t.Fatalf("error = %v, want code %s", err, code)
	}
}

func TestAddNode(t *testing.T) {
	e := newEditor(model.TypeForce, "A")

	n, err := e.AddNode(NodeInput{ID: "B", Label: "Bee", X: model.Float(3), Y: model.Float(4)})
	if err != nil {
		t.Fatalf("AddNode() error = %v", err)
	}
	if x, y, _ := n.Position(); x != 3 || y != 4 || !n.Pinned {
		t.Errorf("node = %+v", n)
	}
	if undoLen(e) != 1 {
		t.Errorf("captures = %d, want 1", undoLen(e))
	}

	_, err = e.AddNode(NodeInput{ID: "B"})
	wantCode(t, err, errors.ErrCodeDuplicateID)
	_, err = e.AddNode(NodeInput{ID: "  "})
	wantCode(t, err, errors.ErrCodeEmptyID)

	if undoLen(e) != 1 || len(e.Graph.Nodes) != 2 {
		t.Error("failed AddNode should not capture or mutate")
	}
}

func TestAddNode_DefaultPlacement(t *testing.T) {
	e := newEditor(model.TypeCircle)
	n, _ := e.AddNode(NodeInput{ID: "c"})
	if x, y, _ := n.Position(); x != 500 || y != 400 {
		t.Errorf("position = %v,%v; want canvas center", x, y)
	}
}

func TestAddNode_HierarchyLayerOne(t *testing.T) {
	e := newEditor(model.TypeHierarchy)
	n, err := e.AddNode(NodeInput{ID: "root"})
	if err != nil {
		t.Fatal(err)
	}
	if n.Layer != 1 || *n.Y != e.Layout.YForLayer(1) {
		t.Errorf("layer = %d, y = %v", n.Layer, *n.Y)
	}
}

func TestReadOnlyAccess(t *testing.T) {
	e := newEditor(model.TypeForce, "A", "B")
	e.Access = model.AccessViewer

	_, err := e.AddNode(NodeInput{ID: "C"})
	wantCode(t, err, errors.ErrCodeReadOnlyAccess)
	_, err = e.AddOrUpdateEdge("A", "B", nil)
	wantCode(t, err, errors.ErrCodeReadOnlyAccess)
	wantCode(t, e.DeleteNode("A"), errors.ErrCodeReadOnlyAccess)
	wantCode(t, e.SetTitle("x"), errors.ErrCodeReadOnlyAccess)
	_, err = e.Undo()
	wantCode(t, err, errors.ErrCodeReadOnlyAccess)

	if undoLen(e) != 0 {
		t.Error("read-only editor captured history")
	}
}

func TestEditNode_RenameRewritesEdges(t *testing.T) {
	e := newEditor(model.TypeForce, "A", "B", "C")
	e.Graph.Links = []model.Edge{{Source: "A", Target: "B"}, {Source: "C", Target: "A"}}

	res, err := e.EditNode("A", NodeEdit{ID: ptr("Z"), Label: ptr("zed")})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Renamed || res.Node.ID != "Z" || res.Node.Label != "zed" {
		t.Errorf("result = %+v", res)
	}
	if !e.Graph.HasEdge("Z", "B") || !e.Graph.HasEdge("C", "Z") {
		t.Errorf("links = %v", e.Graph.Links)
	}
	if undoLen(e) != 1 {
		t.Errorf("captures = %d, want 1", undoLen(e))
	}

	e.Undo()
	if !e.Graph.HasNode("A") || !e.Graph.HasEdge("A", "B") {
		t.Error("undo did not restore the rename")
	}
}

func TestEditNode_Errors(t *testing.T) {
	e := newEditor(model.TypeForce, "A", "B")

	_, err := e.EditNode("A", NodeEdit{ID: ptr("")})
	wantCode(t, err, errors.ErrCodeEmptyID)
	_, err = e.EditNode("A", NodeEdit{ID: ptr("B")})
	wantCode(t, err, errors.ErrCodeDuplicateID)
	_, err = e.EditNode("nope", NodeEdit{Label: ptr("x")})
	wantCode(t, err, errors.ErrCodeNotFound)

	res, err := e.EditNode("A", NodeEdit{ID: ptr("A"), Label: ptr("")})
	if err != nil || res.Changed {
		t.Errorf("no-op edit = %+v, %v", res, err)
	}
	if undoLen(e) != 0 {
		t.Error("failed or no-op edits should not capture")
	}
}

func TestEditNode_LayerPartialSuccess(t *testing.T) {
	e := hierarchyEditor(t)

	// B sits between A (1) and C (3); moving it to 3 breaks B→C.
	res, err := e.EditNode("B", NodeEdit{Label: ptr("middle"), Layer: intPtr(3)})
	if err != nil {
		t.Fatal(err)
	}
	if res.LayerErr == nil || !errors.Is(res.LayerErr, errors.ErrCodeInvalidDirection) {
		t.Fatalf("LayerErr = %v, want INVALID_DIRECTION", res.LayerErr)
	}
	b, _ := e.Graph.Node("B")
	if b.Label != "middle" || b.Layer != 2 {
		t.Errorf("B = %+v; want label applied and layer kept at 2", b)
	}
}

func TestEditNode_LayerOnly_Rejected(t *testing.T) {
	e := hierarchyEditor(t)
	before := undoLen(e)
	res, err := e.EditNode("A", NodeEdit{Layer: intPtr(2)})
	if err != nil || res.LayerErr == nil || res.Changed {
		t.Errorf("result = %+v, %v", res, err)
	}
	if undoLen(e) != before {
		t.Error("rejected layer-only edit captured history")
	}
}

func TestEditNode_LayerApplied(t *testing.T) {
	e := hierarchyEditor(t)
	res, err := e.EditNode("C", NodeEdit{Layer: intPtr(5)})
	if err != nil || res.LayerErr != nil {
		t.Fatalf("EditNode() = %+v, %v", res, err)
	}
	c, _ := e.Graph.Node("C")
	if c.Layer != 5 || *c.Y != e.Layout.YForLayer(5) {
		t.Errorf("C layer = %d, y = %v", c.Layer, *c.Y)
	}
}

func TestDeleteNode_Cascade(t *testing.T) {
	e := newEditor(model.TypeForce, "A", "B", "C")
	e.Graph.Links = []model.Edge{
		{Source: "A", Target: "B"},
		{Source: "B", Target: "C"},
		{Source: "A", Target: "C"},
	}

	if err := e.DeleteNode("B"); err != nil {
		t.Fatal(err)
	}
	want := []model.Edge{{Source: "A", Target: "C"}}
	if !reflect.DeepEqual(e.Graph.Links, want) {
		t.Errorf("links = %v, want %v", e.Graph.Links, want)
	}
	if !layout.AllHavePositions(e.Graph) {
		t.Error("DeleteNode should re-apply layout")
	}
	wantCode(t, e.DeleteNode("B"), errors.ErrCodeNotFound)
}

func TestAddOrUpdateEdge(t *testing.T) {
	t.Run("validation", func(t *testing.T) {
		e := newEditor(model.TypeForce, "A", "B")
		_, err := e.AddOrUpdateEdge("A", "A", nil)
		wantCode(t, err, errors.ErrCodeSameEndpoint)
		_, err = e.AddOrUpdateEdge("A", "Z", nil)
		wantCode(t, err, errors.ErrCodeMissingEndpoint)
		if undoLen(e) != 0 {
			t.Error("failed edge add captured history")
		}
	})

	t.Run("force updates weight in place", func(t *testing.T) {
		e := newEditor(model.TypeForce, "A", "B")
		res, _ := e.AddOrUpdateEdge("A", "B", model.Float(2))
		if res.Outcome != EdgeAdded {
			t.Fatalf("outcome = %v", res.Outcome)
		}
		res, _ = e.AddOrUpdateEdge("A", "B", model.Float(7))
		if res.Outcome != EdgeUpdated || *e.Graph.Links[0].Weight != 7 || len(e.Graph.Links) != 1 {
			t.Errorf("outcome = %v, links = %v", res.Outcome, e.Graph.Links)
		}
		res, _ = e.AddOrUpdateEdge("A", "B", nil)
		if res.Outcome != EdgeUnchanged {
			t.Errorf("nil weight on existing pair = %v, want unchanged", res.Outcome)
		}
		if undoLen(e) != 2 {
			t.Errorf("captures = %d, want 2", undoLen(e))
		}
	})

	t.Run("non-force duplicate is silent no-op", func(t *testing.T) {
		e := newEditor(model.TypeGrid, "A", "B")
		res, err := e.AddOrUpdateEdge("A", "B", model.Float(5))
		if err != nil || res.Outcome != EdgeAdded || !res.WeightIgnored {
			t.Fatalf("first add = %+v, %v", res, err)
		}
		if e.Graph.Links[0].Weight != nil {
			t.Error("weight stored on non-force graph")
		}
		res, err = e.AddOrUpdateEdge("A", "B", nil)
		if err != nil || res.Outcome != EdgeUnchanged || len(e.Graph.Links) != 1 {
			t.Errorf("duplicate add = %+v, %v", res, err)
		}
	})

	t.Run("reverse direction is a different edge", func(t *testing.T) {
		e := newEditor(model.TypeForce, "A", "B")
		e.AddOrUpdateEdge("A", "B", nil)
		e.AddOrUpdateEdge("B", "A", nil)
		if len(e.Graph.Links) != 2 {
			t.Errorf("links = %v", e.Graph.Links)
		}
	})
}

func TestAddOrUpdateEdge_HierarchyDirection(t *testing.T) {
	e := hierarchyEditor(t)

	_, err := e.AddOrUpdateEdge("C", "A", nil)
	wantCode(t, err, errors.ErrCodeInvalidDirection)

	if _, err := e.AddNode(NodeInput{ID: "D"}); err != nil {
		t.Fatal(err)
	}
	_, err = e.AddOrUpdateEdge("A", "D", nil)
	wantCode(t, err, errors.ErrCodeInvalidDirection)

	if res, err := e.AddOrUpdateEdge("A", "C", nil); err != nil || res.Outcome != EdgeAdded {
		t.Errorf("A→C = %+v, %v", res, err)
	}
}

func TestRemoveEdge(t *testing.T) {
	e := newEditor(model.TypeForce, "A", "B")
	e.AddOrUpdateEdge("A", "B", nil)

	wantCode(t, e.RemoveEdge("B", "A"), errors.ErrCodeEdgeNotFound)
	if err := e.RemoveEdge("A", "B"); err != nil {
		t.Fatal(err)
	}
	if len(e.Graph.Links) != 0 {
		t.Error("edge not removed")
	}
}

func TestValidateLayerChange(t *testing.T) {
	e := hierarchyEditor(t)
	tests := []struct {
		id    string
		layer int
		ok    bool
	}{
		{"A", 1, true},
		{"A", 2, false},
		{"B", 2, true},
		{"B", 1, false},
		{"C", 9, true},
		{"C", 2, false},
	}
	for _, tt := range tests {
		err := e.ValidateLayerChange(tt.id, tt.layer)
		if (err == nil) != tt.ok {
			t.Errorf("ValidateLayerChange(%s, %d) = %v", tt.id, tt.layer, err)
		}
	}
}

func TestSetNodeLayer(t *testing.T) {
	e := hierarchyEditor(t)
	wantCode(t, e.SetNodeLayer("B", 3), errors.ErrCodeInvalidDirection)
	wantCode(t, e.SetNodeLayer("B", 0), errors.ErrCodeInvalidInput)
	if err := e.SetNodeLayer("C", 4); err != nil {
		t.Fatal(err)
	}
	c, _ := e.Graph.Node("C")
	if c.Layer != 4 {
		t.Errorf("layer = %d, want 4", c.Layer)
	}

	f := newEditor(model.TypeForce, "A")
	wantCode(t, f.SetNodeLayer("A", 2), errors.ErrCodeInvalidInput)
}

func TestDrag_OneCapture(t *testing.T) {
	e := newEditor(model.TypeForce, "A")
	_ = e.Layout.Apply(e.Graph)

	if err := e.BeginDrag("A"); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		e.DragTo(float64(i), float64(i))
	}
	moved, err := e.EndDrag()
	if err != nil || !moved {
		t.Fatalf("EndDrag() = %v, %v", moved, err)
	}
	if undoLen(e) != 1 {
		t.Errorf("captures = %d, want 1 per drag", undoLen(e))
	}
}

func TestDrag_NoMovementDiscards(t *testing.T) {
	e := newEditor(model.TypeForce, "A")
	_ = e.Layout.Apply(e.Graph)
	x, y, _ := e.Graph.Nodes[0].Position()

	e.BeginDrag("A")
	e.DragTo(x+50, y)
	e.DragTo(x, y)
	moved, _ := e.EndDrag()

	if moved || undoLen(e) != 0 {
		t.Errorf("moved = %v, captures = %d; want false, 0", moved, undoLen(e))
	}
	if _, err := e.EndDrag(); err == nil {
		t.Error("EndDrag() without drag should fail")
	}
}

func TestDrag_HierarchySnapsRow(t *testing.T) {
	e := hierarchyEditor(t)
	e.BeginDrag("C")
	e.DragTo(10, e.Layout.YForLayer(4)+12)
	moved, err := e.EndDrag()
	if err != nil || !moved {
		t.Fatalf("EndDrag() = %v, %v", moved, err)
	}
	c, _ := e.Graph.Node("C")
	if c.Layer != 4 || *c.Y != e.Layout.YForLayer(4) || *c.X != 10 {
		t.Errorf("C = layer %d at %v,%v", c.Layer, *c.X, *c.Y)
	}

	// Dragging B onto row 1 would make A→B horizontal.
	e.BeginDrag("B")
	e.DragTo(20, e.Layout.YForLayer(1))
	_, err = e.EndDrag()
	wantCode(t, err, errors.ErrCodeInvalidDirection)
	b, _ := e.Graph.Node("B")
	if b.Layer != 2 || *b.X != 20 {
		t.Errorf("B = layer %d x %v; want layer 2 with new x", b.Layer, *b.X)
	}
}

func TestDrag_AfterNewBottomRowKeepsRows(t *testing.T) {
	ids := []string{"n1", "n2", "n3", "n4", "n5", "n6", "n7", "solo"}
	e := newEditor(model.TypeHierarchy, ids...)
	for i := 0; i < 6; i++ {
		e.Graph.Links = append(e.Graph.Links, model.Edge{Source: ids[i], Target: ids[i+1]})
	}
	if err := e.Layout.Apply(e.Graph); err != nil {
		t.Fatal(err)
	}

	if err := e.SetNodeLayer("solo", 8); err != nil {
		t.Fatalf("SetNodeLayer(solo, 8) error = %v", err)
	}

	n7, _ := e.Graph.Node("n7")
	x, y := *n7.X, *n7.Y
	if err := e.BeginDrag("n7"); err != nil {
		t.Fatal(err)
	}
	e.DragTo(x+5, y)
	moved, err := e.EndDrag()
	if err != nil || !moved {
		t.Fatalf("EndDrag() = %v, %v", moved, err)
	}
	if n7.Layer != 7 || *n7.Y != y {
		t.Errorf("horizontal drag moved n7 to layer %d at y %v; want layer 7 at y %v", n7.Layer, *n7.Y, y)
	}

	solo, _ := e.Graph.Node("solo")
	n6, _ := e.Graph.Node("n6")
	if gap := *solo.Y - *n7.Y; gap != *n7.Y-*n6.Y {
		t.Errorf("row 8 gap = %v, want %v", gap, *n7.Y-*n6.Y)
	}
}

func TestDrag_SecondBeginRejected(t *testing.T) {
	e := newEditor(model.TypeForce, "A", "B")
	_ = e.Layout.Apply(e.Graph)

	if err := e.BeginDrag("A"); err != nil {
		t.Fatal(err)
	}
	wantCode(t, e.BeginDrag("B"), errors.ErrCodeInvalidInput)
	if undoLen(e) != 1 {
		t.Errorf("captures = %d, want 1", undoLen(e))
	}
}

func TestDrag_OtherMutationSettlesDrag(t *testing.T) {
	e := newEditor(model.TypeForce, "A", "B")
	_ = e.Layout.Apply(e.Graph)
	x, y, _ := e.Graph.Nodes[0].Position()

	e.BeginDrag("A")
	e.DragTo(x+40, y)
	if err := e.DeleteNode("A"); err != nil {
		t.Fatal(err)
	}
	if e.Graph.HasNode("A") {
		t.Fatal("A should be deleted")
	}
	if _, err := e.EndDrag(); err == nil {
		t.Error("EndDrag() after delete should report no drag in progress")
	}
	if got := e.History.Reasons(); !reflect.DeepEqual(got, []string{"drag node", "delete node"}) {
		t.Errorf("Reasons() = %v, want drag then delete", got)
	}

	e.Undo()
	a, ok := e.Graph.Node("A")
	if !ok {
		t.Fatal("undo should restore A")
	}
	if ax, _, _ := a.Position(); ax != x+40 {
		t.Errorf("A.x after undo = %v, want dragged x %v", ax, x+40)
	}
}

func TestMoveNode(t *testing.T) {
	e := hierarchyEditor(t)
	if err := e.MoveNode("A", 99, 555); err != nil {
		t.Fatal(err)
	}
	a, _ := e.Graph.Node("A")
	if *a.X != 99 || *a.Y != e.Layout.YForLayer(1) {
		t.Errorf("A at %v,%v; hierarchy moves keep the row", *a.X, *a.Y)
	}
	wantCode(t, e.MoveNode("zz", 0, 0), errors.ErrCodeNotFound)
}

func TestSetType(t *testing.T) {
	e := newEditor(model.TypeForce, "A", "B", "C")
	e.Graph.Links = []model.Edge{{Source: "A", Target: "B"}, {Source: "B", Target: "C"}}
	_ = e.Layout.Apply(e.Graph)

	if err := e.SetType(model.TypeHierarchy); err != nil {
		t.Fatal(err)
	}
	for i, n := range e.Graph.Nodes {
		if n.Layer != i+1 || !n.HasPosition() {
			t.Errorf("node %s layer %d", n.ID, n.Layer)
		}
	}
	wantCode(t, e.SetType("spiral"), errors.ErrCodeInvalidInput)

	e.Undo()
	if e.Graph.Type != model.TypeForce {
		t.Errorf("type after undo = %s", e.Graph.Type)
	}
}

func TestSetTitle(t *testing.T) {
	e := newEditor(model.TypeForce)
	if err := e.SetTitle("new"); err != nil || e.Graph.Title != "new" {
		t.Errorf("SetTitle() = %v, title %q", err, e.Graph.Title)
	}
	if err := e.SetTitle("new"); err != nil || undoLen(e) != 1 {
		t.Error("unchanged title should not capture")
	}
}

func TestRelayout(t *testing.T) {
	e := newEditor(model.TypeGrid, "A", "B")
	e.Graph.Nodes[0].SetPosition(-1000, -1000)
	e.Graph.Nodes[1].SetPosition(-2000, -1000)
	if err := e.Relayout(); err != nil {
		t.Fatal(err)
	}
	if x, _, _ := e.Graph.Nodes[0].Position(); x == -1000 {
		t.Error("Relayout() kept stale positions")
	}
}

func hierarchyEditor(t *testing.T) *Editor {
	t.Helper()
	e := newEditor(model.TypeHierarchy, "A", "B", "C")
	e.Graph.Links = []model.Edge{{Source: "A", Target: "B"}, {Source: "B", Target: "C"}}
	if err := e.Layout.Apply(e.Graph); err != nil {
		t.Fatal(err)
	}
	return e
}

func ptr(s string) *string { return &s }
func intPtr(i int) *int    { return &i }
