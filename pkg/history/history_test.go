package history

import (
	"reflect"
	"testing"

	"github.com/matzehuels/graphpad/pkg/model"
)

func TestCaptureUndoRestores(t *testing.T) {
	g := model.Default(model.TypeForce, "t")
	before := g.Clone()
	h := New(g)

	h.Capture("add node")
	g.Nodes = append(g.Nodes, &model.Node{ID: "D"})
	g.Links = append(g.Links, model.Edge{Source: "C", Target: "D"})

	if !h.Undo() {
		t.Fatal("Undo() = false")
	}
	if !reflect.DeepEqual(g, before) {
		t.Errorf("after undo graph = %+v, want %+v", g, before)
	}
	if !h.Redo() {
		t.Fatal("Redo() = false")
	}
	if !g.HasNode("D") || !g.HasEdge("C", "D") {
		t.Error("Redo() did not re-apply the change")
	}
}

func TestUndoRedoEmptyIsNoop(t *testing.T) {
	g := model.Default(model.TypeForce, "t")
	calls := 0
	h := New(g, WithOnChange(func() { calls++ }))

	if h.Undo() || h.Redo() {
		t.Error("Undo/Redo on empty stacks should return false")
	}
	if calls != 0 {
		t.Errorf("onChange fired %d times, want 0", calls)
	}
	if len(g.Nodes) != 3 {
		t.Error("graph changed")
	}
}

func TestOnChangeFires(t *testing.T) {
	g := model.Default(model.TypeForce, "t")
	calls := 0
	h := New(g, WithOnChange(func() { calls++ }))
	h.Capture("x")
	g.Title = "changed"
	h.Undo()
	h.Redo()
	if calls != 2 {
		t.Errorf("onChange fired %d times, want 2", calls)
	}
}

func TestCaptureClearsRedo(t *testing.T) {
	g := model.Default(model.TypeForce, "t")
	h := New(g)
	h.Capture("one")
	g.Title = "one"
	h.Undo()
	if !h.CanRedo() {
		t.Fatal("CanRedo() = false after undo")
	}
	h.Capture("two")
	if h.CanRedo() {
		t.Error("Capture should clear the redo stack")
	}
}

func TestSnapshotsAreIsolated(t *testing.T) {
	g := model.Default(model.TypeForce, "t")
	g.Nodes[0].SetPosition(10, 20)
	h := New(g)
	h.Capture("move")

	*g.Nodes[0].X = 500
	g.Nodes[1].Label = "edited"

	h.Undo()
	if x, _, _ := g.Nodes[0].Position(); x != 10 {
		t.Errorf("X after undo = %v, want 10", x)
	}
	if g.Nodes[1].Label != "B" {
		t.Errorf("label after undo = %q, want B", g.Nodes[1].Label)
	}
}

func TestGraphPointerSurvivesUndo(t *testing.T) {
	g := model.Default(model.TypeForce, "t")
	ref := g
	h := New(g)
	h.Capture("title")
	g.Title = "new"
	h.Undo()
	if ref.Title != "t" {
		t.Errorf("external reference sees title %q, want t", ref.Title)
	}
}

func TestWithLimit(t *testing.T) {
	g := model.Default(model.TypeForce, "t")
	h := New(g, WithLimit(2))
	for _, r := range []string{"a", "b", "c"} {
		h.Capture(r)
	}
	if got := h.Reasons(); !reflect.DeepEqual(got, []string{"b", "c"}) {
		t.Errorf("Reasons() = %v, want [b c]", got)
	}
}

func TestDiscardAtLimitKeepsOldest(t *testing.T) {
	g := model.Default(model.TypeForce, "t")
	h := New(g, WithLimit(2))
	h.Capture("a")
	h.Capture("b")

	h.Capture("rejected")
	if got := h.Reasons(); !reflect.DeepEqual(got, []string{"b", "rejected"}) {
		t.Fatalf("Reasons() before Discard = %v", got)
	}
	if !h.Discard() {
		t.Fatal("Discard() after Capture = false")
	}
	if got := h.Reasons(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("Reasons() after Discard = %v, want [a b]", got)
	}

	h.Capture("c")
	if got := h.Reasons(); !reflect.DeepEqual(got, []string{"b", "c"}) {
		t.Errorf("Reasons() after next Capture = %v, want [b c]", got)
	}
}

func TestDiscard(t *testing.T) {
	g := model.Default(model.TypeForce, "t")
	h := New(g)

	h.Capture("rename")
	g.Title = "renamed"
	h.Undo()

	h.Capture("drag")
	if !h.Discard() {
		t.Fatal("Discard() after Capture = false")
	}
	if u, r := h.Len(); u != 0 || r != 1 {
		t.Errorf("Len() = %d, %d; want 0, 1", u, r)
	}
	if h.Discard() {
		t.Error("second Discard() should return false")
	}
	h.Redo()
	if g.Title != "renamed" {
		t.Error("redo stack not restored by Discard")
	}
}

func TestClear(t *testing.T) {
	g := model.Default(model.TypeForce, "t")
	h := New(g)
	h.Capture("a")
	h.Undo()
	h.Capture("b")
	h.Clear()
	if h.CanUndo() || h.CanRedo() {
		t.Error("Clear() should empty both stacks")
	}
}
