// Package ops implements validated mutations of a graph.
//
// An [Editor] ties together one graph, its undo history and a layout engine.
// Every write operation follows the same order:
//
//  1. Check the session access level (viewers get READ_ONLY_ACCESS).
//  2. Validate inputs against the current graph.
//  3. Capture history exactly once.
//  4. Mutate the graph in place.
//
// A failed validation returns a *errors.Error and leaves the graph and
// history untouched. The one documented partial success is [Editor.EditNode],
// where an invalid layer change is reported in [EditResult.LayerErr] while the
// id, label and description changes still apply.
package ops

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/graphpad/pkg/errors"
	"github.com/matzehuels/graphpad/pkg/history"
	"github.com/matzehuels/graphpad/pkg/layout"
	"github.com/matzehuels/graphpad/pkg/model"
)

// Editor applies mutations to a single graph.
//
// Editor is not safe for concurrent use; the session package serializes
// access for servers.
type Editor struct {
	Graph   *model.Graph
	History *history.History
	Layout  *layout.Engine
	Access  model.Access
	Logger  *log.Logger

	drag *dragState
}

// New creates an editor with owner access. A nil history or engine is
// replaced by a fresh one bound to g.
func New(g *model.Graph, h *history.History, eng *layout.Engine) *Editor {
	if h == nil {
		h = history.New(g)
	}
	if eng == nil {
		eng = layout.New(0, 0)
	}
	return &Editor{
		Graph:   g,
		History: h,
		Layout:  eng,
		Access:  model.AccessOwner,
		Logger:  log.NewWithOptions(io.Discard, log.Options{}),
	}
}

func (e *Editor) checkWrite() error {
	if e.Access != "" && !e.Access.CanWrite() {
		return errors.New(errors.ErrCodeReadOnlyAccess, "graph is read-only for %s access", e.Access)
	}
	return nil
}

// capture records one history entry. A drag still in progress is settled
// first so its node and its capture stay consistent.
func (e *Editor) capture(reason string) {
	if e.drag != nil {
		_, _ = e.EndDrag()
	}
	e.History.Capture(reason)
	e.Logger.Debug("captured history", "reason", reason)
}

func (e *Editor) hierarchy() bool { return e.Graph.Type == model.TypeHierarchy }

// Undo restores the previous state. It reports whether anything changed.
func (e *Editor) Undo() (bool, error) {
	if err := e.checkWrite(); err != nil {
		return false, err
	}
	e.drag = nil
	return e.History.Undo(), nil
}

// Redo re-applies the most recently undone state.
func (e *Editor) Redo() (bool, error) {
	if err := e.checkWrite(); err != nil {
		return false, err
	}
	e.drag = nil
	return e.History.Redo(), nil
}
