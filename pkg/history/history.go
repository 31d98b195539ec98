// Package history implements snapshot-based undo and redo for a graph.
//
// Every structural mutation captures a deep copy of the graph before it
// changes anything. Undo swaps the current state onto the redo stack and
// restores the newest capture in place; redo does the reverse. Snapshots are
// full copies, so no snapshot ever shares mutable memory with the live graph
// or with another snapshot.
//
// A History is bound to exactly one [model.Graph] and is not safe for
// concurrent use.
package history

import (
	"slices"

	"github.com/matzehuels/graphpad/pkg/model"
)

// DefaultLimit is the undo depth used when no limit is configured.
const DefaultLimit = 100

// Snapshot is a captured graph state and the reason it was taken.
type Snapshot struct {
	Graph  *model.Graph
	Reason string
}

// Option configures a History.
type Option func(*History)

// WithLimit caps the number of undo entries; the oldest are dropped first.
// Values below 1 disable the cap.
func WithLimit(n int) Option {
	return func(h *History) { h.limit = n }
}

// WithOnChange registers a callback fired after every successful undo or
// redo. Callers use it to redraw and rebuild their id index.
func WithOnChange(fn func()) Option {
	return func(h *History) { h.onChange = fn }
}

// History holds the undo and redo stacks for one graph.
type History struct {
	graph    *model.Graph
	undo     []Snapshot
	redo     []Snapshot
	limit    int
	onChange func()

	// State overwritten by the latest Capture, kept so Discard can roll the
	// capture back completely. Nil once anything else happens.
	discard *discardState
}

type discardState struct {
	redo    []Snapshot
	trimmed []Snapshot // oldest entries dropped by the depth limit
}

// New creates a History bound to g.
func New(g *model.Graph, opts ...Option) *History {
	h := &History{graph: g, limit: DefaultLimit}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// SetOnChange replaces the change callback.
func (h *History) SetOnChange(fn func()) { h.onChange = fn }

// Capture pushes a deep copy of the current graph onto the undo stack and
// clears the redo stack. Call it once per user gesture, before mutating.
func (h *History) Capture(reason string) {
	h.discard = &discardState{redo: h.redo}

	h.undo = append(h.undo, h.snapshot(reason))
	if h.limit > 0 && len(h.undo) > h.limit {
		cut := len(h.undo) - h.limit
		h.discard.trimmed = slices.Clone(h.undo[:cut])
		h.undo = h.undo[cut:]
	}
	h.redo = nil
}

// Discard removes the most recent capture and restores the redo stack that
// Capture cleared. It only acts directly after Capture and returns false
// otherwise. Use it when a gesture turns out to change nothing.
func (h *History) Discard() bool {
	if h.discard == nil || len(h.undo) == 0 {
		return false
	}
	h.undo = append(h.discard.trimmed, h.undo[:len(h.undo)-1]...)
	h.redo = h.discard.redo
	h.discard = nil
	return true
}

// Undo restores the newest captured state. It returns false, and does
// nothing, when the undo stack is empty.
func (h *History) Undo() bool {
	if len(h.undo) == 0 {
		return false
	}
	h.discard = nil

	last := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, h.snapshot(last.Reason))
	h.restore(last)
	return true
}

// Redo re-applies the newest undone state. It returns false, and does
// nothing, when the redo stack is empty.
func (h *History) Redo() bool {
	if len(h.redo) == 0 {
		return false
	}
	h.discard = nil

	last := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, h.snapshot(last.Reason))
	h.restore(last)
	return true
}

// CanUndo reports whether Undo would change the graph.
func (h *History) CanUndo() bool { return len(h.undo) > 0 }

// CanRedo reports whether Redo would change the graph.
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// Len returns the sizes of the undo and redo stacks.
func (h *History) Len() (undo, redo int) { return len(h.undo), len(h.redo) }

// Reasons returns the capture reasons on the undo stack, oldest first.
func (h *History) Reasons() []string {
	out := make([]string, len(h.undo))
	for i, s := range h.undo {
		out[i] = s.Reason
	}
	return out
}

// Clear empties both stacks. Used when a graph is replaced wholesale.
func (h *History) Clear() {
	h.undo, h.redo, h.discard = nil, nil, nil
}

func (h *History) snapshot(reason string) Snapshot {
	return Snapshot{Graph: h.graph.Clone(), Reason: reason}
}

func (h *History) restore(s Snapshot) {
	h.graph.ReplaceWith(s.Graph)
	if h.onChange != nil {
		h.onChange()
	}
}
