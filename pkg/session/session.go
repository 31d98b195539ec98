// Package session binds one editable graph to a storage backend.
//
// A [Session] owns the graph, its undo history, a layout engine and an
// [ops.Editor], and serializes every access behind a mutex so HTTP handlers
// running on separate goroutines can share it. Saves read a settled clone of
// the graph taken under the lock.
//
// # Lifecycle
//
//	sess, err := session.Open(ctx, st, "deps", session.Options{})
//	if err != nil {
//	    return err
//	}
//	err = sess.Mutate(ctx, "add_node", func(e *ops.Editor) error {
//	    _, err := e.AddNode(ops.NodeInput{ID: "d"})
//	    return err
//	})
//	err = sess.Save(ctx)
//
// Open falls back to [model.Default] when the stored graph is missing or has
// no nodes. [Session.Reload] replaces the graph wholesale and clears history.
package session

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/graphpad/pkg/errors"
	"github.com/matzehuels/graphpad/pkg/graph"
	"github.com/matzehuels/graphpad/pkg/history"
	"github.com/matzehuels/graphpad/pkg/layout"
	"github.com/matzehuels/graphpad/pkg/model"
	"github.com/matzehuels/graphpad/pkg/observability"
	"github.com/matzehuels/graphpad/pkg/ops"
	"github.com/matzehuels/graphpad/pkg/store"
)

// Options configures a session.
type Options struct {
	// Canvas size; non-positive values use the layout defaults.
	Width  float64
	Height float64

	// HistoryLimit caps the undo depth (default history.DefaultLimit).
	HistoryLimit int

	// DefaultType is the graph type of the starter graph (default force).
	DefaultType model.Type

	// OnChange is called, with the session lock held, after undo and redo.
	OnChange func()

	Logger *log.Logger
}

// Session is one open graph.
type Session struct {
	ID      string
	GraphID string

	mu        sync.Mutex
	store     store.Store
	editor    *ops.Editor
	opts      Options
	logger    *log.Logger
	lastSaved map[string]graph.PositionRecord
	updated   time.Time
}

// Open loads graphID from st and lays it out. Transient backend failures are
// retried with backoff.
func Open(ctx context.Context, st store.Store, graphID string, opts Options) (*Session, error) {
	if err := errors.ValidateGraphID(graphID); err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	s := &Session{
		ID:      uuid.NewString(),
		GraphID: graphID,
		store:   st,
		opts:    opts,
		logger:  opts.Logger.With("graph", graphID),
	}
	g, access, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	s.install(ctx, g, access)
	return s, nil
}

// load fetches the stored graph, falling back to the starter graph.
func (s *Session) load(ctx context.Context) (*model.Graph, model.Access, error) {
	var doc *graph.Document
	err := store.RetryWithBackoff(ctx, func() error {
		var err error
		doc, err = s.store.Load(ctx, s.GraphID)
		return err
	})
	switch {
	case store.IsNotFound(err):
		s.logger.Info("graph not found, starting from default")
		return model.Default(s.opts.DefaultType, ""), model.AccessOwner, nil
	case err != nil:
		return nil, "", err
	}

	g, access, err := graph.ToModel(*doc)
	if err != nil {
		return nil, "", err
	}
	if len(g.Nodes) == 0 {
		s.logger.Info("stored graph is empty, starting from default")
		t := g.Type
		if doc.Type == "" {
			t = s.opts.DefaultType
		}
		return model.Default(t, g.Title), access, nil
	}
	s.updated = doc.UpdatedAt
	return g, access, nil
}

// install replaces the editor state with g. Callers hold s.mu or own s
// exclusively.
func (s *Session) install(ctx context.Context, g *model.Graph, access model.Access) {
	hopts := []history.Option{}
	if s.opts.HistoryLimit != 0 {
		hopts = append(hopts, history.WithLimit(s.opts.HistoryLimit))
	}
	if s.opts.OnChange != nil {
		hopts = append(hopts, history.WithOnChange(s.opts.OnChange))
	}
	eng := layout.New(s.opts.Width, s.opts.Height)
	s.applyLayout(ctx, eng, g)

	e := ops.New(g, history.New(g, hopts...), eng)
	e.Access = access
	e.Logger = s.logger
	s.editor = e
	s.lastSaved = graph.Positions(g)

	s.logger.Debug("session ready", "nodes", len(g.Nodes), "links", len(g.Links), "type", g.Type, "access", access)
}

func (s *Session) applyLayout(ctx context.Context, eng *layout.Engine, g *model.Graph) {
	start := time.Now()
	err := eng.Apply(g)
	observability.Pipeline().OnLayoutComplete(ctx, string(g.Type), len(g.Nodes), time.Since(start), err)
	if err != nil {
		s.logger.Warn("layout failed", "error", err)
	}
}

// =============================================================================
// Access
// =============================================================================

// Access returns the access level the backend granted.
func (s *Session) Access() model.Access {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editor.Access
}

// Mutate runs fn with exclusive access to the editor and reports the call to
// the editor hooks under op.
func (s *Session) Mutate(ctx context.Context, op string, fn func(*ops.Editor) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	err := fn(s.editor)
	observability.Editor().OnMutation(ctx, op, time.Since(start), err)
	if err != nil {
		s.logger.Debug("mutation rejected", "op", op, "error", err)
	}
	return err
}

// Read runs fn with the lock held. fn must not retain g.
func (s *Session) Read(fn func(g *model.Graph)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.editor.Graph)
}

// Snapshot returns a deep copy of the current graph.
func (s *Session) Snapshot() *model.Graph {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editor.Graph.Clone()
}

// Document returns the current graph in wire form.
func (s *Session) Document() graph.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc := graph.FromModel(s.editor.Graph)
	doc.ID = s.GraphID
	doc.Access = string(s.editor.Access)
	doc.UpdatedAt = s.updated
	return doc
}

// History reports the undo and redo depths.
func (s *Session) History() (undo, redo int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editor.History.Len()
}

// Undo restores the previous state.
func (s *Session) Undo(ctx context.Context) (bool, error) {
	return s.step(ctx, "undo", (*ops.Editor).Undo)
}

// Redo re-applies the most recently undone state.
func (s *Session) Redo(ctx context.Context) (bool, error) {
	return s.step(ctx, "redo", (*ops.Editor).Redo)
}

func (s *Session) step(ctx context.Context, op string, fn func(*ops.Editor) (bool, error)) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	applied, err := fn(s.editor)
	if err == nil {
		observability.Editor().OnHistory(ctx, op, applied)
	}
	return applied, err
}

// =============================================================================
// Persistence
// =============================================================================

// Save writes the full graph to the backend.
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	g := s.editor.Graph.Clone()
	access := s.editor.Access
	s.mu.Unlock()

	if !access.CanWrite() {
		return errors.New(errors.ErrCodeReadOnlyAccess, "graph %q is read-only", s.GraphID)
	}
	if err := s.store.Save(ctx, s.GraphID, graph.NewSaveRequest(g)); err != nil {
		return err
	}

	s.mu.Lock()
	s.lastSaved = graph.Positions(g)
	s.updated = time.Now().UTC()
	s.mu.Unlock()

	s.logger.Info("saved graph", "nodes", len(g.Nodes), "links", len(g.Links))
	return nil
}

// SavePositions sends the positions that changed since the last save and
// returns how many were sent. Nothing is sent when no node moved.
func (s *Session) SavePositions(ctx context.Context) (int, error) {
	s.mu.Lock()
	g := s.editor.Graph.Clone()
	access := s.editor.Access
	delta := graph.PositionsDelta(s.lastSaved, g)
	s.mu.Unlock()

	if !access.CanWrite() {
		return 0, errors.New(errors.ErrCodeReadOnlyAccess, "graph %q is read-only", s.GraphID)
	}
	if len(delta) == 0 {
		return 0, nil
	}
	if err := s.store.SavePositions(ctx, s.GraphID, graph.PositionsRequest{Nodes: delta}); err != nil {
		return 0, err
	}

	s.mu.Lock()
	for _, p := range delta {
		s.lastSaved[p.ID] = p
	}
	s.mu.Unlock()

	s.logger.Debug("saved positions", "count", len(delta))
	return len(delta), nil
}

// Reload replaces the graph with the stored version and clears history.
func (s *Session) Reload(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, access, err := s.load(ctx)
	if err != nil {
		return err
	}
	s.install(ctx, g, access)
	return nil
}
