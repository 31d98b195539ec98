package store

import (
	"context"
	"time"

	"github.com/matzehuels/graphpad/pkg/graph"
	"github.com/matzehuels/graphpad/pkg/observability"
)

// Instrument wraps s so every call is reported to the registered store hooks
// under the given backend name.
func Instrument(s Store, backend string) Store {
	if _, ok := s.(*instrumented); ok {
		return s
	}
	return &instrumented{next: s, backend: backend}
}

type instrumented struct {
	next    Store
	backend string
}

func (s *instrumented) observe(ctx context.Context, op string, start time.Time, err error) {
	observability.Store().OnStoreOp(ctx, s.backend, op, time.Since(start), err)
}

func (s *instrumented) Load(ctx context.Context, graphID string) (*graph.Document, error) {
	start := time.Now()
	doc, err := s.next.Load(ctx, graphID)
	s.observe(ctx, "load", start, err)
	return doc, err
}

func (s *instrumented) Save(ctx context.Context, graphID string, req graph.SaveRequest) error {
	start := time.Now()
	err := s.next.Save(ctx, graphID, req)
	s.observe(ctx, "save", start, err)
	return err
}

func (s *instrumented) SavePositions(ctx context.Context, graphID string, req graph.PositionsRequest) error {
	start := time.Now()
	err := s.next.SavePositions(ctx, graphID, req)
	s.observe(ctx, "save_positions", start, err)
	return err
}

func (s *instrumented) Close() error { return s.next.Close() }

// Unwrap returns the wrapped backend.
func (s *instrumented) Unwrap() Store { return s.next }
