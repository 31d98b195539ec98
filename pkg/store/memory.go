package store

import (
	"context"
	"sync"
	"time"

	"github.com/matzehuels/graphpad/pkg/errors"
	"github.com/matzehuels/graphpad/pkg/graph"
	"github.com/matzehuels/graphpad/pkg/model"
)

// MemoryStore keeps documents in a map. Documents are copied on the way in
// and out.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]graph.Document
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]graph.Document)}
}

// Put stores doc as-is under graphID, including its access level.
func (s *MemoryStore) Put(graphID string, doc graph.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc.ID = graphID
	s.docs[graphID] = cloneDocument(doc)
}

// SetAccess changes the access level of a stored graph.
func (s *MemoryStore) SetAccess(graphID string, a model.Access) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[graphID]
	if !ok {
		return notFound(graphID)
	}
	doc.Access = string(a)
	s.docs[graphID] = doc
	return nil
}

func (s *MemoryStore) Load(ctx context.Context, graphID string) (*graph.Document, error) {
	if err := errors.ValidateGraphID(graphID); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[graphID]
	if !ok {
		return nil, notFound(graphID)
	}
	out := cloneDocument(doc)
	return &out, nil
}

func (s *MemoryStore) Save(ctx context.Context, graphID string, req graph.SaveRequest) error {
	if err := validateSave(graphID, &req); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var prev *graph.Document
	if doc, ok := s.docs[graphID]; ok {
		prev = &doc
	}
	if err := checkWritable(graphID, prev); err != nil {
		return err
	}
	s.docs[graphID] = replaceDocument(graphID, prev, req)
	return nil
}

func (s *MemoryStore) SavePositions(ctx context.Context, graphID string, req graph.PositionsRequest) error {
	if err := validatePositions(graphID, &req); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[graphID]
	if !ok {
		return notFound(graphID)
	}
	if err := checkWritable(graphID, &doc); err != nil {
		return err
	}
	doc = cloneDocument(doc)
	graph.ApplyPositions(&doc, req.Nodes)
	doc.UpdatedAt = time.Now().UTC()
	s.docs[graphID] = doc
	return nil
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
