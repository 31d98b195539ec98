package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/matzehuels/graphpad/pkg/errors"
	"github.com/matzehuels/graphpad/pkg/graph"
)

// FileStore is a file-based graph store for CLI applications.
// Graphs are stored as JSON files in a config directory.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a new file-based graph store.
// If baseDir is empty, defaults to ~/.config/graphpad/graphs/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		baseDir = dir
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("create graph dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

// DefaultDir returns the default graph directory, honoring XDG_CONFIG_HOME.
func DefaultDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "graphpad", "graphs"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", "graphpad", "graphs"), nil
}

func (s *FileStore) graphPath(graphID string) string {
	return filepath.Join(s.baseDir, graphID+".json")
}

func (s *FileStore) Load(ctx context.Context, graphID string) (*graph.Document, error) {
	if err := errors.ValidateGraphID(graphID); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read(graphID)
}

func (s *FileStore) Save(ctx context.Context, graphID string, req graph.SaveRequest) error {
	if err := validateSave(graphID, &req); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, err := s.read(graphID)
	if err != nil && !IsNotFound(err) {
		return err
	}
	if err := checkWritable(graphID, prev); err != nil {
		return err
	}
	return s.write(graphID, replaceDocument(graphID, prev, req))
}

func (s *FileStore) SavePositions(ctx context.Context, graphID string, req graph.PositionsRequest) error {
	if err := validatePositions(graphID, &req); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read(graphID)
	if err != nil {
		return err
	}
	if err := checkWritable(graphID, doc); err != nil {
		return err
	}
	graph.ApplyPositions(doc, req.Nodes)
	doc.UpdatedAt = time.Now().UTC()
	return s.write(graphID, *doc)
}

// List returns the ids of all stored graphs in sorted order.
func (s *FileStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read graph dir: %w", err)
	}
	var ids []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		ids = append(ids, strings.TrimSuffix(entry.Name(), ".json"))
	}
	sort.Strings(ids)
	return ids, nil
}

// Delete removes a stored graph. Missing graphs are not an error.
func (s *FileStore) Delete(ctx context.Context, graphID string) error {
	if err := errors.ValidateGraphID(graphID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.graphPath(graphID)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove graph file: %w", err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

// Path returns the base directory for graph files.
func (s *FileStore) Path() string {
	return s.baseDir
}

func (s *FileStore) read(graphID string) (*graph.Document, error) {
	data, err := os.ReadFile(s.graphPath(graphID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, notFound(graphID)
		}
		return nil, fmt.Errorf("read graph file: %w", err)
	}
	var doc graph.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse graph %q", graphID)
	}
	doc.ID = graphID
	return &doc, nil
}

func (s *FileStore) write(graphID string, doc graph.Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal graph: %w", err)
	}
	if err := os.WriteFile(s.graphPath(graphID), data, 0600); err != nil {
		return fmt.Errorf("write graph file: %w", err)
	}
	return nil
}

var _ Store = (*FileStore)(nil)
