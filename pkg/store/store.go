// Package store provides persistence backends for editable graphs.
//
// A [Store] loads a graph document, replaces it wholesale on save and merges
// positions-only saves by node id. Four implementations are provided:
//   - [MemoryStore]: in-process map, for tests and the ephemeral API server
//   - [FileStore]: one JSON file per graph, for the CLI
//   - [RedisStore]: JSON values in Redis, for shared deployments
//   - [MongoStore]: one document per graph in MongoDB
//
// All backends enforce the document's access level: a viewer document can be
// loaded but never saved. Graph ids are validated with
// [errors.ValidateGraphID] before they reach a backend.
//
// # Usage
//
//	st, err := store.Open(ctx, store.Config{Backend: store.BackendFile})
//	if err != nil {
//	    return err
//	}
//	defer st.Close()
//
//	doc, err := st.Load(ctx, "deps")
//	if store.IsNotFound(err) {
//	    // start from the default graph
//	}
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/graphpad/pkg/errors"
	"github.com/matzehuels/graphpad/pkg/graph"
	"github.com/matzehuels/graphpad/pkg/model"
)

// Store persists graph documents by id.
type Store interface {
	// Load returns the stored document. Missing graphs yield a NOT_FOUND error.
	Load(ctx context.Context, graphID string) (*graph.Document, error)

	// Save replaces the stored nodes and links. The document's access level
	// is preserved; new documents are created with owner access.
	Save(ctx context.Context, graphID string, req graph.SaveRequest) error

	// SavePositions merges node positions into the stored graph by id.
	SavePositions(ctx context.Context, graphID string, req graph.PositionsRequest) error

	// Close releases backend resources.
	Close() error
}

// Backend names accepted by [Open].
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Config selects and configures a backend.
type Config struct {
	Backend string `toml:"backend"`

	// Dir is the FileStore base directory.
	Dir string `toml:"dir"`

	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`

	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// Open creates the configured backend wrapped with observability hooks.
// An empty backend selects the file store.
func Open(ctx context.Context, cfg Config) (Store, error) {
	var (
		s   Store
		err error
	)
	backend := cfg.Backend
	if backend == "" {
		backend = BackendFile
	}
	switch backend {
	case BackendMemory:
		s = NewMemoryStore()
	case BackendFile:
		s, err = NewFileStore(cfg.Dir)
	case BackendRedis:
		s, err = NewRedisStore(ctx, RedisConfig{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
	case BackendMongo:
		s, err = NewMongoStore(ctx, MongoConfig{URI: cfg.MongoURI, Database: cfg.MongoDatabase})
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	return Instrument(s, backend), nil
}

// IsNotFound reports whether err means the graph does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, errors.ErrCodeNotFound)
}

// =============================================================================
// Shared Helpers
// =============================================================================

func notFound(graphID string) error {
	return errors.New(errors.ErrCodeNotFound, "graph %q not found", graphID)
}

func readOnly(graphID string) error {
	return errors.New(errors.ErrCodeReadOnlyAccess, "graph %q is read-only", graphID)
}

// checkWritable rejects saves to viewer documents.
func checkWritable(graphID string, doc *graph.Document) error {
	if doc == nil {
		return nil
	}
	a, err := model.ParseAccess(doc.Access)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "stored graph %q", graphID)
	}
	if !a.CanWrite() {
		return readOnly(graphID)
	}
	return nil
}

func validateSave(graphID string, req *graph.SaveRequest) error {
	if err := errors.ValidateGraphID(graphID); err != nil {
		return err
	}
	return req.Validate()
}

func validatePositions(graphID string, req *graph.PositionsRequest) error {
	if err := errors.ValidateGraphID(graphID); err != nil {
		return err
	}
	return req.Validate()
}

// replaceDocument builds the document written by Save. prev may be nil.
func replaceDocument(graphID string, prev *graph.Document, req graph.SaveRequest) graph.Document {
	doc := req.Document()
	doc.ID = graphID
	if prev != nil {
		doc.Access = prev.Access
	}
	doc.UpdatedAt = time.Now().UTC()
	return cloneDocument(doc)
}

// cloneDocument deep-copies doc so callers never share slices or
// coordinate pointers with a backend.
func cloneDocument(doc graph.Document) graph.Document {
	out := doc
	out.Nodes = make([]graph.NodeRecord, len(doc.Nodes))
	for i, n := range doc.Nodes {
		out.Nodes[i] = n
		out.Nodes[i].X = cloneFloat(n.X)
		out.Nodes[i].Y = cloneFloat(n.Y)
	}
	out.Links = make([]graph.EdgeRecord, len(doc.Links))
	for i, e := range doc.Links {
		out.Links[i] = e
		out.Links[i].Weight = cloneFloat(e.Weight)
	}
	return out
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	return model.Float(*v)
}
