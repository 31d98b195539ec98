package store

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/graphpad/pkg/errors"
	"github.com/matzehuels/graphpad/pkg/graph"
)

// Mongo defaults.
const (
	DefaultMongoURI        = "mongodb://localhost:27017"
	DefaultMongoDatabase   = "graphpad"
	DefaultMongoCollection = "graphs"
)

// MongoConfig configures a [MongoStore].
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// MongoStore stores one document per graph, keyed by graph id in _id.
// Position saves update matching array elements in place.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to MongoDB and verifies the connection with a ping.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.URI == "" {
		cfg.URI = DefaultMongoURI
	}
	if cfg.Database == "" {
		cfg.Database = DefaultMongoDatabase
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultMongoCollection
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

func (s *MongoStore) Load(ctx context.Context, graphID string) (*graph.Document, error) {
	if err := errors.ValidateGraphID(graphID); err != nil {
		return nil, err
	}
	var doc graph.Document
	err := s.coll.FindOne(ctx, bson.M{"_id": graphID}).Decode(&doc)
	if err != nil {
		return nil, s.wrap(graphID, "load", err)
	}
	return &doc, nil
}

func (s *MongoStore) Save(ctx context.Context, graphID string, req graph.SaveRequest) error {
	if err := validateSave(graphID, &req); err != nil {
		return err
	}
	prev, err := s.access(ctx, graphID)
	if err != nil && !IsNotFound(err) {
		return err
	}
	if err := checkWritable(graphID, prev); err != nil {
		return err
	}
	doc := replaceDocument(graphID, prev, req)
	_, err = s.coll.ReplaceOne(ctx, bson.M{"_id": graphID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return s.wrap(graphID, "save", err)
	}
	return nil
}

func (s *MongoStore) SavePositions(ctx context.Context, graphID string, req graph.PositionsRequest) error {
	if err := validatePositions(graphID, &req); err != nil {
		return err
	}
	prev, err := s.access(ctx, graphID)
	if err != nil {
		return err
	}
	if err := checkWritable(graphID, prev); err != nil {
		return err
	}
	if len(req.Nodes) == 0 {
		return nil
	}

	models := make([]mongo.WriteModel, 0, len(req.Nodes))
	now := time.Now().UTC()
	for _, p := range req.Nodes {
		set := bson.M{"nodes.$.x": p.X, "nodes.$.y": p.Y, "updated_at": now}
		if p.Layer > 0 {
			set["nodes.$.layer"] = p.Layer
		}
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": graphID, "nodes.id": p.ID}).
			SetUpdate(bson.M{"$set": set}))
	}
	if _, err := s.coll.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false)); err != nil {
		return s.wrap(graphID, "save positions", err)
	}
	return nil
}

func (s *MongoStore) Close() error {
	return s.client.Disconnect(context.Background())
}

// access loads only the access field of a stored graph.
func (s *MongoStore) access(ctx context.Context, graphID string) (*graph.Document, error) {
	var doc graph.Document
	opts := options.FindOne().SetProjection(bson.M{"access": 1})
	if err := s.coll.FindOne(ctx, bson.M{"_id": graphID}, opts).Decode(&doc); err != nil {
		return nil, s.wrap(graphID, "load", err)
	}
	return &doc, nil
}

func (s *MongoStore) wrap(graphID, op string, err error) error {
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return notFound(graphID)
	}
	err = fmt.Errorf("mongo %s %s: %w", op, graphID, err)
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return Retryable(err)
	}
	return err
}

var _ Store = (*MongoStore)(nil)
