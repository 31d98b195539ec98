package store

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/graphpad/pkg/errors"
	"github.com/matzehuels/graphpad/pkg/graph"
)

// DefaultRedisPrefix namespaces graph keys.
const DefaultRedisPrefix = "graphpad:graph:"

// RedisConfig configures a [RedisStore].
type RedisConfig struct {
	Addr     string // default localhost:6379
	Password string
	DB       int
	Prefix   string // default DefaultRedisPrefix
}

// RedisStore stores each graph as a JSON value under prefix+id.
// Read-modify-write saves run inside WATCH so concurrent writers retry
// instead of overwriting each other.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects to Redis and verifies the connection with PING.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	if cfg.Addr == "" {
		cfg.Addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", cfg.Addr, err)
	}
	return NewRedisStoreFromClient(client, cfg.Prefix), nil
}

// NewRedisStoreFromClient wraps an existing client. The store owns the
// client and closes it on Close.
func NewRedisStoreFromClient(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) key(graphID string) string {
	return s.prefix + graphID
}

func (s *RedisStore) Load(ctx context.Context, graphID string) (*graph.Document, error) {
	if err := errors.ValidateGraphID(graphID); err != nil {
		return nil, err
	}
	data, err := s.client.Get(ctx, s.key(graphID)).Bytes()
	return s.decode(graphID, data, err)
}

func (s *RedisStore) Save(ctx context.Context, graphID string, req graph.SaveRequest) error {
	if err := validateSave(graphID, &req); err != nil {
		return err
	}
	return s.update(ctx, graphID, func(prev *graph.Document) (*graph.Document, error) {
		if err := checkWritable(graphID, prev); err != nil {
			return nil, err
		}
		doc := replaceDocument(graphID, prev, req)
		return &doc, nil
	})
}

func (s *RedisStore) SavePositions(ctx context.Context, graphID string, req graph.PositionsRequest) error {
	if err := validatePositions(graphID, &req); err != nil {
		return err
	}
	return s.update(ctx, graphID, func(prev *graph.Document) (*graph.Document, error) {
		if prev == nil {
			return nil, notFound(graphID)
		}
		if err := checkWritable(graphID, prev); err != nil {
			return nil, err
		}
		graph.ApplyPositions(prev, req.Nodes)
		prev.UpdatedAt = time.Now().UTC()
		return prev, nil
	})
}

func (s *RedisStore) Close() error { return s.client.Close() }

// update runs fn on the current document (nil when missing) and writes its
// result if the key did not change in between. Conflicts are retried.
func (s *RedisStore) update(ctx context.Context, graphID string, fn func(*graph.Document) (*graph.Document, error)) error {
	key := s.key(graphID)
	return RetryWithBackoff(ctx, func() error {
		err := s.client.Watch(ctx, func(tx *redis.Tx) error {
			data, err := tx.Get(ctx, key).Bytes()
			prev, err := s.decode(graphID, data, err)
			if err != nil && !IsNotFound(err) {
				return err
			}
			next, err := fn(prev)
			if err != nil {
				return err
			}
			out, err := json.Marshal(next)
			if err != nil {
				return fmt.Errorf("marshal graph: %w", err)
			}
			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, key, out, 0)
				return nil
			})
			return err
		}, key)
		if stderrors.Is(err, redis.TxFailedErr) {
			return Retryable(err)
		}
		return err
	})
}

func (s *RedisStore) decode(graphID string, data []byte, err error) (*graph.Document, error) {
	if stderrors.Is(err, redis.Nil) {
		return nil, notFound(graphID)
	}
	if err != nil {
		var rerr redis.Error
		if stderrors.As(err, &rerr) {
			return nil, fmt.Errorf("redis get %s: %w", graphID, err)
		}
		return nil, Retryable(fmt.Errorf("redis get %s: %w", graphID, err))
	}
	var doc graph.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse graph %q", graphID)
	}
	doc.ID = graphID
	return &doc, nil
}

var _ Store = (*RedisStore)(nil)
