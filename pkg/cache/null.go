package cache

import (
	"context"
	"time"
)

// NullCache keeps no layout or analytics results. The runner falls back to
// it under --no-cache, so every request is computed from the graph.
//
// Reads and writes still report a cancelled context, which keeps the
// runner's miss accounting identical to a real backend.
type NullCache struct{}

// NewNullCache returns a cache that always misses.
func NewNullCache() Cache {
	return NullCache{}
}

// Get reports a miss.
func (NullCache) Get(ctx context.Context, _ string) ([]byte, bool, error) {
	return nil, false, ctx.Err()
}

// Set discards data.
func (NullCache) Set(ctx context.Context, _ string, _ []byte, _ time.Duration) error {
	return ctx.Err()
}

func (NullCache) Delete(context.Context, string) error { return nil }

func (NullCache) Close() error { return nil }

var _ Cache = NullCache{}
