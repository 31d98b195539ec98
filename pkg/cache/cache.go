// Package cache provides content-addressed caching for layout and analytics
// results.
//
// Entries are keyed by a hash of the graph document plus the options that
// influence the result, so an edited graph never hits a stale entry.
//
// # Implementations
//
//   - [FileCache]: JSON files under a directory, for the CLI
//   - [NullCache]: caches nothing, for tests and --no-cache
//
// # Keys
//
// A [Keyer] builds keys; [NewScopedKeyer] prefixes them for isolation:
//
//	k := cache.NewDefaultKeyer()
//	key := k.AnalyticsKey(cache.GraphHash(g), cache.AnalyticsKeyOpts{Kind: "pagerank"})
package cache

import (
	"context"
	"time"
)

// Default time-to-live values for cached artifacts.
const (
	TTLLayout    = 7 * 24 * time.Hour
	TTLAnalytics = 7 * 24 * time.Hour
)

// Cache stores opaque byte values by key.
type Cache interface {
	// Get returns the value and true on a hit. Expired or corrupt entries are
	// reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources.
	Close() error
}
