package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/graphpad/pkg/analytics"
	"github.com/matzehuels/graphpad/pkg/cache"
	"github.com/matzehuels/graphpad/pkg/graph"
	"github.com/matzehuels/graphpad/pkg/model"
	"github.com/matzehuels/graphpad/pkg/observability"
	"github.com/matzehuels/graphpad/pkg/store"
)

// Analytics kinds, used as cache key types and hook labels.
const (
	KindPath     = "path"
	KindDegree   = "degree"
	KindPageRank = "pagerank"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache, store and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Store  store.Store
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs load → layout → analytics → render.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForAnalytics(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if err := opts.ValidateForRender(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Load
	start := time.Now()
	g, err := r.Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.GraphHash = cache.GraphHash(g)
	result.Stats.LoadTime = time.Since(start)
	result.Stats.NodeCount = len(g.Nodes)
	result.Stats.EdgeCount = len(g.Links)

	r.Logger.Info("loaded graph",
		"nodes", len(g.Nodes),
		"links", len(g.Links),
		"type", g.Type,
		"duration", result.Stats.LoadTime)

	// Stage 2: Layout
	start = time.Now()
	laid, hit, err := r.ComputeLayoutWithCacheInfo(ctx, g, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Graph = laid
	result.Stats.LayoutTime = time.Since(start)
	result.CacheInfo.LayoutHit = hit

	r.Logger.Info("computed layout", "type", laid.Type, "cached", hit, "duration", result.Stats.LayoutTime)

	// Stage 3: Analytics
	start = time.Now()
	pr, hit, err := r.PageRankWithCacheInfo(ctx, laid, opts)
	if err != nil {
		return nil, fmt.Errorf("pagerank: %w", err)
	}
	result.PageRank = pr
	result.CacheInfo.AnalyticsHit = hit
	if opts.WantsPath() {
		p, _, err := r.ShortestPathWithCacheInfo(ctx, laid, opts)
		if err != nil {
			return nil, fmt.Errorf("path: %w", err)
		}
		result.Path = &p
	}
	result.Stats.AnalyticsTime = time.Since(start)

	// Stage 4: Render
	start = time.Now()
	artifacts, err := Render(laid, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(start)

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load reads the input graph from a file or the runner's store.
func (r *Runner) Load(ctx context.Context, opts Options) (*model.Graph, error) {
	r.applyLogger(&opts)
	return Load(ctx, r.Store, opts)
}

// ComputeLayoutWithCacheInfo lays out g with caching and returns cache hit info.
func (r *Runner) ComputeLayoutWithCacheInfo(ctx context.Context, g *model.Graph, opts Options) (*model.Graph, bool, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	key := r.Keyer.LayoutKey(cache.GraphHash(g), opts.LayoutKeyOpts())
	if !opts.Refresh && !opts.Relayout {
		if data, ok := r.get(ctx, "layout", key); ok {
			if cached, err := graph.ReadGraph(bytes.NewReader(data)); err == nil {
				return cached, true, nil
			}
			// Undecodable entry: fall through and recompute
		}
	}

	start := time.Now()
	out, err := GenerateLayout(g, opts)
	observability.Pipeline().OnLayoutComplete(ctx, layoutType(g, opts), len(g.Nodes), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if data, err := graph.MarshalGraph(out); err == nil {
		r.set(ctx, "layout", key, data, cache.TTLLayout)
	}
	return out, false, nil
}

// ComputeLayout is a convenience wrapper that discards the cache hit info.
func (r *Runner) ComputeLayout(ctx context.Context, g *model.Graph, opts Options) (*model.Graph, error) {
	out, _, err := r.ComputeLayoutWithCacheInfo(ctx, g, opts)
	return out, err
}

// ShortestPathWithCacheInfo answers a path query with caching. Query failures
// such as NO_PATH are results, not errors.
func (r *Runner) ShortestPathWithCacheInfo(ctx context.Context, g *model.Graph, opts Options) (analytics.PathResult, bool, error) {
	if err := opts.ValidateForAnalytics(); err != nil {
		return analytics.PathResult{}, false, err
	}
	if !opts.WantsPath() {
		return analytics.PathResult{}, false, fmt.Errorf("source and target are required")
	}
	return cachedAnalytics(ctx, r, g, opts, KindPath, func() analytics.PathResult {
		return analytics.ShortestPath(g, opts.Source, opts.Target, analytics.PathOptions{Directed: opts.Directed})
	})
}

// ShortestPath is a convenience wrapper that discards the cache hit info.
func (r *Runner) ShortestPath(ctx context.Context, g *model.Graph, opts Options) (analytics.PathResult, error) {
	res, _, err := r.ShortestPathWithCacheInfo(ctx, g, opts)
	return res, err
}

// DegreeWithCacheInfo computes degree centrality with caching.
func (r *Runner) DegreeWithCacheInfo(ctx context.Context, g *model.Graph, opts Options) ([]analytics.Score, bool, error) {
	if err := opts.ValidateForAnalytics(); err != nil {
		return nil, false, err
	}
	mode, _ := analytics.ParseDegreeMode(opts.DegreeMode)
	return cachedAnalytics(ctx, r, g, opts, KindDegree, func() []analytics.Score {
		return analytics.DegreeCentrality(g, mode)
	})
}

// Degree is a convenience wrapper that discards the cache hit info.
func (r *Runner) Degree(ctx context.Context, g *model.Graph, opts Options) ([]analytics.Score, error) {
	res, _, err := r.DegreeWithCacheInfo(ctx, g, opts)
	return res, err
}

// PageRankWithCacheInfo computes PageRank with caching.
func (r *Runner) PageRankWithCacheInfo(ctx context.Context, g *model.Graph, opts Options) (analytics.PageRankResult, bool, error) {
	if err := opts.ValidateForAnalytics(); err != nil {
		return analytics.PageRankResult{}, false, err
	}
	return cachedAnalytics(ctx, r, g, opts, KindPageRank, func() analytics.PageRankResult {
		return analytics.PageRank(g, opts.PageRankOptions())
	})
}

// PageRank is a convenience wrapper that discards the cache hit info.
func (r *Runner) PageRank(ctx context.Context, g *model.Graph, opts Options) (analytics.PageRankResult, error) {
	res, _, err := r.PageRankWithCacheInfo(ctx, g, opts)
	return res, err
}

// cachedAnalytics serves an analytics result from the cache or computes and
// stores it. Results are cached as JSON.
func cachedAnalytics[T any](ctx context.Context, r *Runner, g *model.Graph, opts Options, kind string, compute func() T) (T, bool, error) {
	r.applyLogger(&opts)
	key := r.Keyer.AnalyticsKey(cache.GraphHash(g), opts.AnalyticsKeyOpts(kind))

	if !opts.Refresh {
		if data, ok := r.get(ctx, kind, key); ok {
			var cached T
			if err := json.Unmarshal(data, &cached); err == nil {
				return cached, true, nil
			}
		}
	}

	start := time.Now()
	res := compute()
	observability.Pipeline().OnAnalyticsComplete(ctx, kind, len(g.Nodes), time.Since(start))
	opts.Logger.Debug("computed analytics", "kind", kind, "nodes", len(g.Nodes), "duration", time.Since(start))

	if data, err := json.Marshal(res); err == nil {
		r.set(ctx, kind, key, data, cache.TTLAnalytics)
	}
	return res, false, nil
}

// get reads key from the cache and reports hits and misses to the hooks.
func (r *Runner) get(ctx context.Context, keyType, key string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Debug("cache read failed", "key_type", keyType, "error", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return data, true
}

func (r *Runner) set(ctx context.Context, keyType, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Debug("cache write failed", "key_type", keyType, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func layoutType(g *model.Graph, opts Options) string {
	if opts.Type != "" {
		return opts.Type
	}
	return string(g.Type)
}
