package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initPipelineMetrics() {
	r.LayoutsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphpad_layouts_total",
			Help: "Total number of layout runs by graph type and status",
		},
		[]string{"type", "status"},
	)

	r.LayoutDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "graphpad_layout_duration_seconds",
			Help:    "Layout latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"type"},
	)

	r.LayoutNodes = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "graphpad_layout_nodes",
			Help:    "Number of nodes per layout run",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
		[]string{"type"},
	)

	r.AnalyticsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphpad_analytics_total",
			Help: "Total number of analytics runs by kind",
		},
		[]string{"kind"},
	)

	r.AnalyticsDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "graphpad_analytics_duration_seconds",
			Help:    "Analytics latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	r.CacheHitsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphpad_cache_hits_total",
			Help: "Total number of cache hits by key type",
		},
		[]string{"key_type"},
	)

	r.CacheMissesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphpad_cache_misses_total",
			Help: "Total number of cache misses by key type",
		},
		[]string{"key_type"},
	)

	r.CacheSetBytes = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "graphpad_cache_set_bytes",
			Help:    "Size of cache writes in bytes",
			Buckets: []float64{100, 1000, 10000, 100000, 1000000},
		},
		[]string{"key_type"},
	)
}
