package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initEditorMetrics() {
	r.MutationsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphpad_mutations_total",
			Help: "Total number of graph mutations by operation and result code",
		},
		[]string{"op", "code"},
	)

	r.MutationDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "graphpad_mutation_duration_seconds",
			Help:    "Graph mutation latency in seconds",
			Buckets: []float64{.00001, .0001, .001, .01, .1, 1},
		},
		[]string{"op"},
	)

	r.HistoryTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphpad_history_total",
			Help: "Total number of undo and redo requests",
		},
		[]string{"op", "applied"},
	)
}
