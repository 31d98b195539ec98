package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/matzehuels/graphpad/pkg/errors"
	"github.com/matzehuels/graphpad/pkg/observability"
)

// RecordMutation records one mutation attempt. Successful calls are counted
// under the code "ok".
func (r *Registry) RecordMutation(op string, err error, duration time.Duration) {
	r.MutationsTotal.WithLabelValues(op, resultCode(err)).Inc()
	r.MutationDuration.WithLabelValues(op).Observe(duration.Seconds())
}

// RecordLayout records a layout run.
func (r *Registry) RecordLayout(graphType string, nodes int, err error, duration time.Duration) {
	r.LayoutsTotal.WithLabelValues(graphType, status(err)).Inc()
	r.LayoutDuration.WithLabelValues(graphType).Observe(duration.Seconds())
	r.LayoutNodes.WithLabelValues(graphType).Observe(float64(nodes))
}

// RecordStoreOperation records a storage backend call.
func (r *Registry) RecordStoreOperation(backend, op string, err error, duration time.Duration) {
	r.StoreOperationsTotal.WithLabelValues(backend, op, status(err)).Inc()
	r.StoreOperationDuration.WithLabelValues(backend, op).Observe(duration.Seconds())
}

// RecordHTTPRequest records an HTTP request with its duration
func (r *Registry) RecordHTTPRequest(method, route string, code int, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// Register installs r as the global observability hooks.
func (r *Registry) Register() {
	observability.SetEditorHooks(r)
	observability.SetPipelineHooks(r)
	observability.SetCacheHooks(r)
	observability.SetStoreHooks(r)
	observability.SetHTTPHooks(r)
}

// =============================================================================
// Hook Implementations
// =============================================================================

func (r *Registry) OnMutation(_ context.Context, op string, duration time.Duration, err error) {
	r.RecordMutation(op, err, duration)
}

func (r *Registry) OnHistory(_ context.Context, op string, applied bool) {
	r.HistoryTotal.WithLabelValues(op, strconv.FormatBool(applied)).Inc()
}

func (r *Registry) OnLayoutComplete(_ context.Context, graphType string, nodeCount int, duration time.Duration, err error) {
	r.RecordLayout(graphType, nodeCount, err, duration)
}

func (r *Registry) OnAnalyticsComplete(_ context.Context, kind string, _ int, duration time.Duration) {
	r.AnalyticsTotal.WithLabelValues(kind).Inc()
	r.AnalyticsDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

func (r *Registry) OnCacheHit(_ context.Context, keyType string) {
	r.CacheHitsTotal.WithLabelValues(keyType).Inc()
}

func (r *Registry) OnCacheMiss(_ context.Context, keyType string) {
	r.CacheMissesTotal.WithLabelValues(keyType).Inc()
}

func (r *Registry) OnCacheSet(_ context.Context, keyType string, size int) {
	r.CacheSetBytes.WithLabelValues(keyType).Observe(float64(size))
}

func (r *Registry) OnStoreOp(_ context.Context, backend, op string, duration time.Duration, err error) {
	r.RecordStoreOperation(backend, op, err, duration)
}

func (r *Registry) OnRequest(_ context.Context, method, route string, code int, duration time.Duration) {
	r.RecordHTTPRequest(method, route, code, duration)
}

var (
	_ observability.EditorHooks   = (*Registry)(nil)
	_ observability.PipelineHooks = (*Registry)(nil)
	_ observability.CacheHooks    = (*Registry)(nil)
	_ observability.StoreHooks    = (*Registry)(nil)
	_ observability.HTTPHooks     = (*Registry)(nil)
)

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

func resultCode(err error) string {
	if err == nil {
		return "ok"
	}
	if c := errors.GetCode(err); c != "" {
		return string(c)
	}
	return string(errors.ErrCodeInternal)
}
