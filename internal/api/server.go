// Package api serves one editor session over HTTP.
//
// Every mutating route runs through [session.Session.Mutate], so concurrent
// requests are serialized against the same graph. Error codes from
// pkg/errors map onto HTTP statuses in [statusFor].
package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/matzehuels/graphpad/pkg/buildinfo"
	"github.com/matzehuels/graphpad/pkg/metrics"
	"github.com/matzehuels/graphpad/pkg/observability"
	"github.com/matzehuels/graphpad/pkg/pipeline"
	"github.com/matzehuels/graphpad/pkg/session"
)

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = "127.0.0.1:8080"

const shutdownTimeout = 5 * time.Second

// Options configures a Server.
type Options struct {
	// AllowedOrigins lists browser origins allowed by CORS. Empty allows
	// local development origins only.
	AllowedOrigins []string

	// Runner computes analytics. A nil Runner disables caching.
	Runner *pipeline.Runner

	// Metrics backs GET /metrics. Nil uses the default registry.
	Metrics *metrics.Registry

	Logger *log.Logger
}

// Server is the HTTP front end of a session.
type Server struct {
	sess    *session.Session
	runner  *pipeline.Runner
	metrics *metrics.Registry
	logger  *log.Logger
	origins []string
}

// New creates a server for sess.
func New(sess *session.Session, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if opts.Runner == nil {
		opts.Runner = pipeline.NewRunner(nil, nil, opts.Logger)
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.DefaultRegistry()
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"http://localhost:*", "http://127.0.0.1:*"}
	}
	return &Server{
		sess:    sess,
		runner:  opts.Runner,
		metrics: opts.Metrics,
		logger:  opts.Logger,
		origins: opts.AllowedOrigins,
	}
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", s.health)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Get("/graph", s.getGraph)
	r.Post("/title", s.setTitle)
	r.Post("/type", s.setType)
	r.Post("/layout", s.relayout)

	r.Route("/nodes", func(r chi.Router) {
		r.Post("/", s.addNode)
		r.Patch("/{id}", s.editNode)
		r.Delete("/{id}", s.deleteNode)
		r.Post("/{id}/move", s.moveNode)
	})
	r.Put("/edges", s.putEdge)
	r.Delete("/edges", s.deleteEdge)

	r.Post("/undo", s.undo)
	r.Post("/redo", s.redo)

	r.Post("/save", s.save)
	r.Post("/save/positions", s.savePositions)

	r.Route("/analytics", func(r chi.Router) {
		r.Get("/path", s.path)
		r.Get("/degree", s.degree)
		r.Get("/pagerank", s.pageRank)
	})

	return r
}

// ListenAndServe serves the API on addr until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("serving graph", "addr", addr, "graph", s.sess.GraphID)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.logger.Info("server stopped")
	return ctx.Err()
}

// observe logs each request and reports it to the HTTP hooks, labelled with
// the matched route pattern.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		dur := time.Since(start)
		observability.HTTP().OnRequest(r.Context(), r.Method, route, status, dur)
		s.logger.Debug("request",
			"method", r.Method,
			"route", route,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", dur,
			"request_id", middleware.GetReqID(r.Context()))
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Get().Version,
		"session": s.sess.ID,
	})
}
