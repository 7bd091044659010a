// Package api serves the road graph pipeline over HTTP.
//
// Routes:
//
//	POST /v1/normalize   OSMnx JSON in, keyed graph out (?format=json|gob, ?refresh=true)
//	POST /v1/render      OSMnx JSON in, DOT or SVG out (?format=dot|svg, ?detailed=true)
//	GET  /v1/speed       resolve one edge's speed (?value=...&class=...)
//	GET  /v1/profile     the server's speed profile
//	GET  /healthz        liveness and build info
//	GET  /metrics        prometheus exposition, when metrics are enabled
//
// Every response carries an X-Request-ID header. Errors are JSON objects of
// the form {"code": "...", "message": "..."}.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/roadnet/pkg/observability"
	"github.com/matzehuels/roadnet/pkg/pipeline"
	"github.com/matzehuels/roadnet/pkg/roadgraph"
)

// DefaultMaxBodyBytes bounds request bodies.
const DefaultMaxBodyBytes = 64 << 20

// Config configures a Server.
type Config struct {
	Runner  *pipeline.Runner
	Profile *roadgraph.SpeedTable
	Logger  *log.Logger
	// Metrics enables GET /metrics. Nil disables it.
	Metrics *observability.Metrics
	// MaxBodyBytes bounds request bodies. Zero means DefaultMaxBodyBytes.
	MaxBodyBytes int64
}

// Server is the HTTP front end of the pipeline.
type Server struct {
	runner  *pipeline.Runner
	profile *roadgraph.SpeedTable
	logger  *log.Logger
	metrics *observability.Metrics
	maxBody int64
	router  chi.Router
}

// NewServer builds a server and its routes. Nil fields of cfg get defaults:
// an uncached runner, the built-in profile and log.Default().
func NewServer(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	if cfg.Profile == nil {
		cfg.Profile = roadgraph.DefaultProfile()
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}

	s := &Server{
		runner:  cfg.Runner,
		profile: cfg.Profile,
		logger:  cfg.Logger,
		metrics: cfg.Metrics,
		maxBody: cfg.MaxBodyBytes,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{}))
	}

	r.Route("/v1", func(r chi.Router) {
		r.Post("/normalize", s.handleNormalize)
		r.Post("/render", s.handleRender)
		r.Get("/speed", s.handleSpeed)
		r.Get("/profile", s.handleProfile)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.respondError(w, http.StatusNotFound, "NOT_FOUND", "no route for "+r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		s.respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", r.Method+" not allowed on "+r.URL.Path)
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully, giving in-flight requests up to 10 seconds.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       2 * time.Minute,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       2 * time.Minute,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return ctx.Err()
}
