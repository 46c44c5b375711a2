// Package server exposes the feasibility engine as a JSON HTTP API with
// Prometheus metrics, security headers and graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/agbru/renewcalc/internal/config"
	"github.com/agbru/renewcalc/internal/feasibility"
	"github.com/agbru/renewcalc/internal/logging"
	"github.com/agbru/renewcalc/internal/scenario"
	"github.com/agbru/renewcalc/internal/sysmon"
)

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-ID"

var tracer = otel.Tracer("github.com/agbru/renewcalc/internal/server")

// Server serves the feasibility API.
type Server struct {
	cfg        config.ServerConfig
	security   SecurityConfig
	registry   *scenario.Registry
	site       feasibility.Site
	opts       feasibility.Options
	timeout    time.Duration
	metrics    *Metrics
	sampler    *sysmon.Sampler
	logger     logging.Logger
	httpServer *http.Server
	startedAt  time.Time
}

// Option customises a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l logging.Logger) Option { return func(s *Server) { s.logger = l } }

// WithRegistry sets the scenarios the API can evaluate.
func WithRegistry(r *scenario.Registry) Option { return func(s *Server) { s.registry = r } }

// WithDefaults sets the site and engine options used for fields a request
// leaves out.
func WithDefaults(site feasibility.Site, opts feasibility.Options) Option {
	return func(s *Server) {
		s.site = site
		s.opts = opts
	}
}

// WithTimeout bounds the work done for a single request.
func WithTimeout(d time.Duration) Option { return func(s *Server) { s.timeout = d } }

// WithSecurityConfig overrides the settings derived from the server config.
func WithSecurityConfig(sc SecurityConfig) Option { return func(s *Server) { s.security = sc } }

// New builds a server for cfg.
func New(cfg config.ServerConfig, opts ...Option) *Server {
	s := &Server{
		cfg:       cfg,
		security:  SecurityConfigFrom(cfg),
		registry:  scenario.NewDefaultRegistry(),
		site:      feasibility.DefaultSite(),
		opts:      feasibility.DefaultOptions(),
		timeout:   config.DefaultTimeout,
		metrics:   NewMetrics(),
		sampler:   sysmon.NewSampler(2 * time.Second),
		logger:    logging.NewDefaultLogger(),
		startedAt: time.Now(),
	}
	for _, o := range opts {
		o(s)
	}
	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}
	return s
}

// Handler returns the routed handler with the middleware chain applied to
// every route.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	routes := map[string]http.HandlerFunc{
		"/health":             s.handleHealth,
		"/metrics":            s.handleMetrics,
		"/api/v1/scenarios":   s.handleScenarios,
		"/api/v1/evaluate":    s.handleEvaluate,
		"/api/v1/bonus":       s.handleBonus,
		"/api/v1/sensitivity": s.handleSensitivity,
		"/api/v1/boundary":    s.handleBoundary,
		"/api/v1/cases":       s.handleCases,
		"/api/v1/cases/{key}": s.handleCase,
	}
	for pattern, h := range routes {
		mux.HandleFunc(pattern, s.metricsMiddleware(s.requestMiddleware(SecurityMiddleware(s.security, h))))
	}
	return mux
}

// ListenAndServe serves until ctx is done, then shuts down gracefully
// within the configured shutdown timeout.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.logger.Info("server listening", logging.String("addr", ln.Addr().String()))

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	s.logger.Info("server shutting down", logging.Duration("timeout", timeout))
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter { return r.ResponseWriter }

// metricsMiddleware tracks in-flight requests and records the status and
// latency of each response.
func (s *Server) metricsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.metrics.IncrementActiveRequests()
		defer s.metrics.DecrementActiveRequests()

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)
		s.metrics.ObserveRequest(routeOf(r), r.Method, rec.status, time.Since(start))
	}
}

// requestMiddleware assigns a request ID, opens a span and logs the request.
func (s *Server) requestMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		ctx, span := tracer.Start(r.Context(), r.Method+" "+routeOf(r), trace.WithAttributes(
			attribute.String("http.method", r.Method),
			attribute.String("http.route", routeOf(r)),
			attribute.String("request.id", id),
		))
		defer span.End()
		ctx = context.WithValue(ctx, requestIDKey{}, id)

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r.WithContext(ctx))

		span.SetAttributes(attribute.Int("http.status_code", rec.status))
		if rec.status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(rec.status))
		}
		if s.logger != nil {
			s.logger.Info("request",
				logging.String("request_id", id),
				logging.String("method", r.Method),
				logging.String("path", r.URL.Path),
				logging.Int("status", rec.status),
				logging.Duration("duration", time.Since(start)),
			)
		}
	}
}

type requestIDKey struct{}

// RequestID returns the request ID stored in ctx, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func routeOf(r *http.Request) string {
	if r.Pattern != "" {
		return r.Pattern
	}
	return r.URL.Path
}
