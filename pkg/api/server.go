// Package api exposes degrees-of-separation queries over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/dd0wney/cluso-degrees/pkg/api/middleware"
	"github.com/dd0wney/cluso-degrees/pkg/dataset"
	"github.com/dd0wney/cluso-degrees/pkg/graphql"
	"github.com/dd0wney/cluso-degrees/pkg/health"
	"github.com/dd0wney/cluso-degrees/pkg/logging"
	"github.com/dd0wney/cluso-degrees/pkg/metrics"
	"github.com/dd0wney/cluso-degrees/pkg/resolve"
	"github.com/dd0wney/cluso-degrees/pkg/search"
)

// NewServer creates a server over store. The searcher must search the same
// store. A nil registry gets a fresh one; a nil logger discards output.
func NewServer(store *dataset.Store, searcher *search.Searcher, registry *metrics.Registry, logger logging.Logger, opts Options) (*Server, error) {
	if registry == nil {
		registry = metrics.NewRegistry()
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	logger = logger.With(logging.Component("api"))

	s := &Server{
		store:           store,
		searcher:        searcher,
		resolver:        resolve.NewResolver(store, nil),
		names:           resolve.NewNameIndex(store.People()),
		metricsRegistry: registry,
		checker:         health.NewChecker(),
		logger:          logger,
		opts:            opts,
		startTime:       time.Now(),
	}

	s.checker.Register("dataset", health.Readiness, health.DatasetCheck(store.Stats))
	s.checker.Register("memory", health.Full, health.MemoryCheck(opts.MemoryLimit))
	s.checker.Register("process", health.Liveness, health.Alive)

	schema, err := graphql.NewSchema(graphql.Backend{Store: store, Searcher: searcher, Names: s.names})
	if err != nil {
		return nil, err
	}
	depth := opts.GraphQLMaxDepth
	if depth <= 0 {
		depth = defaultGraphQLMaxDepth
	}
	s.graphql = graphql.NewHandler(schema, depth, logger)

	if opts.RateLimit != nil {
		s.rateLimiter = middleware.NewRateLimiter(opts.RateLimit, logger)
	}

	return s, nil
}

// routes are the paths recorded under their own metrics label
var routes = []string{
	"/health", "/health/ready", "/health/live", "/metrics",
	"/api/v1/path", "/api/v1/people", "/api/v1/stats", "/graphql",
}

// Handler returns the routed handler wrapped in the middleware chain
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.checker.Handler(health.Full))
	mux.HandleFunc("GET /health/ready", s.checker.Handler(health.Readiness))
	mux.HandleFunc("GET /health/live", s.checker.Handler(health.Liveness))
	mux.Handle("GET /metrics", s.metricsRegistry.Handler())

	protect := middleware.RequireAuth(s.opts.Auth, s.logger)
	mux.Handle("GET /api/v1/path", protect(http.HandlerFunc(s.handlePath)))
	mux.Handle("GET /api/v1/people", protect(http.HandlerFunc(s.handlePeople)))
	mux.Handle("GET /api/v1/stats", protect(http.HandlerFunc(s.handleStats)))
	mux.Handle("GET /graphql", protect(s.graphql))
	mux.Handle("POST /graphql", protect(s.graphql))

	var handler http.Handler = mux
	handler = middleware.Metrics(s.metricsRegistry, routes...)(handler)
	handler = middleware.RateLimit(s.rateLimiter, middleware.RemoteHost)(handler)
	handler = middleware.PanicRecovery(s.logger)(handler)
	handler = middleware.SecurityHeaders(&middleware.SecurityHeadersConfig{HSTSMaxAge: s.opts.HSTSMaxAge})(handler)
	handler = middleware.CORS(s.opts.CORS)(handler)
	handler = middleware.Logging(s.logger, middleware.GetRequestID)(handler)
	handler = middleware.RequestID()(handler)
	return handler
}

// Run serves on opts.Addr until ctx is cancelled, then shuts down gracefully
// within opts.ShutdownTimeout
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.opts.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	server := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", logging.String("addr", ln.Addr().String()))
		errCh <- server.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("server exited")
	return nil
}
