package api

import (
	"time"

	"github.com/dd0wney/cluso-degrees/pkg/api/middleware"
	"github.com/dd0wney/cluso-degrees/pkg/auth"
	"github.com/dd0wney/cluso-degrees/pkg/dataset"
	"github.com/dd0wney/cluso-degrees/pkg/graphql"
	"github.com/dd0wney/cluso-degrees/pkg/health"
	"github.com/dd0wney/cluso-degrees/pkg/logging"
	"github.com/dd0wney/cluso-degrees/pkg/metrics"
	"github.com/dd0wney/cluso-degrees/pkg/resolve"
	"github.com/dd0wney/cluso-degrees/pkg/search"
)

// Version is reported by /api/v1/stats
const Version = "1.0.0"

// maxSuggestions caps the close matches returned for an unknown name
const maxSuggestions = 5

// Options configures a Server
type Options struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// CORS is optional; nil disables cross-origin requests
	CORS *middleware.CORSConfig
	// RateLimit is optional; nil disables rate limiting
	RateLimit *middleware.RateLimitConfig
	// Auth is optional; nil leaves the query API open
	Auth auth.TokenValidator
	// GraphQLMaxDepth bounds /graphql query nesting; 0 uses the default
	GraphQLMaxDepth int
	// MemoryLimit in bytes degrades /health near it; 0 uses GOMEMLIMIT
	MemoryLimit uint64
	// HSTSMaxAge sets Strict-Transport-Security when positive
	HSTSMaxAge time.Duration
}

// defaultGraphQLMaxDepth is used when Options.GraphQLMaxDepth is unset
const defaultGraphQLMaxDepth = 8

// Server serves shortest-path queries over a loaded dataset
type Server struct {
	store           *dataset.Store
	searcher        *search.Searcher
	resolver        *resolve.Resolver
	names           *resolve.NameIndex
	metricsRegistry *metrics.Registry
	checker         *health.Checker
	rateLimiter     *middleware.RateLimiter
	graphql         *graphql.Handler
	logger          logging.Logger
	opts            Options
	startTime       time.Time
}
