package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/dd0wney/cluso-degrees/pkg/logging"
)

// RateLimitConfig configures per-client token buckets
type RateLimitConfig struct {
	RequestsPerSecond float64       // refill rate
	BurstSize         int           // bucket capacity
	IdleTimeout       time.Duration // buckets untouched this long are dropped
	MaxClients        int           // 0 means unbounded
}

// DefaultRateLimitConfig returns the limits used by degrees serve.
// Searches are CPU bound, so the default rate is modest.
func DefaultRateLimitConfig() *RateLimitConfig {
	return &RateLimitConfig{
		RequestsPerSecond: 20,
		BurstSize:         40,
		IdleTimeout:       10 * time.Minute,
		MaxClients:        100000,
	}
}

type bucket struct {
	tokens float64
	seen   time.Time
}

// Decision is the outcome of one Take
type Decision struct {
	Allowed   bool
	Remaining int
	// RetryAfter is how long until one token is available, set when denied
	RetryAfter time.Duration
}

// RateLimiter hands out tokens per client. Idle buckets are swept while
// taking tokens, so the limiter owns no goroutines.
type RateLimiter struct {
	cfg    RateLimitConfig
	logger logging.Logger
	now    func() time.Time

	mu        sync.Mutex
	buckets   map[string]*bucket
	lastSweep time.Time
}

// NewRateLimiter creates a limiter. A nil config uses DefaultRateLimitConfig.
func NewRateLimiter(config *RateLimitConfig, logger logging.Logger) *RateLimiter {
	if config == nil {
		config = DefaultRateLimitConfig()
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &RateLimiter{
		cfg:     *config,
		logger:  logger,
		now:     time.Now,
		buckets: make(map[string]*bucket),
	}
}

// Take spends one token of client's bucket if one is available
func (rl *RateLimiter) Take(client string) Decision {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.sweepLocked(now)

	b, ok := rl.buckets[client]
	if !ok {
		if rl.cfg.MaxClients > 0 && len(rl.buckets) >= rl.cfg.MaxClients {
			rl.logger.Warn("rate limiter full, rejecting new client",
				logging.Int("max_clients", rl.cfg.MaxClients),
				logging.String("client", client))
			return Decision{RetryAfter: time.Second}
		}
		b = &bucket{tokens: float64(rl.cfg.BurstSize), seen: now}
		rl.buckets[client] = b
	}

	b.tokens = math.Min(float64(rl.cfg.BurstSize), b.tokens+now.Sub(b.seen).Seconds()*rl.cfg.RequestsPerSecond)
	b.seen = now

	if b.tokens >= 1 {
		b.tokens--
		return Decision{Allowed: true, Remaining: int(b.tokens)}
	}

	wait := time.Second
	if rl.cfg.RequestsPerSecond > 0 && rl.cfg.BurstSize > 0 {
		wait = time.Duration((1 - b.tokens) / rl.cfg.RequestsPerSecond * float64(time.Second))
	}
	return Decision{RetryAfter: wait}
}

// Allow reports whether client may make a request now
func (rl *RateLimiter) Allow(client string) bool {
	return rl.Take(client).Allowed
}

// sweepLocked drops idle buckets at most once per idle timeout
func (rl *RateLimiter) sweepLocked(now time.Time) {
	idle := rl.cfg.IdleTimeout
	if idle <= 0 || now.Sub(rl.lastSweep) < idle {
		return
	}
	rl.lastSweep = now

	dropped := 0
	for client, b := range rl.buckets {
		if now.Sub(b.seen) > idle {
			delete(rl.buckets, client)
			dropped++
		}
	}
	if dropped > 0 {
		rl.logger.Debug("rate limiter sweep", logging.Count(dropped))
	}
}

// Clients returns the number of tracked buckets
func (rl *RateLimiter) Clients() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.buckets)
}

// Config returns a copy of the limiter configuration
func (rl *RateLimiter) Config() RateLimitConfig {
	return rl.cfg
}

// ClientIDFunc extracts a client identifier from a request
type ClientIDFunc func(*http.Request) string

// RemoteHost identifies clients by the host part of the connection address
func RemoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimit rejects requests with 429 once a client's bucket is empty.
// A nil limiter disables limiting.
func RateLimit(limiter *RateLimiter, clientID ClientIDFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}
		limit := strconv.Itoa(limiter.cfg.BurstSize)

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			client := clientID(r)
			d := limiter.Take(client)

			w.Header().Set("X-RateLimit-Limit", limit)
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))

			if !d.Allowed {
				limiter.logger.Info("rate limit exceeded",
					logging.String("client", client),
					logging.String("path", r.URL.Path),
					logging.RequestID(GetRequestID(r)))

				retry := int(math.Ceil(d.RetryAfter.Seconds()))
				if retry < 1 {
					retry = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(retry))
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
