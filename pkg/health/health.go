// Package health runs named checks and serves them as liveness, readiness and
// full health probes.
package health

import (
	"sort"
	"sync"
	"time"
)

// Status of one check or of a whole probe
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// severity orders statuses so the worst one wins
func (s Status) severity() int {
	switch s {
	case StatusHealthy:
		return 0
	case StatusDegraded:
		return 1
	default:
		return 2
	}
}

// Probe selects which checks a request runs
type Probe uint8

const (
	// Liveness checks fail only when the process must be restarted
	Liveness Probe = 1 << iota
	// Readiness checks fail while the service cannot answer queries
	Readiness
	// Full is every registered check
	Full = Liveness | Readiness
)

// Check is the outcome of one named check
type Check struct {
	Name     string         `json:"name"`
	Status   Status         `json:"status"`
	Message  string         `json:"message,omitempty"`
	Details  map[string]any `json:"details,omitempty"`
	Duration time.Duration  `json:"duration_ns"`
}

// CheckFunc produces a Check. It must not block.
type CheckFunc func() Check

// Response is what a probe returns
type Response struct {
	Status    Status           `json:"status"`
	Timestamp time.Time        `json:"timestamp"`
	Uptime    float64          `json:"uptime_seconds"`
	Checks    map[string]Check `json:"checks"`
}

type registered struct {
	name  string
	probe Probe
	fn    CheckFunc
}

// Checker holds the registered checks
type Checker struct {
	mu      sync.RWMutex
	checks  []registered
	started time.Time
	now     func() time.Time
}

// NewChecker creates an empty checker. Uptime is counted from now.
func NewChecker() *Checker {
	return &Checker{started: time.Now(), now: time.Now}
}

// Register adds a check to the probes in p. Registering a name again
// replaces the earlier check.
func (c *Checker) Register(name string, p Probe, fn CheckFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.checks {
		if c.checks[i].name == name {
			c.checks[i] = registered{name: name, probe: p, fn: fn}
			return
		}
	}
	c.checks = append(c.checks, registered{name: name, probe: p, fn: fn})
	sort.Slice(c.checks, func(i, j int) bool { return c.checks[i].name < c.checks[j].name })
}

// Run executes the checks belonging to p. A probe with no checks is healthy.
func (c *Checker) Run(p Probe) Response {
	c.mu.RLock()
	checks := make([]registered, 0, len(c.checks))
	for _, r := range c.checks {
		if r.probe&p != 0 {
			checks = append(checks, r)
		}
	}
	c.mu.RUnlock()

	now := c.now()
	resp := Response{
		Status:    StatusHealthy,
		Timestamp: now,
		Uptime:    now.Sub(c.started).Seconds(),
		Checks:    make(map[string]Check, len(checks)),
	}

	for _, r := range checks {
		start := time.Now()
		check := r.fn()
		check.Name = r.name
		check.Duration = time.Since(start)
		resp.Checks[r.name] = check

		if check.Status.severity() > resp.Status.severity() {
			resp.Status = check.Status
		}
	}
	return resp
}
