package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/dd0wney/cluso-degrees/pkg/dataset"
)

func fixed(status Status) CheckFunc {
	return func() Check { return Check{Status: status} }
}

func TestChecker_EmptyProbeHealthy(t *testing.T) {
	c := NewChecker()
	for _, p := range []Probe{Liveness, Readiness, Full} {
		resp := c.Run(p)
		if resp.Status != StatusHealthy {
			t.Errorf("probe %d: status = %s, want healthy", p, resp.Status)
		}
		if len(resp.Checks) != 0 {
			t.Errorf("probe %d: unexpected checks %v", p, resp.Checks)
		}
	}
}

func TestChecker_ProbeSelection(t *testing.T) {
	c := NewChecker()
	c.Register("process", Liveness, fixed(StatusHealthy))
	c.Register("dataset", Readiness, fixed(StatusUnhealthy))
	c.Register("memory", Full, fixed(StatusDegraded))

	tests := []struct {
		probe  Probe
		checks []string
		status Status
	}{
		{Liveness, []string{"process", "memory"}, StatusDegraded},
		{Readiness, []string{"dataset", "memory"}, StatusUnhealthy},
		{Full, []string{"process", "dataset", "memory"}, StatusUnhealthy},
	}

	for _, tt := range tests {
		resp := c.Run(tt.probe)
		if resp.Status != tt.status {
			t.Errorf("probe %d: status = %s, want %s", tt.probe, resp.Status, tt.status)
		}
		if len(resp.Checks) != len(tt.checks) {
			t.Errorf("probe %d: ran %d checks, want %d", tt.probe, len(resp.Checks), len(tt.checks))
		}
		for _, name := range tt.checks {
			check, ok := resp.Checks[name]
			if !ok {
				t.Errorf("probe %d: missing %s", tt.probe, name)
				continue
			}
			if check.Name != name {
				t.Errorf("check name = %q, want %q", check.Name, name)
			}
		}
	}
}

func TestChecker_WorstStatusWins(t *testing.T) {
	tests := []struct {
		name     string
		statuses []Status
		want     Status
	}{
		{"all healthy", []Status{StatusHealthy, StatusHealthy}, StatusHealthy},
		{"one degraded", []Status{StatusHealthy, StatusDegraded}, StatusDegraded},
		{"unhealthy beats degraded", []Status{StatusDegraded, StatusUnhealthy, StatusHealthy}, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewChecker()
			for i, s := range tt.statuses {
				c.Register(string(rune('a'+i)), Full, fixed(s))
			}
			if got := c.Run(Full).Status; got != tt.want {
				t.Errorf("status = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestChecker_RegisterReplaces(t *testing.T) {
	c := NewChecker()
	c.Register("dataset", Full, fixed(StatusUnhealthy))
	c.Register("dataset", Full, fixed(StatusHealthy))

	resp := c.Run(Full)
	if len(resp.Checks) != 1 || resp.Status != StatusHealthy {
		t.Errorf("re-registering should replace the check, got %+v", resp)
	}
}

func TestChecker_Uptime(t *testing.T) {
	c := NewChecker()
	start := c.started
	c.now = func() time.Time { return start.Add(90 * time.Second) }

	resp := c.Run(Full)
	if resp.Uptime != 90 {
		t.Errorf("uptime = %v, want 90", resp.Uptime)
	}
	if !resp.Timestamp.Equal(start.Add(90 * time.Second)) {
		t.Errorf("timestamp = %v", resp.Timestamp)
	}
}

func TestChecker_ConcurrentRegisterAndRun(t *testing.T) {
	c := NewChecker()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			c.Register(string(rune('a'+i)), Full, fixed(StatusHealthy))
		}(i)
		go func() {
			defer wg.Done()
			c.Run(Full)
		}()
	}
	wg.Wait()

	if n := len(c.Run(Full).Checks); n != 20 {
		t.Errorf("checks = %d, want 20", n)
	}
}

func TestDatasetCheck(t *testing.T) {
	tests := []struct {
		name  string
		stats dataset.Statistics
		want  Status
	}{
		{"loaded", dataset.Statistics{People: 3, Movies: 2, Credits: 4}, StatusHealthy},
		{"no credits", dataset.Statistics{People: 3, Movies: 2}, StatusDegraded},
		{"empty", dataset.Statistics{}, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := DatasetCheck(func() dataset.Statistics { return tt.stats })()
			if check.Status != tt.want {
				t.Errorf("status = %s, want %s", check.Status, tt.want)
			}
			if check.Details["people"] != tt.stats.People {
				t.Errorf("details = %v", check.Details)
			}
		})
	}
}

func TestMemoryCheck(t *testing.T) {
	if check := memoryCheck(50, 100); check.Status != StatusHealthy {
		t.Errorf("50%% should be healthy, got %s", check.Status)
	}

	check := memoryCheck(95, 100)
	if check.Status != StatusDegraded {
		t.Errorf("95%% should be degraded, got %s", check.Status)
	}
	if check.Details["used_percent"] != 95.0 {
		t.Errorf("used_percent = %v", check.Details["used_percent"])
	}

	if check := memoryCheck(1<<40, 0); check.Status != StatusHealthy {
		t.Error("without a limit the check only reports usage")
	}

	if check := MemoryCheck(1 << 50)(); check.Status != StatusHealthy {
		t.Errorf("live check under a huge limit = %s", check.Status)
	}
}

func TestHandler_StatusCodes(t *testing.T) {
	tests := []struct {
		name   string
		status Status
		probe  Probe
		want   int
	}{
		{"healthy full", StatusHealthy, Full, http.StatusOK},
		{"degraded full", StatusDegraded, Full, http.StatusOK},
		{"degraded readiness", StatusDegraded, Readiness, http.StatusServiceUnavailable},
		{"degraded liveness", StatusDegraded, Liveness, http.StatusServiceUnavailable},
		{"unhealthy full", StatusUnhealthy, Full, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewChecker()
			c.Register("x", Full, fixed(tt.status))

			rr := httptest.NewRecorder()
			c.Handler(tt.probe)(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

			if rr.Code != tt.want {
				t.Errorf("code = %d, want %d", rr.Code, tt.want)
			}
			if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q", ct)
			}

			var resp Response
			if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			if resp.Status != tt.status {
				t.Errorf("body status = %s, want %s", resp.Status, tt.status)
			}
		})
	}
}
