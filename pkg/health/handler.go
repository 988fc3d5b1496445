package health

import (
	"encoding/json"
	"net/http"
)

// Handler serves probe p as JSON. Unhealthy answers 503. Degraded answers
// 200 on the full probe, so dashboards see it, and 503 on liveness and
// readiness, which orchestrators treat as binary.
func (c *Checker) Handler(p Probe) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := c.Run(p)

		status := http.StatusOK
		switch {
		case resp.Status == StatusUnhealthy:
			status = http.StatusServiceUnavailable
		case resp.Status == StatusDegraded && p != Full:
			status = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(resp)
	}
}
