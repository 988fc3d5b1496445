package middleware

import (
	"net/http"
	"strconv"
	"time"
)

// MetricsRecorder receives one observation per HTTP request
type MetricsRecorder interface {
	RecordHTTPRequest(method, path, status string, duration time.Duration)
	RecordResponseSize(method, path string, size float64)
	IncHTTPRequestsInFlight()
	DecHTTPRequestsInFlight()
}

// otherRoute labels requests for paths outside the known route set
const otherRoute = "other"

// Metrics records request counts, latency and response sizes. When routes
// are given, any other path is recorded as "other" so scanners probing random
// URLs cannot grow the label set.
func Metrics(recorder MetricsRecorder, routes ...string) func(http.Handler) http.Handler {
	known := make(map[string]struct{}, len(routes))
	for _, route := range routes {
		known[route] = struct{}{}
	}
	label := func(path string) string {
		if len(known) == 0 {
			return path
		}
		if _, ok := known[path]; ok {
			return path
		}
		return otherRoute
	}

	return func(next http.Handler) http.Handler {
		if recorder == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder.IncHTTPRequestsInFlight()
			defer recorder.DecHTTPRequestsInFlight()

			rec := record(w)
			before := rec.bytes
			next.ServeHTTP(rec, r)

			path := label(r.URL.Path)
			recorder.RecordHTTPRequest(r.Method, path, strconv.Itoa(rec.status), time.Since(start))
			recorder.RecordResponseSize(r.Method, path, float64(rec.bytes-before))
		})
	}
}
