package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTPMetrics tracks requests served by the API
type HTTPMetrics struct {
	Requests     *prometheus.CounterVec
	Duration     *prometheus.HistogramVec
	InFlight     prometheus.Gauge
	ResponseSize *prometheus.HistogramVec
}

func newHTTPMetrics(f promauto.Factory) *HTTPMetrics {
	labels := []string{"method", "path", "status"}
	return &HTTPMetrics{
		Requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "http", Name: "requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, labels),
		Duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "http", Name: "request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, labels),
		InFlight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "http", Name: "requests_in_flight",
			Help: "Requests currently being served.",
		}),
		ResponseSize: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "http", Name: "response_size_bytes",
			Help:    "Response body size.",
			Buckets: prometheus.ExponentialBuckets(64, 4, 8),
		}, []string{"method", "path"}),
	}
}

// RecordHTTPRequest counts one finished request
func (r *Registry) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	r.HTTP.Requests.WithLabelValues(method, path, status).Inc()
	r.HTTP.Duration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordResponseSize observes the number of body bytes written
func (r *Registry) RecordResponseSize(method, path string, size float64) {
	r.HTTP.ResponseSize.WithLabelValues(method, path).Observe(size)
}

// IncHTTPRequestsInFlight marks a request as started
func (r *Registry) IncHTTPRequestsInFlight() { r.HTTP.InFlight.Inc() }

// DecHTTPRequestsInFlight marks a request as finished
func (r *Registry) DecHTTPRequestsInFlight() { r.HTTP.InFlight.Dec() }
