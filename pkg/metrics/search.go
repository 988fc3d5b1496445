package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SlowSearchThreshold is the duration above which a search counts as slow
const SlowSearchThreshold = time.Second

// SearchMetrics tracks shortest-path searches
type SearchMetrics struct {
	Total    *prometheus.CounterVec
	Duration *prometheus.HistogramVec
	Expanded prometheus.Histogram
	Degrees  prometheus.Histogram
	Slow     prometheus.Counter
}

func newSearchMetrics(f promauto.Factory) *SearchMetrics {
	return &SearchMetrics{
		Total: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "searches_total",
			Help: "Searches by outcome: found, not_found or error.",
		}, []string{"outcome"}),
		Duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "search", Name: "duration_seconds",
			Help:    "Search latency by outcome.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 10, 6),
		}, []string{"outcome"}),
		Expanded: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "search", Name: "people_expanded",
			Help:    "People whose neighbors were computed in one search.",
			Buckets: prometheus.ExponentialBuckets(1, 10, 6),
		}),
		Degrees: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "search", Name: "degrees",
			Help:    "Path length of searches that found a connection.",
			Buckets: []float64{0, 1, 2, 3, 4, 5, 6, 8, 10},
		}),
		Slow: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "slow_searches_total",
			Help: "Searches slower than one second.",
		}),
	}
}

// RecordSearch implements search.Recorder. Degrees are observed only for
// searches that found a path.
func (r *Registry) RecordSearch(outcome string, duration time.Duration, expanded, degrees int) {
	m := r.Search
	m.Total.WithLabelValues(outcome).Inc()
	m.Duration.WithLabelValues(outcome).Observe(duration.Seconds())
	m.Expanded.Observe(float64(expanded))

	if outcome == "found" {
		m.Degrees.Observe(float64(degrees))
	}
	if duration > SlowSearchThreshold {
		m.Slow.Inc()
	}
}
