// Package metrics exposes Prometheus instrumentation for the HTTP service,
// shortest-path searches and dataset loading.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// namespace prefixes every exported series
const namespace = "degrees"

// Registry owns a private Prometheus registry and the collectors recorded
// into it. Every Record method is safe for concurrent use.
type Registry struct {
	HTTP    *HTTPMetrics
	Search  *SearchMetrics
	Dataset *DatasetMetrics

	reg     *prometheus.Registry
	started time.Time
}

// NewRegistry creates a registry with all collectors registered, including
// Go runtime statistics under the degrees_ prefix
func NewRegistry() *Registry {
	r := &Registry{
		reg:     prometheus.NewRegistry(),
		started: time.Now(),
	}
	f := promauto.With(r.reg)

	r.HTTP = newHTTPMetrics(f)
	r.Search = newSearchMetrics(f)
	r.Dataset = newDatasetMetrics(f)

	f.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "uptime_seconds",
		Help:      "Seconds since the registry was created.",
	}, func() float64 { return time.Since(r.started).Seconds() })

	prometheus.WrapRegistererWithPrefix(namespace+"_", r.reg).MustRegister(collectors.NewGoCollector())
	return r
}

// Gatherer exposes the underlying registry for scraping or inspection
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// Handler serves the registry in the Prometheus exposition format
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
