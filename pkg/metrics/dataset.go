package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DatasetMetrics describes the dataset currently served
type DatasetMetrics struct {
	People       prometheus.Gauge
	Movies       prometheus.Gauge
	Credits      prometheus.Gauge
	SkippedRows  prometheus.Gauge
	LoadDuration *prometheus.HistogramVec
}

func newDatasetMetrics(f promauto.Factory) *DatasetMetrics {
	gauge := func(name, help string) prometheus.Gauge {
		return f.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Subsystem: "dataset", Name: name, Help: help})
	}
	return &DatasetMetrics{
		People:      gauge("people", "People in the loaded dataset."),
		Movies:      gauge("movies", "Movies in the loaded dataset."),
		Credits:     gauge("credits", "Person to movie credits in the loaded dataset."),
		SkippedRows: gauge("skipped_rows", "Rows and credits skipped while loading."),
		LoadDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "dataset", Name: "load_duration_seconds",
			Help:    "Time taken to load the dataset, by source.",
			Buckets: []float64{0.01, 0.1, 0.5, 1, 5, 10, 30, 60},
		}, []string{"source"}),
	}
}

// RecordDatasetLoad publishes the size of a freshly loaded dataset.
// source is csv, snapshot or postgres.
func (r *Registry) RecordDatasetLoad(source string, people, movies, credits, skipped int, duration time.Duration) {
	m := r.Dataset
	m.People.Set(float64(people))
	m.Movies.Set(float64(movies))
	m.Credits.Set(float64(credits))
	m.SkippedRows.Set(float64(skipped))
	m.LoadDuration.WithLabelValues(source).Observe(duration.Seconds())
}
