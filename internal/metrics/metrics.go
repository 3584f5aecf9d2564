// Package metrics provides Prometheus instrumentation for searches and
// snapshot refreshes.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Search outcomes used as the "outcome" label.
const (
	OutcomeOK          = "ok"
	OutcomeInvalid     = "invalid"
	OutcomeUnavailable = "unavailable"
	OutcomeError       = "error"
)

// Metrics holds every collector the service exports.
type Metrics struct {
	Searches        *prometheus.CounterVec
	SearchDuration  prometheus.Histogram
	SearchResults   *prometheus.HistogramVec
	Refreshes       *prometheus.CounterVec
	SnapshotUpdated prometheus.Gauge
}

// New creates and registers all collectors on reg.
// Pass prometheus.NewRegistry() in tests so instances don't collide.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Searches: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mangobar_searches_total",
			Help: "Total number of searches by outcome",
		}, []string{"outcome"}),
		SearchDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "mangobar_search_duration_seconds",
			Help:    "Duration of the full search pipeline",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		SearchResults: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mangobar_search_results",
			Help:    "Rows returned per search by record set",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		}, []string{"set"}),
		Refreshes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mangobar_snapshot_refreshes_total",
			Help: "Snapshot refresh attempts by result (downloaded, skipped, failed)",
		}, []string{"result"}),
		SnapshotUpdated: f.NewGauge(prometheus.GaugeOpts{
			Name: "mangobar_snapshot_updated_timestamp_seconds",
			Help: "Unix time of the last successful snapshot download",
		}),
	}
}

// ObserveSearch records one search with its outcome and duration.
// Call with time.Now() taken at the start of the search.
func (m *Metrics) ObserveSearch(outcome string, start time.Time) {
	m.Searches.WithLabelValues(outcome).Inc()
	m.SearchDuration.Observe(time.Since(start).Seconds())
}

// ObserveResults records the size of both result sets.
func (m *Metrics) ObserveResults(active, closed int) {
	m.SearchResults.WithLabelValues("active").Observe(float64(active))
	m.SearchResults.WithLabelValues("closed").Observe(float64(closed))
}

// IncrementRefresh counts a refresh attempt with the given result.
func (m *Metrics) IncrementRefresh(result string) {
	m.Refreshes.WithLabelValues(result).Inc()
}

// SetSnapshotUpdated records the time of a successful download.
func (m *Metrics) SetSnapshotUpdated(t time.Time) {
	m.SnapshotUpdated.Set(float64(t.Unix()))
}
