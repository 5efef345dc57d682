package prom

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	searches = register(prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventfinder_searches_total",
			Help: "Event searches by outcome (ok, no-results, stale, error).",
		},
		[]string{"result"},
	)).(*prometheus.CounterVec)

	searchDuration = register(prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "eventfinder_search_duration_seconds",
			Help:    "Time spent waiting on the search provider.",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 15},
		},
		[]string{"provider"},
	)).(*prometheus.HistogramVec)

	upstreamErrors = register(prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventfinder_upstream_errors_total",
			Help: "Failed calls to external providers by provider and error kind.",
		},
		[]string{"provider", "kind"},
	)).(*prometheus.CounterVec)

	sessions = register(prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "eventfinder_sessions_active",
		Help: "Number of live client sessions.",
	})).(prometheus.Gauge)
)

// ObserveSearch records the outcome of one search.
func ObserveSearch(result string) {
	searches.WithLabelValues(result).Inc()
}

// ObserveUpstream records one call to an external provider. kind is empty
// for successful calls.
func ObserveUpstream(provider, kind string, d time.Duration) {
	searchDuration.WithLabelValues(provider).Observe(d.Seconds())
	if kind != "" {
		upstreamErrors.WithLabelValues(provider, kind).Inc()
	}
}

// SetSessions sets the live session gauge.
func SetSessions(n int) {
	sessions.Set(float64(n))
}
