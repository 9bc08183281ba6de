// Package metrics prometheus 指標，/metrics 由 fiber adaptor 對外提供
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BreakerOpen 1 when the named breaker is OPEN
	BreakerOpen = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "library_breaker_open",
			Help: "Whether a circuit breaker is open (1) or closed (0)",
		},
		[]string{"breaker"},
	)

	// LoadsTotal load cycles by resulting status
	LoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "library_loads_total",
			Help: "Total number of catalog load cycles by resulting status",
		},
		[]string{"status"},
	)

	// QueryDuration time spent running the query pipeline
	QueryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "library_query_duration_seconds",
			Help:    "Duration of library queries in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
	)

	// ViewsRecordedTotal views recorded through the API
	ViewsRecordedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "library_views_recorded_total",
			Help: "Total number of recorded video views",
		},
	)

	// LiveSessions open websocket sessions
	LiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "library_live_sessions",
			Help: "Number of open live query sessions",
		},
	)
)

// SetBreakerOpen records the state of a breaker
func SetBreakerOpen(name string, open bool) {
	v := 0.0
	if open {
		v = 1
	}
	BreakerOpen.WithLabelValues(name).Set(v)
}

// RecordLoad counts one load cycle
func RecordLoad(status string) {
	LoadsTotal.WithLabelValues(status).Inc()
}

// ObserveQuery records the duration of a query started at start
func ObserveQuery(start time.Time) {
	QueryDuration.Observe(time.Since(start).Seconds())
}
