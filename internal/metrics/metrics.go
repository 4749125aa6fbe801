package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request latency (seconds)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	// Auto-movement poll cycles per column
	PollCycles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "board_poll_cycles_total",
			Help: "Total auto-movement poll cycles executed per column",
		},
		[]string{"column"},
	)

	// Column membership changes detected by the poller
	BucketChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "board_bucket_changes_total",
			Help: "Total column membership changes detected",
		},
		[]string{"column"},
	)

	// Refreshes dropped because one was already in flight
	DroppedRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "board_dropped_refreshes_total",
			Help: "Total refreshes dropped while another was outstanding",
		},
		[]string{"column"},
	)
)

// RecordHTTPRequestDuration records HTTP request latency
func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}
