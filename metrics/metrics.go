package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	StatusOK    = "ok"
	StatusError = "error"
)

var (
	fetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "macro_fetch_total",
			Help: "Outbound fetch attempts by source and outcome",
		},
		[]string{"source", "status"},
	)

	jobRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "macro_job_runs_total",
			Help: "Scheduled refresh job runs by job and outcome",
		},
		[]string{"job", "status"},
	)

	jobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "macro_job_duration_seconds",
			Help:    "Duration of refresh jobs in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"job"},
	)

	cacheKeys = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "macro_cache_keys",
			Help: "Number of indicator keys currently cached per category",
		},
		[]string{"category"},
	)
)

// RecordFetch records one outbound fetch attempt.
func RecordFetch(source, status string) {
	fetchTotal.WithLabelValues(source, status).Inc()
}

// RecordJobRun records a completed (or failed) refresh job cycle.
func RecordJobRun(job, status string, d time.Duration) {
	jobRunsTotal.WithLabelValues(job, status).Inc()
	jobDuration.WithLabelValues(job).Observe(d.Seconds())
}

// SetCacheKeys updates the cached key count gauge for a category.
func SetCacheKeys(category string, n int) {
	cacheKeys.WithLabelValues(category).Set(float64(n))
}
