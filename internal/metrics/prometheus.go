package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the pipeline worker

var (
	// API Call metrics
	APICallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mlb_today_api_calls_total",
			Help: "Total number of upstream API calls",
		},
		[]string{"endpoint", "status"},
	)

	APICallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mlb_today_api_call_duration_seconds",
			Help:    "Duration of upstream API calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// Blob store metrics
	BlobOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mlb_today_blob_ops_total",
			Help: "Total number of blob store operations",
		},
		[]string{"operation", "container", "status"},
	)

	// Pipeline metrics
	JobRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mlb_today_job_runs_total",
			Help: "Total number of scheduled job runs",
		},
		[]string{"job", "status"},
	)

	JobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mlb_today_job_duration_seconds",
			Help:    "Duration of scheduled job runs in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"job"},
	)

	MatchupsBuilt = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mlb_today_matchups_built",
			Help: "Number of matchups in the most recent probables build",
		},
	)

	// Email metrics
	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mlb_today_emails_sent_total",
			Help: "Total number of email dispatch attempts",
		},
		[]string{"status"},
	)

	// System metrics
	SystemUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mlb_today_uptime_seconds",
			Help: "Worker uptime in seconds",
		},
	)
)
