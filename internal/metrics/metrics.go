package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Categorization outcomes by strategy, status and resulting label
	CategorizationCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "email_categorization_count",
			Help: "Total number of email categorizations",
		},
		[]string{"strategy", "status", "category"},
	)

	// Classifier call latency in seconds
	ClassifierLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "classifier_latency_seconds",
			Help:    "Classification strategy latency in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms to ~16s
		},
		[]string{"strategy"},
	)

	// HTTP request latency in seconds
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)
)

// RecordCategorization counts one categorization outcome
func RecordCategorization(strategy, status, category string) {
	CategorizationCount.WithLabelValues(strategy, status, category).Inc()
}

// RecordClassifierLatency records how long a classification strategy took
func RecordClassifierLatency(strategy string, duration time.Duration) {
	ClassifierLatency.WithLabelValues(strategy).Observe(duration.Seconds())
}

// RecordHTTPRequestDuration records one served HTTP request
func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}
