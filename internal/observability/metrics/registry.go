package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics track HTTP request patterns and performance
var (
	// HTTPRequestsTotal counts total HTTP requests by method, path, and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration measures HTTP request duration in seconds
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestsInFlight tracks requests currently being served
	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being served",
		},
	)

	// HTTPRequestSize measures HTTP request body size in bytes
	HTTPRequestSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_size_bytes",
			Help:    "HTTP request size in bytes",
			Buckets: prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path"},
	)

	// HTTPResponseSize measures HTTP response body size in bytes
	HTTPResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_response_size_bytes",
			Help:    "HTTP response size in bytes",
			Buckets: prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path"},
	)
)

// Pipeline metrics track summarization runs
var (
	// PipelineRunsTotal counts pipeline runs by outcome and mode
	PipelineRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medsum_pipeline_runs_total",
			Help: "Total number of summarization pipeline runs",
		},
		[]string{"outcome", "mode"}, // outcome: success, empty, failure; mode: single, chunked, none
	)

	// PipelineDuration measures end-to-end pipeline duration
	PipelineDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "medsum_pipeline_duration_seconds",
			Help:    "Time taken by a summarization pipeline run",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		},
		[]string{"mode"},
	)

	// NormalizedTextLength measures prepared text length in characters
	NormalizedTextLength = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "medsum_normalized_text_length_characters",
			Help:    "Length of normalized input text in characters (Unicode runes)",
			Buckets: prometheus.ExponentialBuckets(500, 2, 10),
		},
	)

	// ChunksPerRun measures how many chunks a chunked run produced
	ChunksPerRun = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "medsum_chunks_per_run",
			Help:    "Number of chunks produced by the splitter per chunked run",
			Buckets: []float64{2, 3, 4, 6, 8, 12, 16, 32},
		},
	)
)

// RecordHTTPRequest records an HTTP request with its metadata
func RecordHTTPRequest(method, path, status string, duration time.Duration, requestSize, responseSize int) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())

	if requestSize > 0 {
		HTTPRequestSize.WithLabelValues(method, path).Observe(float64(requestSize))
	}
	if responseSize > 0 {
		HTTPResponseSize.WithLabelValues(method, path).Observe(float64(responseSize))
	}
}
