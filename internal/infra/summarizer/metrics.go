package summarizer

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels recorded for completion requests.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// MetricsRecorder defines the interface for recording completion metrics.
// It abstracts the Prometheus implementation so tests can inject a mock.
type MetricsRecorder interface {
	// RecordRequest counts a finished Generate call by provider and outcome.
	RecordRequest(provider, outcome string)

	// RecordAttempts records how many provider calls a Generate call needed.
	RecordAttempts(provider string, attempts int)

	// RecordDuration records the wall time of a Generate call including retries.
	RecordDuration(provider string, duration time.Duration)

	// RecordPromptTokens records the estimated token count of the prompt.
	RecordPromptTokens(provider string, tokens int)

	// RecordOutputLength records the length of the generated text in runes.
	RecordOutputLength(provider string, length int)
}

// PrometheusMetrics implements MetricsRecorder using Prometheus metrics.
type PrometheusMetrics struct {
	requests     *prometheus.CounterVec
	attempts     *prometheus.HistogramVec
	duration     *prometheus.HistogramVec
	promptTokens *prometheus.HistogramVec
	outputLength *prometheus.HistogramVec
}

var (
	prometheusMetricsInstance *PrometheusMetrics
	prometheusMetricsOnce     sync.Once
)

// getOrCreateHistogramVec gets an existing histogram vector or creates a new one if it doesn't exist
func getOrCreateHistogramVec(opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	h := prometheus.NewHistogramVec(opts, labels)
	if err := prometheus.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(*prometheus.HistogramVec)
		}
		return promauto.NewHistogramVec(opts, labels)
	}
	return h
}

// getOrCreateCounterVec gets an existing counter vector or creates a new one if it doesn't exist
func getOrCreateCounterVec(opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	c := prometheus.NewCounterVec(opts, labels)
	if err := prometheus.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(*prometheus.CounterVec)
		}
		return promauto.NewCounterVec(opts, labels)
	}
	return c
}

// NewPrometheusMetrics returns the process-wide Prometheus recorder.
// Uses a singleton to avoid duplicate metric registration in tests.
func NewPrometheusMetrics() *PrometheusMetrics {
	prometheusMetricsOnce.Do(func() {
		prometheusMetricsInstance = &PrometheusMetrics{
			requests: getOrCreateCounterVec(prometheus.CounterOpts{
				Name: "medsum_completion_requests_total",
				Help: "Total number of completion requests by provider and outcome",
			}, []string{"provider", "outcome"}),
			attempts: getOrCreateHistogramVec(prometheus.HistogramOpts{
				Name:    "medsum_completion_attempts",
				Help:    "Number of provider calls needed per completion request",
				Buckets: []float64{1, 2, 3, 4, 5, 8},
			}, []string{"provider"}),
			duration: getOrCreateHistogramVec(prometheus.HistogramOpts{
				Name:    "medsum_completion_duration_seconds",
				Help:    "Time taken by a completion request including retries",
				Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
			}, []string{"provider"}),
			promptTokens: getOrCreateHistogramVec(prometheus.HistogramOpts{
				Name:    "medsum_completion_prompt_tokens",
				Help:    "Estimated prompt size in tokens",
				Buckets: prometheus.ExponentialBuckets(64, 2, 10),
			}, []string{"provider"}),
			outputLength: getOrCreateHistogramVec(prometheus.HistogramOpts{
				Name:    "medsum_completion_output_length_characters",
				Help:    "Distribution of generated text lengths in characters (Unicode runes)",
				Buckets: []float64{100, 300, 500, 700, 900, 1100, 1500, 2000},
			}, []string{"provider"}),
		}
	})
	return prometheusMetricsInstance
}

// RecordRequest implements MetricsRecorder.RecordRequest
func (p *PrometheusMetrics) RecordRequest(provider, outcome string) {
	p.requests.WithLabelValues(provider, outcome).Inc()
}

// RecordAttempts implements MetricsRecorder.RecordAttempts
func (p *PrometheusMetrics) RecordAttempts(provider string, attempts int) {
	p.attempts.WithLabelValues(provider).Observe(float64(attempts))
}

// RecordDuration implements MetricsRecorder.RecordDuration
func (p *PrometheusMetrics) RecordDuration(provider string, duration time.Duration) {
	p.duration.WithLabelValues(provider).Observe(duration.Seconds())
}

// RecordPromptTokens implements MetricsRecorder.RecordPromptTokens
func (p *PrometheusMetrics) RecordPromptTokens(provider string, tokens int) {
	p.promptTokens.WithLabelValues(provider).Observe(float64(tokens))
}

// RecordOutputLength implements MetricsRecorder.RecordOutputLength
func (p *PrometheusMetrics) RecordOutputLength(provider string, length int) {
	p.outputLength.WithLabelValues(provider).Observe(float64(length))
}
