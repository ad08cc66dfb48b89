package metrics

import "time"

// Pipeline outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeEmpty   = "empty"
	OutcomeFailure = "failure"
)

// OutcomeOf maps a pipeline result to its outcome label.
func OutcomeOf(empty bool, err error) string {
	switch {
	case err != nil:
		return OutcomeFailure
	case empty:
		return OutcomeEmpty
	default:
		return OutcomeSuccess
	}
}

// RecordPipelineRun records one finished pipeline run.
// Mode is "single", "chunked", or "none" when nothing was summarized.
func RecordPipelineRun(outcome, mode string, duration time.Duration) {
	PipelineRunsTotal.WithLabelValues(outcome, mode).Inc()
	PipelineDuration.WithLabelValues(mode).Observe(duration.Seconds())
}

// RecordNormalizedLength records the length of the prepared text.
func RecordNormalizedLength(length int) {
	NormalizedTextLength.Observe(float64(length))
}

// RecordChunks records the chunk count of a chunked run.
func RecordChunks(count int) {
	ChunksPerRun.Observe(float64(count))
}
