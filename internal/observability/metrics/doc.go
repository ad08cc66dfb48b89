// Package metrics provides centralized Prometheus metrics for the application.
//
// This package holds the HTTP transport metrics and the summarization pipeline
// metrics. Completion-level metrics (attempts, prompt tokens) live with the
// completion client in the summarizer package.
//
// All metrics are registered with the Prometheus default registry and exposed
// via the /metrics endpoint.
//
// Example usage:
//
//	start := time.Now()
//	result, err := pipeline.Process(ctx, src, "")
//	metrics.RecordPipelineRun(metrics.OutcomeOf(result.Empty, err), result.Mode, time.Since(start))
package metrics
