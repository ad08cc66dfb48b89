// Package observability provides the observability infrastructure of the
// summarizer: structured logging, Prometheus metrics and OpenTelemetry tracing.
//
// Subpackages:
//   - logging: Structured logging utilities with slog
//   - metrics: Prometheus metrics registry and recorders
//   - tracing: OpenTelemetry tracer and HTTP middleware
//
// Example usage:
//
//	import (
//	    "medsum/internal/observability/logging"
//	    "medsum/internal/observability/tracing"
//	)
//
//	func main() {
//	    logger := logging.NewLogger()
//	    logger.Info("application started")
//
//	    ctx, span := tracing.GetTracer().Start(ctx, "summarize")
//	    defer span.End()
//	}
package observability
