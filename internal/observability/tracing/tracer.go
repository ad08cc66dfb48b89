package tracing

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation name used for every span of the summarizer.
const TracerName = "medsum"

// GetTracer returns the tracer for creating spans.
// It is resolved from the global provider on each call so a provider installed
// after package init (e.g. in tests) is honored.
//
// Example usage:
//
//	ctx, span := tracing.GetTracer().Start(ctx, "operation-name")
//	defer span.End()
func GetTracer() trace.Tracer {
	return otel.Tracer(TracerName)
}
