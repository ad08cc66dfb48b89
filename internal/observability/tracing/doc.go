// Package tracing provides OpenTelemetry tracing integration.
//
// Spans are created through GetTracer against the global tracer provider.
// When no provider is installed, spans are no-ops.
//
//	func processRequest(ctx context.Context) {
//	    ctx, span := tracing.GetTracer().Start(ctx, "process-request")
//	    defer span.End()
//	    // ... process request ...
//	}
package tracing
