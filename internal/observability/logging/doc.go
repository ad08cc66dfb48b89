// Package logging provides structured logging utilities with context propagation.
//
// Key features:
//   - JSON and text output formats (LOG_FORMAT)
//   - Configurable log levels (LOG_LEVEL)
//   - Request ID propagation
//   - Context-aware logging
//
// Example usage:
//
//	import "medsum/internal/observability/logging"
//
//	func main() {
//	    logger := logging.NewFromEnv(os.Stderr)
//	    slog.SetDefault(logger)
//	}
//
//	func handleRequest(ctx context.Context) {
//	    logger := logging.WithRequestID(ctx, slog.Default())
//	    logger.Info("processing request")
//	}
package logging
