package http

import (
	"log/slog"
	"net/http"

	"medsum/internal/handler/http/middleware"
	"medsum/internal/handler/http/requestid"
	"medsum/internal/handler/http/summary"
	"medsum/internal/observability/tracing"
	"medsum/internal/usecase/summarize"
)

// RouterConfig carries everything the router wires together.
type RouterConfig struct {
	Pipeline       *summarize.Pipeline
	Completion     CircuitReporter
	Models         ModelsHandler
	Version        string
	MaxUploadBytes int64
	CORS           middleware.CORSConfig
	Logger         *slog.Logger
}

// NewRouter registers every route and applies the middleware chain.
// Middleware order: CORS → Request ID → Tracing → Logging → Recovery → Metrics → Body Limit
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()
	mux.Handle("GET /{$}", RootHandler{Version: cfg.Version})
	mux.Handle("GET /health", &HealthHandler{Completion: cfg.Completion, Version: cfg.Version})
	mux.Handle("GET /ready", &ReadyHandler{Completion: cfg.Completion})
	mux.Handle("GET /models", cfg.Models)
	mux.Handle("GET /metrics", MetricsHandler())
	summary.Register(mux, cfg.Pipeline)

	chain := []func(http.Handler) http.Handler{
		middleware.CORS(cfg.CORS),
		requestid.Middleware,
		tracing.Middleware,
		Logging(logger),
		Recover(logger),
		MetricsMiddleware,
	}
	if cfg.MaxUploadBytes > 0 {
		chain = append(chain, LimitRequestBody(cfg.MaxUploadBytes))
	}
	return Chain(mux, chain...)
}
