// Package main runs the summarizer HTTP API.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"medsum/internal/app"
	"medsum/internal/config"
	hhttp "medsum/internal/handler/http"
	"medsum/internal/handler/http/middleware"
	"medsum/internal/infra/summarizer"
	"medsum/internal/observability/logging"
)

// shutdownTimeout bounds graceful shutdown; in-flight summaries may take minutes.
const shutdownTimeout = 30 * time.Second

func main() {
	// A missing .env file is fine; the environment may already be set.
	_ = godotenv.Load()

	logger := logging.NewFromEnv(os.Stdout)
	slog.SetDefault(logger)

	cfg, err := config.Load("")
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	a, err := app.New(cfg)
	if err != nil {
		logger.Error("failed to initialize summarizer", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, a, getVersion()); err != nil {
		logger.Error("server failed", slog.Any("error", err))
		os.Exit(1)
	}
}

// getVersion returns the application version from environment or default.
func getVersion() string {
	version := os.Getenv("VERSION")
	if version == "" {
		version = "dev"
	}
	return version
}

// newHandler builds the router for a.
func newHandler(logger *slog.Logger, a *app.App, version string) http.Handler {
	provider := a.Config.Provider
	return hhttp.NewRouter(hhttp.RouterConfig{
		Pipeline:   a.Pipeline,
		Completion: a.Client,
		Models: hhttp.ModelsHandler{
			Provider: provider,
			Default:  app.Model(a.Config),
			Models:   summarizer.Models(provider),
		},
		Version:        version,
		MaxUploadBytes: a.Config.MaxUploadBytes,
		CORS:           middleware.DefaultCORSConfig(),
		Logger:         logger,
	})
}

// run serves until ctx is canceled, then shuts the server down gracefully.
func run(ctx context.Context, logger *slog.Logger, a *app.App, version string) error {
	srv := &http.Server{
		Addr:              a.Config.HTTPAddr,
		Handler:           newHandler(logger, a, version),
		ReadHeaderTimeout: 10 * time.Second, // Prevent Slowloris attacks
		// Requests keep ctx values but outlive its cancellation, so Shutdown can drain them.
		BaseContext: func(_ net.Listener) context.Context {
			return context.WithoutCancel(ctx)
		},
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("server starting",
			slog.String("addr", srv.Addr),
			slog.String("version", version),
			slog.String("provider", a.Config.Provider))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		logger.Info("server stopped")
		return nil
	})

	return g.Wait()
}
