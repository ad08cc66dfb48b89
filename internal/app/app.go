// Package app wires configuration into the completion client and the
// summarization pipeline shared by the CLI and the API server.
package app

import (
	"fmt"
	"log/slog"

	"medsum/internal/config"
	"medsum/internal/infra/summarizer"
	"medsum/internal/usecase/summarize"
)

// App holds the wired components.
type App struct {
	Config   *config.Config
	Client   *summarizer.Client
	Pipeline *summarize.Pipeline
}

// ProviderConfig maps cfg to the provider constructor settings.
func ProviderConfig(cfg *config.Config) summarizer.ProviderConfig {
	return summarizer.ProviderConfig{
		Name:    cfg.Provider,
		APIKey:  cfg.APIKey(),
		BaseURL: cfg.BaseURL(),
		Model:   cfg.Model,
		Timeout: cfg.RequestTimeout,
	}
}

// ClientConfig maps cfg to the completion client settings.
func ClientConfig(cfg *config.Config) summarizer.ClientConfig {
	return summarizer.ClientConfig{
		MaxAttempts:       cfg.MaxRetries,
		InitialDelay:      cfg.RetryInitialDelay,
		MaxDelay:          cfg.RetryMaxDelay,
		RequestTimeout:    cfg.RequestTimeout,
		RequestsPerSecond: cfg.RequestsPerSecond,
		Burst:             cfg.Burst,
	}
}

// PipelineConfig maps cfg to the splitting parameters.
func PipelineConfig(cfg *config.Config) summarize.Config {
	return summarize.Config{
		ChunkSize:  cfg.ChunkSize,
		Overlap:    cfg.Overlap,
		TokenLimit: cfg.TokenLimit,
	}
}

// New builds the provider, the client around it and the pipeline.
func New(cfg *config.Config) (*App, error) {
	provider, err := summarizer.NewProvider(ProviderConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("create provider: %w", err)
	}

	client := summarizer.NewClient(provider, ClientConfig(cfg))
	pipeline := summarize.NewPipeline(summarize.NewOrchestrator(client, cfg.Model), PipelineConfig(cfg))

	slog.Info("summarizer ready",
		slog.String("provider", cfg.Provider),
		slog.String("model", Model(cfg)),
		slog.Int("chunk_size", cfg.ChunkSize),
		slog.Int("overlap", cfg.Overlap),
		slog.Int("token_limit", cfg.TokenLimit))

	return &App{Config: cfg, Client: client, Pipeline: pipeline}, nil
}

// Model returns the configured model, or the provider default when unset.
func Model(cfg *config.Config) string {
	if cfg.Model != "" {
		return cfg.Model
	}
	return summarizer.DefaultModel(cfg.Provider)
}
