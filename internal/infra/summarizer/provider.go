// Package summarizer provides the LLM completion capability used by the
// summarization pipeline. It includes adapters for OpenAI and Anthropic Claude,
// an offline Echo provider, and a Client that adds retry, circuit breaking,
// rate limiting and metrics around any provider.
package summarizer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"medsum/internal/domain/entity"
)

// Provider names accepted by NewProvider.
const (
	ProviderOpenAI = "openai"
	ProviderClaude = "claude"
	ProviderEcho   = "echo"
)

// ErrEmptyResponse is returned when a provider answers without any text content.
var ErrEmptyResponse = errors.New("provider returned empty response")

// ErrUnknownProvider is returned by NewProvider for an unsupported provider name.
var ErrUnknownProvider = errors.New("unknown provider")

// Provider performs a single completion call against an LLM backend.
// Implementations must not retry; the Client owns the retry policy.
type Provider interface {
	// Name returns the provider identifier, e.g. "openai".
	Name() string

	// Complete sends the instructions and prompt and returns the generated text.
	Complete(ctx context.Context, req entity.Completion) (string, error)
}

// ProviderConfig carries the credentials and endpoint settings for a provider.
type ProviderConfig struct {
	Name    string
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// NewProvider builds the provider selected by cfg.Name.
func NewProvider(cfg ProviderConfig) (Provider, error) {
	switch cfg.Name {
	case ProviderOpenAI:
		return NewOpenAI(OpenAIConfig{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			Timeout: cfg.Timeout,
		}), nil
	case ProviderClaude:
		return NewClaude(ClaudeConfig{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			Timeout: cfg.Timeout,
		}), nil
	case ProviderEcho:
		return NewEcho(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Name)
	}
}
