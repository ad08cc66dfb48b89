// Package config loads the summarizer configuration from defaults, an optional
// YAML file and environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Supported providers.
const (
	ProviderOpenAI = "openai"
	ProviderClaude = "claude"
	ProviderEcho   = "echo"
)

// Config is the complete configuration surface of the summarizer.
type Config struct {
	// Provider selects the completion backend: openai, claude or echo.
	Provider string `yaml:"provider"`

	// Model is passed through to the provider. Empty selects the provider
	// default (gpt-4o-mini for openai).
	Model string `yaml:"model"`

	// ChunkSize, Overlap and TokenLimit drive splitting. Lengths are in characters.
	ChunkSize  int `yaml:"chunk_size"`
	Overlap    int `yaml:"overlap"`
	TokenLimit int `yaml:"token_limit"`

	// MaxRetries is the total number of completion attempts per call.
	MaxRetries        int           `yaml:"max_retries"`
	RetryInitialDelay time.Duration `yaml:"retry_initial_delay"`
	RetryMaxDelay     time.Duration `yaml:"retry_max_delay"`

	// RequestTimeout bounds one provider call.
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// RequestsPerSecond paces provider calls; zero disables pacing.
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`

	// HTTPAddr is the listen address of the API server.
	HTTPAddr string `yaml:"http_addr"`

	// MaxUploadBytes bounds request bodies of the API server.
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`

	// OpenAIBaseURL and AnthropicBaseURL override the provider endpoints.
	OpenAIBaseURL    string `yaml:"openai_base_url"`
	AnthropicBaseURL string `yaml:"anthropic_base_url"`

	// API credentials are read from the environment only.
	OpenAIAPIKey    string `yaml:"-"`
	AnthropicAPIKey string `yaml:"-"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Provider:          ProviderOpenAI,
		ChunkSize:         4000,
		Overlap:           200,
		TokenLimit:        4000,
		MaxRetries:        3,
		RetryInitialDelay: 2 * time.Second,
		RetryMaxDelay:     10 * time.Second,
		RequestTimeout:    120 * time.Second,
		RequestsPerSecond: 0,
		Burst:             1,
		HTTPAddr:          ":8080",
		MaxUploadBytes:    10 << 20,
	}
}

// Override adjusts a loaded configuration before validation, e.g. from command-line flags.
type Override func(*Config)

// WithProvider overrides the provider when p is not empty.
func WithProvider(p string) Override {
	return func(c *Config) {
		if p != "" {
			c.Provider = p
		}
	}
}

// WithModel overrides the model when m is not empty.
func WithModel(m string) Override {
	return func(c *Config) {
		if m != "" {
			c.Model = m
		}
	}
}

// Load builds the configuration: defaults, then the YAML file at path (or
// MEDSUM_CONFIG when path is empty), then environment variables, then the
// overrides. The result is validated.
func Load(path string, overrides ...Override) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("MEDSUM_CONFIG")
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()
	for _, override := range overrides {
		override(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFile overlays the YAML file onto cfg. Keys absent from the file keep their value.
func (c *Config) loadFile(path string) error {
	// #nosec G304 -- path is provided by trusted source (CLI flag or environment)
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Provider = getEnvOrDefault("MEDSUM_PROVIDER", c.Provider)
	c.Model = getEnvOrDefault("MEDSUM_MODEL", c.Model)
	c.ChunkSize = getEnvInt("MEDSUM_CHUNK_SIZE", c.ChunkSize)
	c.Overlap = getEnvInt("MEDSUM_OVERLAP", c.Overlap)
	c.TokenLimit = getEnvInt("MEDSUM_TOKEN_LIMIT", c.TokenLimit)
	c.MaxRetries = getEnvInt("MEDSUM_MAX_RETRIES", c.MaxRetries)
	c.RetryInitialDelay = getEnvDuration("MEDSUM_RETRY_INITIAL_DELAY", c.RetryInitialDelay)
	c.RetryMaxDelay = getEnvDuration("MEDSUM_RETRY_MAX_DELAY", c.RetryMaxDelay)
	c.RequestTimeout = getEnvDuration("MEDSUM_REQUEST_TIMEOUT", c.RequestTimeout)
	c.RequestsPerSecond = getEnvFloat("MEDSUM_REQUESTS_PER_SECOND", c.RequestsPerSecond)
	c.Burst = getEnvInt("MEDSUM_BURST", c.Burst)
	c.HTTPAddr = getEnvOrDefault("MEDSUM_HTTP_ADDR", c.HTTPAddr)
	c.MaxUploadBytes = getEnvInt64("MEDSUM_MAX_UPLOAD_BYTES", c.MaxUploadBytes)
	c.OpenAIBaseURL = getEnvOrDefault("MEDSUM_OPENAI_BASE_URL", c.OpenAIBaseURL)
	c.AnthropicBaseURL = getEnvOrDefault("MEDSUM_ANTHROPIC_BASE_URL", c.AnthropicBaseURL)
	c.OpenAIAPIKey = getEnvOrDefault("OPENAI_API_KEY", c.OpenAIAPIKey)
	c.AnthropicAPIKey = getEnvOrDefault("ANTHROPIC_API_KEY", c.AnthropicAPIKey)
}

// Validate checks configuration correctness.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("%w: OPENAI_API_KEY is required for provider %q", ErrInvalidConfig, c.Provider)
		}
	case ProviderClaude:
		if c.AnthropicAPIKey == "" {
			return fmt.Errorf("%w: ANTHROPIC_API_KEY is required for provider %q", ErrInvalidConfig, c.Provider)
		}
	case ProviderEcho:
	default:
		return fmt.Errorf("%w: unknown provider %q", ErrInvalidConfig, c.Provider)
	}

	if c.ChunkSize < 1 {
		return fmt.Errorf("%w: chunk_size must be at least 1, got %d", ErrInvalidConfig, c.ChunkSize)
	}
	if c.Overlap < 0 || c.Overlap >= c.ChunkSize {
		return fmt.Errorf("%w: overlap must be in [0, chunk_size), got %d", ErrInvalidConfig, c.Overlap)
	}
	if c.TokenLimit < 1 {
		return fmt.Errorf("%w: token_limit must be at least 1, got %d", ErrInvalidConfig, c.TokenLimit)
	}
	if c.MaxRetries < 1 {
		return fmt.Errorf("%w: max_retries must be at least 1, got %d", ErrInvalidConfig, c.MaxRetries)
	}
	if c.RetryInitialDelay < 0 || c.RetryMaxDelay < c.RetryInitialDelay {
		return fmt.Errorf("%w: retry delays must satisfy 0 <= initial <= max", ErrInvalidConfig)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("%w: request_timeout must not be negative", ErrInvalidConfig)
	}
	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("%w: requests_per_second must not be negative", ErrInvalidConfig)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("%w: max_upload_bytes must be positive", ErrInvalidConfig)
	}
	return nil
}

// APIKey returns the credential of the selected provider.
func (c *Config) APIKey() string {
	switch c.Provider {
	case ProviderClaude:
		return c.AnthropicAPIKey
	case ProviderOpenAI:
		return c.OpenAIAPIKey
	}
	return ""
}

// BaseURL returns the endpoint override of the selected provider.
func (c *Config) BaseURL() string {
	switch c.Provider {
	case ProviderClaude:
		return c.AnthropicBaseURL
	case ProviderOpenAI:
		return c.OpenAIBaseURL
	}
	return ""
}
