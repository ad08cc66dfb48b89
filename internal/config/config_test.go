package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setEnv sets an environment variable for the duration of the test.
func setEnv(t *testing.T, key, value string) {
	t.Helper()
	t.Setenv(key, value)
}

// clearEnv unsets every variable Load reads so the host environment does not leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"MEDSUM_CONFIG", "MEDSUM_PROVIDER", "MEDSUM_MODEL", "MEDSUM_CHUNK_SIZE",
		"MEDSUM_OVERLAP", "MEDSUM_TOKEN_LIMIT", "MEDSUM_MAX_RETRIES",
		"MEDSUM_RETRY_INITIAL_DELAY", "MEDSUM_RETRY_MAX_DELAY", "MEDSUM_REQUEST_TIMEOUT",
		"MEDSUM_REQUESTS_PER_SECOND", "MEDSUM_BURST", "MEDSUM_HTTP_ADDR",
		"MEDSUM_MAX_UPLOAD_BYTES", "MEDSUM_OPENAI_BASE_URL", "MEDSUM_ANTHROPIC_BASE_URL",
		"OPENAI_API_KEY", "ANTHROPIC_API_KEY",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "medsum.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	setEnv(t, "OPENAI_API_KEY", "sk-test")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ProviderOpenAI, cfg.Provider)
	assert.Empty(t, cfg.Model)
	assert.Equal(t, 4000, cfg.ChunkSize)
	assert.Equal(t, 200, cfg.Overlap)
	assert.Equal(t, 4000, cfg.TokenLimit)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, 2*time.Second, cfg.RetryInitialDelay)
	assert.Equal(t, 10*time.Second, cfg.RetryMaxDelay)
	assert.Equal(t, 120*time.Second, cfg.RequestTimeout)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, int64(10<<20), cfg.MaxUploadBytes)
	assert.Equal(t, "sk-test", cfg.APIKey())
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
provider: echo
model: test-model
chunk_size: 1000
overlap: 50
token_limit: 1500
retry_initial_delay: 500ms
request_timeout: 30s
http_addr: "127.0.0.1:9000"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ProviderEcho, cfg.Provider)
	assert.Equal(t, "test-model", cfg.Model)
	assert.Equal(t, 1000, cfg.ChunkSize)
	assert.Equal(t, 50, cfg.Overlap)
	assert.Equal(t, 1500, cfg.TokenLimit)
	assert.Equal(t, 500*time.Millisecond, cfg.RetryInitialDelay)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "127.0.0.1:9000", cfg.HTTPAddr)
	// Keys missing from the file keep their defaults.
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, 10*time.Second, cfg.RetryMaxDelay)
}

func TestLoad_FileFromEnvironment(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "provider: echo\nchunk_size: 321\n")
	setEnv(t, "MEDSUM_CONFIG", path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 321, cfg.ChunkSize)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "provider: echo\nchunk_size: 1000\noverlap: 10\n")
	setEnv(t, "MEDSUM_CHUNK_SIZE", "2000")
	setEnv(t, "MEDSUM_REQUEST_TIMEOUT", "5s")
	setEnv(t, "MEDSUM_REQUESTS_PER_SECOND", "2.5")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2000, cfg.ChunkSize)
	assert.Equal(t, 10, cfg.Overlap)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.InDelta(t, 2.5, cfg.RequestsPerSecond, 1e-9)
}

func TestLoad_OverridesWin(t *testing.T) {
	clearEnv(t)
	setEnv(t, "MEDSUM_PROVIDER", "openai")
	setEnv(t, "MEDSUM_MODEL", "gpt-4o")

	cfg, err := Load("", WithProvider(ProviderEcho), WithModel(""))
	require.NoError(t, err)

	assert.Equal(t, ProviderEcho, cfg.Provider)
	assert.Equal(t, "gpt-4o", cfg.Model, "empty override keeps the loaded value")
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_InvalidYAML(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "chunk_size: [not, a, number\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
}

func TestLoad_APIKeyNotReadFromFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "provider: openai\nopenai_api_key: sk-from-file\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{name: "echo needs no key", modify: func(c *Config) { c.Provider = ProviderEcho }},
		{name: "openai with key", modify: func(c *Config) { c.OpenAIAPIKey = "sk" }},
		{name: "claude with key", modify: func(c *Config) { c.Provider = ProviderClaude; c.AnthropicAPIKey = "k" }},
		{name: "openai without key", modify: func(c *Config) {}, wantErr: "OPENAI_API_KEY"},
		{name: "claude without key", modify: func(c *Config) { c.Provider = ProviderClaude }, wantErr: "ANTHROPIC_API_KEY"},
		{name: "unknown provider", modify: func(c *Config) { c.Provider = "gemini" }, wantErr: "unknown provider"},
		{name: "zero chunk size", modify: func(c *Config) { c.Provider = ProviderEcho; c.ChunkSize = 0; c.Overlap = 0 }, wantErr: "chunk_size"},
		{name: "overlap equals chunk size", modify: func(c *Config) { c.Provider = ProviderEcho; c.ChunkSize = 100; c.Overlap = 100 }, wantErr: "overlap"},
		{name: "negative overlap", modify: func(c *Config) { c.Provider = ProviderEcho; c.Overlap = -1 }, wantErr: "overlap"},
		{name: "zero token limit", modify: func(c *Config) { c.Provider = ProviderEcho; c.TokenLimit = 0 }, wantErr: "token_limit"},
		{name: "zero retries", modify: func(c *Config) { c.Provider = ProviderEcho; c.MaxRetries = 0 }, wantErr: "max_retries"},
		{name: "max delay below initial", modify: func(c *Config) { c.Provider = ProviderEcho; c.RetryMaxDelay = time.Second }, wantErr: "retry delays"},
		{name: "negative rate", modify: func(c *Config) { c.Provider = ProviderEcho; c.RequestsPerSecond = -1 }, wantErr: "requests_per_second"},
		{name: "zero upload limit", modify: func(c *Config) { c.Provider = ProviderEcho; c.MaxUploadBytes = 0 }, wantErr: "max_upload_bytes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfig))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_ProviderCredentials(t *testing.T) {
	cfg := Default()
	cfg.OpenAIAPIKey = "sk-openai"
	cfg.AnthropicAPIKey = "sk-ant"
	cfg.OpenAIBaseURL = "http://openai.local/v1"
	cfg.AnthropicBaseURL = "http://anthropic.local"

	assert.Equal(t, "sk-openai", cfg.APIKey())
	assert.Equal(t, "http://openai.local/v1", cfg.BaseURL())

	cfg.Provider = ProviderClaude
	assert.Equal(t, "sk-ant", cfg.APIKey())
	assert.Equal(t, "http://anthropic.local", cfg.BaseURL())

	cfg.Provider = ProviderEcho
	assert.Empty(t, cfg.APIKey())
	assert.Empty(t, cfg.BaseURL())
}

func TestGetEnvHelpers(t *testing.T) {
	setEnv(t, "MEDSUM_TEST_INT", "42")
	setEnv(t, "MEDSUM_TEST_BAD_INT", "forty-two")
	setEnv(t, "MEDSUM_TEST_INT64", "10485760")
	setEnv(t, "MEDSUM_TEST_FLOAT", "0.75")
	setEnv(t, "MEDSUM_TEST_DURATION", "90s")
	setEnv(t, "MEDSUM_TEST_STRING", "value")

	assert.Equal(t, 42, getEnvInt("MEDSUM_TEST_INT", 1))
	assert.Equal(t, 1, getEnvInt("MEDSUM_TEST_BAD_INT", 1))
	assert.Equal(t, 7, getEnvInt("MEDSUM_TEST_UNSET", 7))
	assert.Equal(t, int64(10485760), getEnvInt64("MEDSUM_TEST_INT64", 0))
	assert.InDelta(t, 0.75, getEnvFloat("MEDSUM_TEST_FLOAT", 0), 1e-9)
	assert.Equal(t, 90*time.Second, getEnvDuration("MEDSUM_TEST_DURATION", time.Second))
	assert.Equal(t, time.Second, getEnvDuration("MEDSUM_TEST_UNSET", time.Second))
	assert.Equal(t, "value", getEnvOrDefault("MEDSUM_TEST_STRING", "default"))
	assert.Equal(t, "default", getEnvOrDefault("MEDSUM_TEST_UNSET", "default"))
}
