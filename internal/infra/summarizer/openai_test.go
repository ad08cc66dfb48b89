package summarizer_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medsum/internal/domain/entity"
	"medsum/internal/infra/summarizer"
	"medsum/internal/resilience/retry"
)

const openAIChatResponse = `{
	"id": "chatcmpl-1",
	"object": "chat.completion",
	"created": 1700000000,
	"model": "gpt-4o-mini",
	"choices": [{
		"index": 0,
		"message": {"role": "assistant", "content": "  Summary of the visit.  "},
		"finish_reason": "stop"
	}],
	"usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
}`

type openAIRequest struct {
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
	Messages    []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func newOpenAIServer(t *testing.T, handler http.HandlerFunc) *summarizer.OpenAI {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return summarizer.NewOpenAI(summarizer.OpenAIConfig{
		APIKey:  "sk-test",
		BaseURL: srv.URL + "/v1",
		Model:   "gpt-4o-mini",
	})
}

func TestOpenAI_Complete_Success(t *testing.T) {
	var got openAIRequest
	p := newOpenAIServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(openAIChatResponse))
	})

	out, err := p.Complete(context.Background(), entity.Completion{
		Instructions: "You are a helpful medical assistant.",
		Prompt:       "Please provide a concise summary of the following text:\n\nBP 120/80.",
		Temperature:  0.3,
		MaxTokens:    500,
	})

	require.NoError(t, err)
	assert.Equal(t, "Summary of the visit.", out)
	assert.Equal(t, "gpt-4o-mini", got.Model)
	assert.Equal(t, 500, got.MaxTokens)
	assert.InDelta(t, 0.3, got.Temperature, 0.001)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "You are a helpful medical assistant.", got.Messages[0].Content)
	assert.Equal(t, "user", got.Messages[1].Role)
}

func TestOpenAI_Complete_ModelOverride(t *testing.T) {
	var got openAIRequest
	p := newOpenAIServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(openAIChatResponse))
	})

	_, err := p.Complete(context.Background(), entity.Completion{Prompt: "x", Model: "gpt-4o"})

	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", got.Model)
}

func TestOpenAI_Complete_ErrorMapping(t *testing.T) {
	tests := []struct {
		name          string
		statusCode    int
		body          string
		wantStatus    int
		wantRetryable bool
	}{
		{
			name:          "unauthorized",
			statusCode:    http.StatusUnauthorized,
			body:          `{"error": {"message": "Incorrect API key provided", "type": "invalid_request_error", "code": "invalid_api_key"}}`,
			wantStatus:    401,
			wantRetryable: false,
		},
		{
			name:          "rate limited",
			statusCode:    http.StatusTooManyRequests,
			body:          `{"error": {"message": "Rate limit reached", "type": "requests", "code": "rate_limit_exceeded"}}`,
			wantStatus:    429,
			wantRetryable: true,
		},
		{
			name:          "server error",
			statusCode:    http.StatusInternalServerError,
			body:          `{"error": {"message": "The server had an error", "type": "server_error"}}`,
			wantStatus:    500,
			wantRetryable: true,
		},
		{
			name:          "gateway error without json body",
			statusCode:    http.StatusBadGateway,
			body:          `<html>bad gateway</html>`,
			wantStatus:    502,
			wantRetryable: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newOpenAIServer(t, func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := p.Complete(context.Background(), entity.Completion{Prompt: "x"})

			require.Error(t, err)
			assert.Contains(t, err.Error(), "openai api error")
			var httpErr *retry.HTTPError
			require.True(t, errors.As(err, &httpErr))
			assert.Equal(t, tt.wantStatus, httpErr.StatusCode)
			assert.Equal(t, tt.wantRetryable, retry.IsRetryable(err))
		})
	}
}

func TestOpenAI_Complete_EmptyChoices(t *testing.T) {
	p := newOpenAIServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "chatcmpl-1", "object": "chat.completion", "choices": []}`))
	})

	_, err := p.Complete(context.Background(), entity.Completion{Prompt: "x"})

	require.Error(t, err)
	assert.ErrorIs(t, err, summarizer.ErrEmptyResponse)
	assert.False(t, retry.IsRetryable(err))
}

func TestOpenAI_Name(t *testing.T) {
	p := summarizer.NewOpenAI(summarizer.OpenAIConfig{APIKey: "sk-test"})
	assert.Equal(t, "openai", p.Name())
}

func TestClient_UnknownOpenAIModelDoesNotOpenCircuit(t *testing.T) {
	p := newOpenAIServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req openAIRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		w.Header().Set("Content-Type", "application/json")
		if req.Model == "bogus" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error": {"message": "The model bogus does not exist", "type": "invalid_request_error", "code": "model_not_found"}}`))
			return
		}
		_, _ = w.Write([]byte(openAIChatResponse))
	})
	c := summarizer.NewClient(p, summarizer.DefaultClientConfig(),
		summarizer.WithRetryConfig(fastRetry(3)),
		summarizer.WithMetricsRecorder(&mockMetrics{}))

	for i := 0; i < 6; i++ {
		_, err := c.Generate(context.Background(), entity.Completion{Prompt: "x", Model: "bogus"})
		require.Error(t, err)
		assert.True(t, entity.IsServiceError(err))
	}
	require.Equal(t, "closed", c.CircuitState())

	out, err := c.Generate(context.Background(), entity.Completion{Prompt: "x"})
	require.NoError(t, err)
	assert.Equal(t, "Summary of the visit.", out)
}
