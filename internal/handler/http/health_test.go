package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCircuit struct {
	provider string
	state    string
}

func (s stubCircuit) Provider() string     { return s.provider }
func (s stubCircuit) CircuitState() string { return s.state }

func TestHealthHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		completion     CircuitReporter
		expectedStatus int
		expectedHealth string
	}{
		{
			name:           "circuit closed",
			completion:     stubCircuit{provider: "openai", state: "closed"},
			expectedStatus: http.StatusOK,
			expectedHealth: "healthy",
		},
		{
			name:           "circuit half-open",
			completion:     stubCircuit{provider: "openai", state: "half-open"},
			expectedStatus: http.StatusOK,
			expectedHealth: "healthy",
		},
		{
			name:           "circuit open degrades",
			completion:     stubCircuit{provider: "claude", state: "open"},
			expectedStatus: http.StatusOK,
			expectedHealth: "degraded",
		},
		{
			name:           "not configured",
			completion:     nil,
			expectedStatus: http.StatusServiceUnavailable,
			expectedHealth: "unhealthy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := &HealthHandler{Completion: tt.completion, Version: "test-version"}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Equal(t, "no-cache, no-store, must-revalidate", rec.Header().Get("Cache-Control"))

			var response HealthResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
			assert.Equal(t, tt.expectedHealth, response.Status)
			assert.Equal(t, "test-version", response.Version)
			assert.NotEmpty(t, response.Timestamp)
			assert.Contains(t, response.Checks, "completion")
		})
	}
}

func TestHealthHandler_ReportsCircuitDetails(t *testing.T) {
	handler := &HealthHandler{Completion: stubCircuit{provider: "claude", state: "open"}}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	var response HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	check := response.Checks["completion"]
	assert.Equal(t, "circuit breaker open", check.Message)
	assert.Equal(t, "claude", check.Details["provider"])
	assert.Equal(t, "open", check.Details["circuit_breaker"])
}

func TestReadyHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		completion     CircuitReporter
		expectedStatus int
		expectedReady  bool
	}{
		{name: "closed", completion: stubCircuit{state: "closed"}, expectedStatus: http.StatusOK, expectedReady: true},
		{name: "open", completion: stubCircuit{state: "open"}, expectedStatus: http.StatusServiceUnavailable},
		{name: "not configured", expectedStatus: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := &ReadyHandler{Completion: tt.completion}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			var body map[string]any
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.expectedReady, body["ready"])
		})
	}
}

func TestRootHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	RootHandler{Version: "1.2.3"}.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"`+WelcomeMessage+`","version":"1.2.3"}`, rec.Body.String())
}

func TestModelsHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	ModelsHandler{Provider: "echo", Default: "echo"}.ServeHTTP(rec,
		httptest.NewRequest(http.MethodGet, "/models", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"provider":"echo","default":"echo","models":[]}`, rec.Body.String())
}
