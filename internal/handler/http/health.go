// Package http provides the HTTP transport of the summarizer: the router,
// health and info endpoints, and request middleware.
package http

import (
	"net/http"
	"time"

	"medsum/internal/handler/http/respond"
)

// CircuitReporter exposes the state of the completion client circuit breaker.
type CircuitReporter interface {
	Provider() string
	CircuitState() string
}

// HealthResponse represents the JSON response for health check endpoints.
type HealthResponse struct {
	Status    string                 `json:"status"`    // "healthy", "degraded" or "unhealthy"
	Timestamp string                 `json:"timestamp"` // ISO 8601 format
	Checks    map[string]CheckStatus `json:"checks"`
	Version   string                 `json:"version"`
}

// CheckStatus represents the status of a single health check.
type CheckStatus struct {
	Status  string         `json:"status"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// HealthHandler reports process health and the completion circuit state.
// An open circuit degrades the service but does not make it unhealthy:
// requests fail fast until the breaker probes again.
type HealthHandler struct {
	Completion CircuitReporter
	Version    string
}

// ServeHTTP always answers 200 while the process can serve requests.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	checks := make(map[string]CheckStatus)
	status := "healthy"

	if h.Completion == nil {
		checks["completion"] = CheckStatus{Status: "unhealthy", Message: "not configured"}
		status = "unhealthy"
	} else {
		check := completionCheck(h.Completion)
		checks["completion"] = check
		if check.Status != "healthy" {
			status = check.Status
		}
	}

	code := http.StatusOK
	if status == "unhealthy" {
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	respond.JSON(w, code, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Version:   h.Version,
	})
}

func completionCheck(c CircuitReporter) CheckStatus {
	state := c.CircuitState()
	check := CheckStatus{
		Status: "healthy",
		Details: map[string]any{
			"provider":        c.Provider(),
			"circuit_breaker": state,
		},
	}
	if state == "open" {
		check.Status = "degraded"
		check.Message = "circuit breaker open"
	}
	return check
}

// ReadyHandler answers 503 while the completion circuit is open so a load
// balancer can route around the instance.
type ReadyHandler struct {
	Completion CircuitReporter
}

// ServeHTTP performs the readiness check.
func (h *ReadyHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	if h.Completion == nil {
		respond.JSON(w, http.StatusServiceUnavailable, map[string]any{"ready": false, "message": "not configured"})
		return
	}
	if h.Completion.CircuitState() == "open" {
		respond.JSON(w, http.StatusServiceUnavailable, map[string]any{"ready": false, "message": "circuit breaker open"})
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"ready": true})
}
