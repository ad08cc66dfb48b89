// Package respond provides utilities for sending HTTP responses in JSON format.
// Error responses are sanitized so provider credentials never reach clients.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"medsum/internal/domain/entity"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error string `json:"error"`
}

// JSON writes a JSON response with the given status code and data.
func JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			// headers already sent
			slog.Default().Error("failed to encode JSON response",
				slog.Int("status_code", code),
				slog.Any("error", err))
		}
	}
}

// Error writes a JSON error response with the given status code and error message.
func Error(w http.ResponseWriter, code int, err error) {
	JSON(w, code, ErrorBody{Error: err.Error()})
}

// safeFragments mark messages that describe a client mistake and may be returned as is.
var safeFragments = []string{
	"required",
	"invalid",
	"not found",
	"too large",
	"must be",
	"unsupported",
	"nothing to summarize",
}

// SafeError writes client errors (4xx with a recognizable validation message) as is.
// Every other error is logged in sanitized form and answered with a generic message.
func SafeError(w http.ResponseWriter, code int, err error) {
	if err == nil {
		return
	}

	msg := err.Error()
	isSafe := false
	if code < 500 {
		lowerMsg := strings.ToLower(msg)
		for _, safe := range safeFragments {
			if strings.Contains(lowerMsg, safe) {
				isSafe = true
				break
			}
		}
	}

	if isSafe {
		JSON(w, code, ErrorBody{Error: msg})
		return
	}

	slog.Default().Error("internal server error",
		slog.String("status", http.StatusText(code)),
		slog.Int("code", code),
		slog.String("error", SanitizeError(err)))
	JSON(w, code, ErrorBody{Error: "internal server error"})
}

// StatusFor maps a pipeline error to its HTTP status.
func StatusFor(err error) int {
	var maxBytesErr *http.MaxBytesError
	switch {
	case errors.Is(err, entity.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, entity.ErrEmptyContent):
		return http.StatusUnprocessableEntity
	case errors.Is(err, entity.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.As(err, &maxBytesErr):
		return http.StatusRequestEntityTooLarge
	case entity.IsServiceError(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Failure writes err with the status chosen by StatusFor.
// Completion service failures are answered with their sanitized message so
// clients can tell an upstream outage from a local fault.
func Failure(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}

	code := StatusFor(err)
	switch code {
	case http.StatusBadGateway:
		slog.Default().Error("completion service failed", slog.String("error", SanitizeError(err)))
		JSON(w, code, ErrorBody{Error: SanitizeError(err)})
	case http.StatusRequestEntityTooLarge:
		JSON(w, code, ErrorBody{Error: "request body too large"})
	case http.StatusNotFound, http.StatusUnprocessableEntity, http.StatusBadRequest:
		JSON(w, code, ErrorBody{Error: msgFor(err)})
	default:
		SafeError(w, code, err)
	}
}

// msgFor returns the message of a client error from its sentinel onwards,
// dropping the local context (paths, file names) wrapped around it.
func msgFor(err error) string {
	msg := err.Error()
	for _, sentinel := range []error{entity.ErrNotFound, entity.ErrEmptyContent, entity.ErrInvalidInput} {
		if !errors.Is(err, sentinel) {
			continue
		}
		if i := strings.Index(msg, sentinel.Error()); i >= 0 {
			return msg[i:]
		}
		return sentinel.Error()
	}
	return msg
}
