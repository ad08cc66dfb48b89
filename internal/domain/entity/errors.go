package entity

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain layer operations.
var (
	// ErrNotFound indicates that an input path does not resolve to any readable document.
	ErrNotFound = errors.New("document not found")

	// ErrEmptyContent indicates that there is nothing to summarize.
	// It is a soft condition: callers report it and produce no summary.
	ErrEmptyContent = errors.New("nothing to summarize")

	// ErrInvalidInput indicates that the provided input is invalid
	ErrInvalidInput = errors.New("invalid input")
)

// ServiceError is returned when the LLM completion service fails permanently
// or after its retry budget is exhausted. It is fatal to the current pipeline run.
type ServiceError struct {
	Provider string
	Attempts int
	Err      error
}

// Error returns a formatted error message for the service error.
func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s completion failed after %d attempt(s): %v", e.Provider, e.Attempts, e.Err)
}

// Unwrap returns the underlying error.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// IsServiceError reports whether err is or wraps a *ServiceError.
func IsServiceError(err error) bool {
	var svcErr *ServiceError
	return errors.As(err, &svcErr)
}
