package requestid

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestFromContext(t *testing.T) {
	tests := []struct {
		name     string
		ctx      context.Context
		expected string
	}{
		{
			name:     "with request ID",
			ctx:      WithRequestID(context.Background(), "test-id-123"),
			expected: "test-id-123",
		},
		{
			name:     "without request ID",
			ctx:      context.Background(),
			expected: "",
		},
		{
			name:     "with invalid type in context",
			ctx:      context.WithValue(context.Background(), RequestIDKey, 12345),
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FromContext(tt.ctx))
		})
	}
}

func TestValid(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want bool
	}{
		{name: "uuid", id: uuid.New().String(), want: true},
		{name: "custom token", id: "batch-42_run.7:a", want: true},
		{name: "empty", id: "", want: false},
		{name: "too long", id: strings.Repeat("a", MaxLength+1), want: false},
		{name: "max length", id: strings.Repeat("a", MaxLength), want: true},
		{name: "space", id: "two words", want: false},
		{name: "newline injection", id: "id\r\nX-Evil: 1", want: false},
		{name: "non ascii", id: "idé", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Valid(tt.id))
		})
	}
}

func captureID(captured *string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*captured = FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestMiddleware_WithExistingRequestID(t *testing.T) {
	existingID := "existing-request-id-456"
	var capturedID string

	req := httptest.NewRequest(http.MethodPost, "/summarize", nil)
	req.Header.Set(RequestIDHeader, existingID)
	rec := httptest.NewRecorder()

	Middleware(captureID(&capturedID)).ServeHTTP(rec, req)

	assert.Equal(t, existingID, capturedID)
	assert.Equal(t, existingID, rec.Header().Get(RequestIDHeader))
}

func TestMiddleware_GeneratesNewRequestID(t *testing.T) {
	var capturedID string

	req := httptest.NewRequest(http.MethodPost, "/summarize", nil)
	rec := httptest.NewRecorder()

	Middleware(captureID(&capturedID)).ServeHTTP(rec, req)

	_, err := uuid.Parse(capturedID)
	assert.NoError(t, err, "generated ID should be a valid UUID")
	assert.Equal(t, capturedID, rec.Header().Get(RequestIDHeader))
}

func TestMiddleware_ReplacesInvalidRequestID(t *testing.T) {
	var capturedID string

	req := httptest.NewRequest(http.MethodPost, "/summarize", nil)
	req.Header.Set(RequestIDHeader, "not valid <script>")
	rec := httptest.NewRecorder()

	Middleware(captureID(&capturedID)).ServeHTTP(rec, req)

	assert.NotEqual(t, "not valid <script>", capturedID)
	_, err := uuid.Parse(capturedID)
	assert.NoError(t, err)
	assert.Equal(t, capturedID, rec.Header().Get(RequestIDHeader))
	assert.Equal(t, capturedID, req.Header.Get(RequestIDHeader))
}

func TestMiddleware_MultipleRequests(t *testing.T) {
	requestIDs := make(map[string]bool)

	handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestIDs[FromContext(r.Context())] = true
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 10; i++ {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}

	assert.Len(t, requestIDs, 10)
}
