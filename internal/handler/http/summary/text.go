package summary

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"medsum/internal/domain/entity"
	"medsum/internal/handler/http/respond"
	"medsum/internal/observability/logging"
	"medsum/internal/usecase/summarize"
)

// TextHandler summarizes text posted as JSON.
type TextHandler struct {
	Pipeline *summarize.Pipeline
}

// ServeHTTP handles POST /summarize/text with a TextRequest body.
func (h TextHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req TextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			respond.Failure(w, err)
			return
		}
		respond.Error(w, http.StatusBadRequest, fmt.Errorf("invalid JSON body"))
		return
	}

	logging.FromContext(r.Context()).Info("summarize text",
		slog.Int("bytes", len(req.Text)),
		slog.String("model", req.Model))

	result, err := h.Pipeline.WithModel(req.Model).ProcessText(r.Context(), req.Text)
	if err != nil {
		respond.Failure(w, err)
		return
	}
	if result.Empty {
		respond.Failure(w, entity.ErrEmptyContent)
		return
	}
	respond.JSON(w, http.StatusOK, toDTO(result, req.Model))
}
