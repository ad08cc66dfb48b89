package summary

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"medsum/internal/domain/entity"
	"medsum/internal/handler/http/respond"
	"medsum/internal/infra/collector"
	"medsum/internal/observability/logging"
	"medsum/internal/usecase/summarize"
)

// FileField is the multipart field carrying the document.
const FileField = "file"

// maxMemory bounds the part of a multipart form kept in memory.
const maxMemory = 8 << 20

// UploadHandler summarizes one uploaded document.
type UploadHandler struct {
	Pipeline *summarize.Pipeline
}

// ServeHTTP handles POST /summarize with a multipart "file" field. The model
// is taken from the "model" query parameter or form field.
func (h UploadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			respond.Failure(w, err)
			return
		}
		respond.Error(w, http.StatusBadRequest, fmt.Errorf("invalid multipart form"))
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile(FileField)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, fmt.Errorf("%s is required", FileField))
		return
	}
	defer func() { _ = file.Close() }()

	if header.Filename == "" {
		respond.Error(w, http.StatusBadRequest, fmt.Errorf("%s is required", FileField))
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		respond.Failure(w, fmt.Errorf("read upload: %w", err))
		return
	}

	if len(bytes.TrimSpace(data)) == 0 {
		respond.Failure(w, entity.ErrEmptyContent)
		return
	}

	model := r.URL.Query().Get("model")
	if model == "" {
		model = r.FormValue("model")
	}

	logging.FromContext(r.Context()).Info("summarize upload",
		slog.String("filename", header.Filename),
		slog.Int("bytes", len(data)),
		slog.String("model", model))

	result, err := h.Pipeline.WithModel(model).Process(r.Context(),
		collector.Inline{Name: header.Filename, Data: data}, "")
	if err != nil {
		respond.Failure(w, err)
		return
	}
	if result.Empty {
		respond.Failure(w, entity.ErrEmptyContent)
		return
	}
	respond.JSON(w, http.StatusOK, toDTO(result, model))
}
