package summary

import (
	"net/http"

	"medsum/internal/usecase/summarize"
)

// Register registers the summarize endpoints with the given mux.
func Register(mux *http.ServeMux, pipeline *summarize.Pipeline) {
	mux.Handle("POST /summarize", UploadHandler{Pipeline: pipeline})
	mux.Handle("POST /summarize/text", TextHandler{Pipeline: pipeline})
}
