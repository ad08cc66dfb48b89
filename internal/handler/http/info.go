package http

import (
	"net/http"

	"medsum/internal/handler/http/respond"
)

// WelcomeMessage is returned by GET /.
const WelcomeMessage = "Welcome to the medical record summarizer API"

// RootHandler serves the welcome message. Any path other than "/" is 404.
type RootHandler struct {
	Version string
}

func (h RootHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		respond.JSON(w, http.StatusNotFound, respond.ErrorBody{Error: "route not found"})
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{
		"message": WelcomeMessage,
		"version": h.Version,
	})
}

// ModelsResponse lists the models a client may request.
type ModelsResponse struct {
	Provider string   `json:"provider"`
	Default  string   `json:"default"`
	Models   []string `json:"models"`
}

// ModelsHandler serves GET /models.
type ModelsHandler struct {
	Provider string
	Default  string
	Models   []string
}

func (h ModelsHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	models := h.Models
	if models == nil {
		models = []string{}
	}
	respond.JSON(w, http.StatusOK, ModelsResponse{
		Provider: h.Provider,
		Default:  h.Default,
		Models:   models,
	})
}
