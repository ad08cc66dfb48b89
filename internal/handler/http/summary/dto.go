// Package summary provides the HTTP handlers that run the summarization pipeline.
package summary

import (
	"medsum/internal/usecase/summarize"
)

// TextRequest is the JSON body of POST /summarize/text.
type TextRequest struct {
	Text  string `json:"text"`
	Model string `json:"model,omitempty"`
}

// DTO is the JSON response of both summarize endpoints.
type DTO struct {
	Summary          string `json:"summary"`
	Mode             string `json:"mode"`
	Chunks           int    `json:"chunks"`
	InputLength      int    `json:"input_length"`
	NormalizedLength int    `json:"normalized_length"`
	DurationMS       int64  `json:"duration_ms"`
	Model            string `json:"model,omitempty"`
}

func toDTO(r summarize.Result, model string) DTO {
	return DTO{
		Summary:          r.Summary,
		Mode:             r.Mode,
		Chunks:           r.Chunks,
		InputLength:      r.InputLength,
		NormalizedLength: r.NormalizedLength,
		DurationMS:       r.Duration.Milliseconds(),
		Model:            model,
	}
}
