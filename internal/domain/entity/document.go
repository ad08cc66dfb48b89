// Package entity defines the value types shared across the summarization pipeline.
package entity

import "fmt"

// Document is a named text blob read from a document source.
// Name is the source identifier (usually the file base name), Body the raw text.
type Document struct {
	Name string
	Body string
}

// Header returns the provenance marker that precedes the document body
// in concatenated text, e.g. "=== visit-2024-01.txt ===".
func (d Document) Header() string {
	return fmt.Sprintf("=== %s ===", d.Name)
}

// Completion is a single request to the LLM completion service.
type Completion struct {
	// Instructions is the system instruction sent alongside the prompt.
	Instructions string

	// Prompt is the user content to complete.
	Prompt string

	// Temperature is the sampling temperature.
	Temperature float64

	// MaxTokens bounds the generated output. Zero leaves the provider default.
	MaxTokens int

	// Model overrides the client's configured model when non-empty.
	Model string
}
