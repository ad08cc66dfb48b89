package summarizer

import (
	"context"
	"strings"

	"medsum/internal/domain/entity"
)

// Echo is a provider that returns the prompt itself, truncated.
// This is useful for local runs and tests when no API key is available.
type Echo struct{}

// NewEcho creates a new Echo provider.
func NewEcho() *Echo {
	return &Echo{}
}

// Name implements Provider.
func (e *Echo) Name() string {
	return ProviderEcho
}

// Complete drops the leading instruction line of the prompt and returns the
// rest, cut to roughly MaxTokens*4 runes.
func (e *Echo) Complete(_ context.Context, req entity.Completion) (string, error) {
	content := req.Prompt
	if idx := strings.Index(content, "\n\n"); idx >= 0 {
		content = content[idx+2:]
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return "", ErrEmptyResponse
	}

	limit := req.MaxTokens * 4
	if limit <= 0 {
		limit = 2000
	}
	runes := []rune(content)
	if len(runes) <= limit {
		return content, nil
	}
	return string(runes[:limit]) + "...", nil
}
