package summarizer

// modelCatalog lists the models offered per provider. The first entry is the
// provider default.
var modelCatalog = map[string][]string{
	ProviderOpenAI: {DefaultOpenAIModel, "gpt-4o", "gpt-4.1-mini", "gpt-4.1"},
	ProviderClaude: {DefaultClaudeModel, "claude-haiku-4-5", "claude-opus-4-1"},
	ProviderEcho:   {ProviderEcho},
}

// Models returns the models offered by provider, default first.
// An unknown provider yields nil.
func Models(provider string) []string {
	models, ok := modelCatalog[provider]
	if !ok {
		return nil
	}
	return append([]string(nil), models...)
}

// DefaultModel returns the provider default, or "" for an unknown provider.
func DefaultModel(provider string) string {
	if models := modelCatalog[provider]; len(models) > 0 {
		return models[0]
	}
	return ""
}
