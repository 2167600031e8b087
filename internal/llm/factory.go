package llm

import (
	"context"
	"fmt"
	"strings"

	"claimlens/internal/model"
)

// NewProvider creates an LLM provider from configuration. The client
// it builds holds the API key and connection pool and is meant to be
// constructed once at process start and shared read-only across
// requests.
func NewProvider(ctx context.Context, config model.LLMConfig) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "gemini", "google", "":
		return NewGeminiProvider(ctx, config)

	case "openai":
		return NewOpenAIProvider(config)

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: gemini, openai)", config.Provider)
	}
}
