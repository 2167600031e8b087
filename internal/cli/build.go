package cli

import (
	"context"
	"fmt"
	"os"

	"claimlens/internal/extract"
	"claimlens/internal/llm"
	"claimlens/internal/model"
	"claimlens/internal/pipeline"
)

// apiKeyFromEnv resolves the provider API key from the conventional
// environment variables.
func apiKeyFromEnv(provider string) string {
	switch provider {
	case "openai":
		return os.Getenv("OPENAI_API_KEY")
	default:
		if key := os.Getenv("GEMINI_API_KEY"); key != "" {
			return key
		}
		return os.Getenv("GOOGLE_API_KEY")
	}
}

// buildPipeline wires provider, gateway and extractors from config.
// The API key must already be set on cfg.LLM.
func buildPipeline(ctx context.Context, cfg *model.Config) (*pipeline.Pipeline, error) {
	provider, err := llm.NewProvider(ctx, cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("create provider: %w", err)
	}

	gateway := llm.NewGateway(provider, cfg.Retry, cfg.LLM.RPS, cfg.LLM.Burst)
	topics := extract.NewTopicExtractor(gateway, cfg.Extract)
	claims := extract.NewClaimExtractor(gateway, cfg.Extract)
	return pipeline.NewPipeline(topics, claims, cfg.Source), nil
}
