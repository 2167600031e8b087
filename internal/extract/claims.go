package extract

import (
	"context"

	"claimlens/internal/llm"
	"claimlens/internal/model"
)

// ClaimGroup is the LLM-facing shape for one topic and the claims
// extracted under it. The pipeline maps surviving groups into the
// API-facing model.Claim rows; the two types are never shared.
type ClaimGroup struct {
	Topic  string   `json:"topic"`
	Claims []string `json:"claims"`
}

// claimResult is the LLM-facing response shape for claim extraction.
type claimResult struct {
	ClaimTopics []ClaimGroup `json:"claim_topics"`
}

var claimSchema = &llm.Schema{
	Name: "claim_extraction",
	Type: llm.TypeObject,
	Properties: map[string]*llm.Schema{
		"claim_topics": {
			Type:        llm.TypeArray,
			Description: "Claims organized by topic, in topic-list order.",
			Items: &llm.Schema{
				Type: llm.TypeObject,
				Properties: map[string]*llm.Schema{
					"topic": {
						Type:        llm.TypeString,
						Description: "Topic label taken verbatim from the provided list.",
					},
					"claims": {
						Type:        llm.TypeArray,
						Description: "Self-contained, atomic factual claims (5-32 words each) under this topic.",
						Items:       &llm.Schema{Type: llm.TypeString},
					},
				},
				Required: []string{"topic", "claims"},
			},
		},
	},
	Required: []string{"claim_topics"},
}

// ClaimExtractor extracts topic-grouped factual claims from source
// text via the LLM gateway.
type ClaimExtractor struct {
	gen Generator
	cfg model.ExtractConfig
}

// NewClaimExtractor creates a new claim extractor.
func NewClaimExtractor(gen Generator, cfg model.ExtractConfig) *ClaimExtractor {
	return &ClaimExtractor{gen: gen, cfg: cfg}
}

// Extract returns claims grouped under the given topics, preserving
// group order and claim order. Gateway failures propagate unchanged.
// A response with no groups, or where every group is empty, is
// reported as *EmptyExtractionError.
func (e *ClaimExtractor) Extract(ctx context.Context, sourceText string, topics []string) ([]ClaimGroup, error) {
	var result claimResult
	err := e.gen.GenerateStructured(ctx, llm.Call{
		Prompt:          renderClaimPrompt(sourceText, topics),
		Schema:          claimSchema,
		Out:             &result,
		Timeout:         e.cfg.ClaimTimeout,
		Temperature:     e.cfg.Temperature,
		MaxOutputTokens: e.cfg.ClaimMaxTokens,
		Safety:          llm.SafetyPermitAll,
	})
	if err != nil {
		return nil, err
	}
	if !hasClaims(result.ClaimTopics) {
		return nil, &EmptyExtractionError{Stage: "claim extraction"}
	}
	return result.ClaimTopics, nil
}

func hasClaims(groups []ClaimGroup) bool {
	for _, g := range groups {
		if len(g.Claims) > 0 {
			return true
		}
	}
	return false
}
