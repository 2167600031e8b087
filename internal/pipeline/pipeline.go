// Package pipeline orchestrates the two-step extraction: topic
// extraction, then claim extraction, then reshaping the grouped result
// into the flat output contract.
package pipeline

import (
	"context"
	"log"
	"strings"

	"claimlens/internal/extract"
	"claimlens/internal/model"
	"claimlens/internal/util"
	"claimlens/internal/validate"
)

// Pipeline is the single entry point for claim generation. It holds no
// per-request state; concurrent requests are independent by
// construction.
type Pipeline struct {
	topics *extract.TopicExtractor
	claims *extract.ClaimExtractor
	bounds model.SourceConfig
}

// NewPipeline creates a pipeline over the given extractors.
func NewPipeline(topics *extract.TopicExtractor, claims *extract.ClaimExtractor, bounds model.SourceConfig) *Pipeline {
	return &Pipeline{topics: topics, claims: claims, bounds: bounds}
}

// GenerateClaims runs the full extraction pipeline on source text and
// returns the flat, ordered claim list.
//
// The pipeline is strictly two-phase: a topic extraction failure
// aborts before claim extraction is attempted, so a bad topic list
// never poisons the second call. Every failure propagates to the
// caller as one of the typed errors; the pipeline never swallows a
// failure into an empty result.
func (p *Pipeline) GenerateClaims(ctx context.Context, sourceText string) ([]model.Claim, error) {
	if err := validate.SourceText(sourceText, p.bounds); err != nil {
		return nil, err
	}
	sourceText = util.SanitizeText(sourceText)

	topics, err := p.topics.Extract(ctx, sourceText)
	if err != nil {
		return nil, err
	}
	log.Printf("pipeline: extracted %d topics", len(topics))

	groups, err := p.claims.Extract(ctx, sourceText, topics)
	if err != nil {
		return nil, err
	}

	kept := filterGroups(groups, topics)
	if dropped := len(groups) - len(kept); dropped > 0 {
		log.Printf("pipeline: dropped %d group(s) with topics outside the extracted list", dropped)
	}
	if len(kept) == 0 {
		return nil, &extract.EmptyExtractionError{Stage: "topic validation"}
	}

	claims := flatten(kept)
	log.Printf("pipeline: extracted %d claims across %d topics", len(claims), len(kept))
	return claims, nil
}

// filterGroups drops groups whose topic is not in the extracted topic
// list (case-insensitive) or whose claim list is empty. A model that
// invents a topic violates the prompt contract; such groups are
// discarded rather than surfaced.
func filterGroups(groups []extract.ClaimGroup, topics []string) []extract.ClaimGroup {
	var kept []extract.ClaimGroup
	for _, g := range groups {
		if len(g.Claims) == 0 {
			continue
		}
		for _, topic := range topics {
			if strings.EqualFold(g.Topic, topic) {
				kept = append(kept, g)
				break
			}
		}
	}
	return kept
}

// flatten expands groups into flat rows, preserving topic order and
// claim order within each topic. This is the only place the LLM-facing
// group shape is mapped to the API-facing claim shape.
func flatten(groups []extract.ClaimGroup) []model.Claim {
	var out []model.Claim
	for _, g := range groups {
		for _, text := range g.Claims {
			out = append(out, model.Claim{Topic: g.Topic, Text: text})
		}
	}
	return out
}
