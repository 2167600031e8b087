package extract

import (
	"context"

	"claimlens/internal/llm"
	"claimlens/internal/model"
)

// Generator is the structured-generation capability the extractors
// need from the LLM gateway. Tests substitute fakes for it.
type Generator interface {
	GenerateStructured(ctx context.Context, call llm.Call) error
}

// EmptyExtractionError means an extraction step completed without a
// usable result: the provider answered validly but with nothing. A
// text with zero discernible topics is indistinguishable from a failed
// extraction, so this is always an error, never an empty success.
type EmptyExtractionError struct {
	Stage string
}

func (e *EmptyExtractionError) Error() string {
	return "extract: " + e.Stage + " produced no usable results"
}

// topicResult is the LLM-facing response shape for topic extraction.
// It is deliberately distinct from anything the API returns.
type topicResult struct {
	Topics []string `json:"topics"`
}

var topicSchema = &llm.Schema{
	Name: "topic_extraction",
	Type: llm.TypeObject,
	Properties: map[string]*llm.Schema{
		"topics": {
			Type:        llm.TypeArray,
			Description: "Concise topic labels (3-10 words) in order of appearance in the source text.",
			Items:       &llm.Schema{Type: llm.TypeString},
		},
	},
	Required: []string{"topics"},
}

// TopicExtractor extracts an ordered list of discussion topics from
// source text via the LLM gateway.
type TopicExtractor struct {
	gen Generator
	cfg model.ExtractConfig
}

// NewTopicExtractor creates a new topic extractor.
func NewTopicExtractor(gen Generator, cfg model.ExtractConfig) *TopicExtractor {
	return &TopicExtractor{gen: gen, cfg: cfg}
}

// Extract returns topic labels in order of appearance. Gateway
// failures propagate unchanged; an empty topic list is reported as
// *EmptyExtractionError.
func (e *TopicExtractor) Extract(ctx context.Context, sourceText string) ([]string, error) {
	var result topicResult
	err := e.gen.GenerateStructured(ctx, llm.Call{
		Prompt:      renderTopicPrompt(sourceText),
		Schema:      topicSchema,
		Out:         &result,
		Timeout:     e.cfg.TopicTimeout,
		Temperature: e.cfg.Temperature,
		Safety:      llm.SafetyPermitAll,
	})
	if err != nil {
		return nil, err
	}
	if len(result.Topics) == 0 {
		return nil, &EmptyExtractionError{Stage: "topic extraction"}
	}
	return result.Topics, nil
}
