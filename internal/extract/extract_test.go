package extract

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"claimlens/internal/llm"
	"claimlens/internal/model"
)

// fakeGenerator returns a canned JSON payload (or error) and records
// the calls it received.
type fakeGenerator struct {
	payload string
	err     error
	calls   int
	prompts []string
}

func (f *fakeGenerator) GenerateStructured(ctx context.Context, call llm.Call) error {
	f.calls++
	f.prompts = append(f.prompts, call.Prompt)
	if f.err != nil {
		return f.err
	}
	return json.Unmarshal([]byte(f.payload), call.Out)
}

func testExtractConfig() model.ExtractConfig {
	return model.DefaultConfig().Extract
}

func TestTopicExtractor_Extract(t *testing.T) {
	gen := &fakeGenerator{payload: `{"topics":["EU energy targets","Carbon pricing"]}`}
	extractor := NewTopicExtractor(gen, testExtractConfig())

	topics, err := extractor.Extract(context.Background(), "some source text")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(topics) != 2 || topics[0] != "EU energy targets" {
		t.Errorf("unexpected topics: %v", topics)
	}
	if !strings.Contains(gen.prompts[0], "some source text") {
		t.Error("prompt does not contain the source text")
	}
	if !strings.Contains(gen.prompts[0], "order of appearance") {
		t.Error("prompt does not instruct ordering by appearance")
	}
}

func TestTopicExtractor_EmptyListIsError(t *testing.T) {
	gen := &fakeGenerator{payload: `{"topics":[]}`}
	extractor := NewTopicExtractor(gen, testExtractConfig())

	_, err := extractor.Extract(context.Background(), "text")
	var emptyErr *EmptyExtractionError
	if !errors.As(err, &emptyErr) {
		t.Fatalf("expected EmptyExtractionError, got %v", err)
	}
}

func TestTopicExtractor_PropagatesGatewayErrors(t *testing.T) {
	want := &llm.SafetyBlockedError{Provider: "fake", Reason: "blocked"}
	gen := &fakeGenerator{err: want}
	extractor := NewTopicExtractor(gen, testExtractConfig())

	_, err := extractor.Extract(context.Background(), "text")
	var safetyErr *llm.SafetyBlockedError
	if !errors.As(err, &safetyErr) {
		t.Fatalf("expected SafetyBlockedError to propagate unchanged, got %v", err)
	}
}

func TestClaimExtractor_Extract(t *testing.T) {
	gen := &fakeGenerator{payload: `{"claim_topics":[
		{"topic":"Economy","claims":["Inflation rose 3% in Q2."]},
		{"topic":"Policy","claims":["The senate passed the bill on May 1."]}
	]}`}
	extractor := NewClaimExtractor(gen, testExtractConfig())

	groups, err := extractor.Extract(context.Background(), "source", []string{"Economy", "Policy"})
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].Topic != "Economy" || groups[0].Claims[0] != "Inflation rose 3% in Q2." {
		t.Errorf("unexpected first group: %+v", groups[0])
	}

	prompt := gen.prompts[0]
	if !strings.Contains(prompt, `["Economy","Policy"]`) {
		t.Error("prompt does not carry the topic list as JSON")
	}
	if !strings.Contains(prompt, "source") {
		t.Error("prompt does not contain the source text")
	}
}

func TestClaimExtractor_EmptyGroupsAreError(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{name: "no groups", payload: `{"claim_topics":[]}`},
		{name: "all groups empty", payload: `{"claim_topics":[{"topic":"A","claims":[]},{"topic":"B","claims":[]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &fakeGenerator{payload: tt.payload}
			extractor := NewClaimExtractor(gen, testExtractConfig())

			_, err := extractor.Extract(context.Background(), "text", []string{"A", "B"})
			var emptyErr *EmptyExtractionError
			if !errors.As(err, &emptyErr) {
				t.Fatalf("expected EmptyExtractionError, got %v", err)
			}
		})
	}
}

func TestRenderClaimPrompt_QuotesSurviveJSONEncoding(t *testing.T) {
	prompt := renderClaimPrompt("text", []string{`The "special" case`})
	if !strings.Contains(prompt, `\"special\"`) {
		t.Errorf("topic quoting not JSON-escaped: %s", prompt)
	}
}
