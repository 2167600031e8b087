package llm

import (
	"context"
	"errors"
	"testing"

	genai "google.golang.org/genai"
)

func TestClassifyGeminiError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		transient bool
	}{
		{name: "429", err: genai.APIError{Code: 429, Message: "rate limit"}, transient: true},
		{name: "500", err: genai.APIError{Code: 500, Message: "internal"}, transient: true},
		{name: "503", err: genai.APIError{Code: 503, Message: "unavailable"}, transient: true},
		{name: "400", err: genai.APIError{Code: 400, Message: "bad request"}, transient: false},
		{name: "403", err: genai.APIError{Code: 403, Message: "forbidden"}, transient: false},
		{name: "deadline", err: context.DeadlineExceeded, transient: true},
		{name: "other", err: errors.New("boom"), transient: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classified := classifyGeminiError(tt.err)
			var transientErr *TransientError
			got := errors.As(classified, &transientErr)
			if got != tt.transient {
				t.Errorf("transient = %v, want %v", got, tt.transient)
			}
		})
	}
}

func TestGeminiSafetySettings(t *testing.T) {
	settings := geminiSafetySettings(SafetyPermitAll)
	if len(settings) != 4 {
		t.Fatalf("expected all 4 harm categories covered, got %d", len(settings))
	}
	for _, s := range settings {
		if s.Threshold != genai.HarmBlockThresholdBlockNone {
			t.Errorf("category %s not set to BLOCK_NONE", s.Category)
		}
	}

	if got := geminiSafetySettings(SafetyProviderDefault); got != nil {
		t.Errorf("provider-default policy should leave settings nil, got %v", got)
	}

	// The zero value of SafetyPolicy must behave like permit-all.
	if got := geminiSafetySettings(""); len(got) != 4 {
		t.Errorf("zero-value policy should permit all, got %v", got)
	}
}

func TestToGenaiSchema(t *testing.T) {
	s := &Schema{
		Type: TypeObject,
		Properties: map[string]*Schema{
			"topics": {
				Type:        TypeArray,
				Description: "topic labels",
				Items:       &Schema{Type: TypeString},
			},
		},
		Required: []string{"topics"},
	}

	converted := toGenaiSchema(s)
	if converted.Type != genai.TypeObject {
		t.Errorf("expected object type, got %v", converted.Type)
	}
	topics := converted.Properties["topics"]
	if topics == nil {
		t.Fatal("topics property missing")
	}
	if topics.Type != genai.TypeArray {
		t.Errorf("expected array type, got %v", topics.Type)
	}
	if topics.Items == nil || topics.Items.Type != genai.TypeString {
		t.Error("expected string items")
	}
	if len(converted.Required) != 1 || converted.Required[0] != "topics" {
		t.Errorf("unexpected required list: %v", converted.Required)
	}
}

func TestCandidateText(t *testing.T) {
	if got := candidateText(nil); got != "" {
		t.Errorf("nil candidate should yield empty text, got %q", got)
	}
	c := &genai.Candidate{
		Content: &genai.Content{
			Parts: []*genai.Part{{Text: `{"a":`}, {Text: `1}`}},
		},
	}
	if got := candidateText(c); got != `{"a":1}` {
		t.Errorf("unexpected concatenation: %q", got)
	}
}
