package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"claimlens/internal/model"
	"github.com/sashabaranov/go-openai"
)

func newTestOpenAIProvider(t *testing.T, baseURL string) *OpenAIProvider {
	t.Helper()
	provider, err := NewOpenAIProvider(model.LLMConfig{
		APIKey:  "test-key",
		BaseURL: baseURL,
		Model:   "gpt-4o-mini",
	})
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	return provider
}

func topicTestSchema() *Schema {
	return &Schema{
		Name: "topic_extraction",
		Type: TypeObject,
		Properties: map[string]*Schema{
			"topics": {Type: TypeArray, Items: &Schema{Type: TypeString}},
		},
		Required: []string{"topics"},
	}
}

func TestOpenAIProvider_GenerateStructured_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("expected path /chat/completions, got %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("unexpected Authorization header: %s", r.Header.Get("Authorization"))
		}

		var req struct {
			ResponseFormat struct {
				Type string `json:"type"`
			} `json:"response_format"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.ResponseFormat.Type != "json_schema" {
			t.Errorf("expected json_schema response format, got %q", req.ResponseFormat.Type)
		}

		resp := openai.ChatCompletionResponse{
			ID:    "chatcmpl-123",
			Model: "gpt-4o-mini",
			Choices: []openai.ChatCompletionChoice{
				{
					Message: openai.ChatCompletionMessage{
						Role:    "assistant",
						Content: `{"topics":["Economy"]}`,
					},
					FinishReason: openai.FinishReasonStop,
				},
			},
			Usage: openai.Usage{TotalTokens: 42},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	provider := newTestOpenAIProvider(t, server.URL)
	resp, err := provider.GenerateStructured(context.Background(), Request{
		Prompt: "extract topics",
		Schema: topicTestSchema(),
	})
	if err != nil {
		t.Fatalf("GenerateStructured failed: %v", err)
	}
	if resp.Text != `{"topics":["Economy"]}` {
		t.Errorf("unexpected text: %s", resp.Text)
	}
	if resp.TokensUsed != 42 {
		t.Errorf("unexpected token count: %d", resp.TokensUsed)
	}
}

func TestOpenAIProvider_GenerateStructured_ContentFilter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := openai.ChatCompletionResponse{
			Model: "gpt-4o-mini",
			Choices: []openai.ChatCompletionChoice{
				{
					Message:      openai.ChatCompletionMessage{Role: "assistant"},
					FinishReason: openai.FinishReasonContentFilter,
				},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	provider := newTestOpenAIProvider(t, server.URL)
	_, err := provider.GenerateStructured(context.Background(), Request{Prompt: "p", Schema: topicTestSchema()})
	var safetyErr *SafetyBlockedError
	if !errors.As(err, &safetyErr) {
		t.Fatalf("expected SafetyBlockedError, got %v", err)
	}
}

func TestOpenAIProvider_GenerateStructured_RateLimitIsTransient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "rate limit exceeded", "type": "requests"}}`))
	}))
	defer server.Close()

	provider := newTestOpenAIProvider(t, server.URL)
	_, err := provider.GenerateStructured(context.Background(), Request{Prompt: "p", Schema: topicTestSchema()})
	var transientErr *TransientError
	if !errors.As(err, &transientErr) {
		t.Fatalf("expected TransientError for 429, got %v", err)
	}
}

func TestOpenAIProvider_GenerateStructured_BadRequestIsPermanent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": {"message": "invalid request", "type": "invalid_request_error"}}`))
	}))
	defer server.Close()

	provider := newTestOpenAIProvider(t, server.URL)
	_, err := provider.GenerateStructured(context.Background(), Request{Prompt: "p", Schema: topicTestSchema()})
	if err == nil {
		t.Fatal("expected error")
	}
	var transientErr *TransientError
	if errors.As(err, &transientErr) {
		t.Fatalf("400 must not be classified transient: %v", err)
	}
}

func TestClassifyOpenAIError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		transient bool
	}{
		{name: "429", err: &openai.APIError{HTTPStatusCode: 429}, transient: true},
		{name: "500", err: &openai.APIError{HTTPStatusCode: 500}, transient: true},
		{name: "503", err: &openai.APIError{HTTPStatusCode: 503}, transient: true},
		{name: "401", err: &openai.APIError{HTTPStatusCode: 401}, transient: false},
		{name: "deadline", err: context.DeadlineExceeded, transient: true},
		{name: "other", err: errors.New("boom"), transient: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classified := classifyOpenAIError(tt.err)
			var transientErr *TransientError
			got := errors.As(classified, &transientErr)
			if got != tt.transient {
				t.Errorf("transient = %v, want %v", got, tt.transient)
			}
		})
	}
}
