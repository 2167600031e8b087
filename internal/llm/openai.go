package llm

import (
	"context"
	"errors"
	"fmt"
	"net"

	"claimlens/internal/model"
	"github.com/sashabaranov/go-openai"
)

// OpenAIProvider implements the Provider interface on the OpenAI Chat
// Completions API, using the json_schema response format for
// structured output. Also serves OpenAI-compatible gateways via
// BaseURL.
type OpenAIProvider struct {
	client *openai.Client
	model  string
}

// NewOpenAIProvider creates a new OpenAI provider.
func NewOpenAIProvider(config model.LLMConfig) (*OpenAIProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}
	m := config.Model
	if m == "" {
		m = openai.GPT4oMini
	}
	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientConfig),
		model:  m,
	}, nil
}

// Name returns the provider name.
func (p *OpenAIProvider) Name() string {
	return "openai:" + p.model
}

// GenerateStructured makes a single chat completion call with a strict
// JSON-schema response format.
//
// OpenAI exposes no per-request safety thresholds to relax, so
// SafetyPermitAll has nothing to switch off here; content-filter
// refusals are still reported as SafetyBlockedError via the finish
// reason.
func (p *OpenAIProvider) GenerateStructured(ctx context.Context, req Request) (*Response, error) {
	chatReq := openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: req.Prompt,
			},
		},
		Temperature: req.Temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   schemaName(req.Schema),
				Schema: req.Schema.JSONSchema(),
				Strict: true,
			},
		},
	}
	if req.MaxOutputTokens > 0 {
		chatReq.MaxTokens = req.MaxOutputTokens
	}

	resp, err := p.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, classifyOpenAIError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, &SchemaMismatchError{Provider: p.Name(), Detail: "response carried no choices"}
	}

	choice := resp.Choices[0]
	switch choice.FinishReason {
	case openai.FinishReasonContentFilter:
		return nil, &SafetyBlockedError{Provider: p.Name(), Reason: "finish reason content_filter"}
	case openai.FinishReasonLength:
		return nil, &SchemaMismatchError{Provider: p.Name(), Detail: "response truncated at output token limit"}
	}

	return &Response{
		Text:       choice.Message.Content,
		Model:      resp.Model,
		TokensUsed: resp.Usage.TotalTokens,
	}, nil
}

// classifyOpenAIError maps go-openai errors onto the gateway's
// taxonomy: 429 and 5xx are transient, everything else is permanent.
// This is the only place OpenAI-specific error shapes are known.
func classifyOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == 429 || apiErr.HTTPStatusCode >= 500 {
			return &TransientError{Err: err}
		}
		return err
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &TransientError{Err: err}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &TransientError{Err: err}
	}
	return err
}

func schemaName(s *Schema) string {
	if s != nil && s.Name != "" {
		return s.Name
	}
	return "structured_output"
}
