package llm

import (
	"context"
	"errors"
	"fmt"

	"claimlens/internal/model"
	genai "google.golang.org/genai"
)

// GeminiProvider implements the Provider interface on the official
// genai client. The original deployment of this service runs against
// Gemini, so this is the default provider.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

// NewGeminiProvider creates a new Gemini provider.
func NewGeminiProvider(ctx context.Context, config model.LLMConfig) (*GeminiProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	m := config.Model
	if m == "" {
		m = "gemini-2.5-flash"
	}
	return &GeminiProvider{client: client, model: m}, nil
}

// Name returns the provider name.
func (p *GeminiProvider) Name() string {
	return "gemini:" + p.model
}

// GenerateStructured makes a single generateContent call asking for
// application/json constrained by the request schema.
func (p *GeminiProvider) GenerateStructured(ctx context.Context, req Request) (*Response, error) {
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   toGenaiSchema(req.Schema),
		Temperature:      genai.Ptr(req.Temperature),
		SafetySettings:   geminiSafetySettings(req.Safety),
	}
	if req.MaxOutputTokens > 0 {
		cfg.MaxOutputTokens = int32(req.MaxOutputTokens)
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: req.Prompt}}}},
		cfg,
	)
	if err != nil {
		return nil, classifyGeminiError(err)
	}

	if len(resp.Candidates) == 0 {
		return nil, &SchemaMismatchError{Provider: p.Name(), Detail: "response carried no candidates"}
	}
	candidate := resp.Candidates[0]
	switch candidate.FinishReason {
	case genai.FinishReasonSafety:
		return nil, &SafetyBlockedError{Provider: p.Name(), Reason: "finish reason SAFETY"}
	case genai.FinishReasonMaxTokens:
		// Truncated JSON never parses; malformed output from the model
		// is non-deterministic, so let the gateway retry it.
		return nil, &SchemaMismatchError{Provider: p.Name(), Detail: "response truncated at output token limit"}
	}

	text := candidateText(candidate)
	if text == "" {
		return nil, &SchemaMismatchError{Provider: p.Name(), Detail: "response carried no text"}
	}

	var tokens int
	if resp.UsageMetadata != nil {
		tokens = int(resp.UsageMetadata.TotalTokenCount)
	}
	return &Response{Text: text, Model: p.model, TokensUsed: tokens}, nil
}

// candidateText concatenates the text parts of a candidate.
func candidateText(c *genai.Candidate) string {
	if c == nil || c.Content == nil {
		return ""
	}
	var text string
	for _, part := range c.Content.Parts {
		if part != nil {
			text += part.Text
		}
	}
	return text
}

// classifyGeminiError maps genai SDK errors onto the gateway's
// taxonomy: 429 and 5xx are transient, everything else is permanent.
// This is the only place Gemini-specific error shapes are known.
func classifyGeminiError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code == 429 || apiErr.Code >= 500 {
			return &TransientError{Err: err}
		}
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &TransientError{Err: err}
	}
	return err
}

// geminiSafetySettings renders the safety policy as genai settings.
// Permit-all disables every harm category Gemini lets us disable so
// legitimate political, health or violence source text is not blocked
// before extraction.
func geminiSafetySettings(policy SafetyPolicy) []*genai.SafetySetting {
	if policy == SafetyProviderDefault {
		return nil
	}
	categories := []genai.HarmCategory{
		genai.HarmCategoryHateSpeech,
		genai.HarmCategoryHarassment,
		genai.HarmCategorySexuallyExplicit,
		genai.HarmCategoryDangerousContent,
	}
	settings := make([]*genai.SafetySetting, 0, len(categories))
	for _, category := range categories {
		settings = append(settings, &genai.SafetySetting{
			Category:  category,
			Threshold: genai.HarmBlockThresholdBlockNone,
		})
	}
	return settings
}

// toGenaiSchema converts the provider-neutral schema descriptor to the
// genai response schema form.
func toGenaiSchema(s *Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{Description: s.Description}
	switch s.Type {
	case TypeObject:
		out.Type = genai.TypeObject
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, p := range s.Properties {
			out.Properties[name] = toGenaiSchema(p)
		}
		out.Required = s.Required
	case TypeArray:
		out.Type = genai.TypeArray
		out.Items = toGenaiSchema(s.Items)
	case TypeString:
		out.Type = genai.TypeString
	case TypeNumber:
		out.Type = genai.TypeNumber
	case TypeBoolean:
		out.Type = genai.TypeBoolean
	}
	return out
}
