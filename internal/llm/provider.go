package llm

import "context"

// Provider defines the interface for LLM providers. An adapter makes
// exactly one network call per GenerateStructured invocation; retry,
// backoff, rate limiting and response binding belong to the Gateway.
type Provider interface {
	// Name returns the provider name, e.g. "gemini:gemini-2.5-flash".
	Name() string

	// GenerateStructured sends the prompt and asks the model to answer
	// in the shape req.Schema describes. It returns the raw (expected
	// JSON) text of the completion, a *SafetyBlockedError if the model
	// refused, a *TransientError-wrapped failure when the call is
	// worth retrying, or a plain error for permanent failures.
	GenerateStructured(ctx context.Context, req Request) (*Response, error)
}

// SafetyPolicy selects how aggressively the provider filters content.
type SafetyPolicy string

const (
	// SafetyPermitAll disables every safety category the provider lets
	// us disable, so legitimate political/health/violence source text
	// is not silently blocked. This is the default.
	SafetyPermitAll SafetyPolicy = "permit_all"

	// SafetyProviderDefault leaves the provider's own thresholds in
	// place.
	SafetyProviderDefault SafetyPolicy = "provider_default"
)

// Request contains the input for one structured-generation call.
type Request struct {
	// Prompt is the fully rendered prompt text.
	Prompt string

	// Schema describes the shape the model must return.
	Schema *Schema

	// Temperature for sampling.
	Temperature float32

	// MaxOutputTokens caps the completion length; zero means the
	// provider default.
	MaxOutputTokens int

	// Safety selects the content-safety policy. The zero value is
	// treated as SafetyPermitAll.
	Safety SafetyPolicy
}

// Response contains the provider's completion.
type Response struct {
	// Text is the raw completion payload, expected to be JSON.
	Text string

	// Model is the model that generated the response.
	Model string

	// TokensUsed tracks total token consumption when the provider
	// reports it.
	TokensUsed int
}
