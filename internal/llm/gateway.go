package llm

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"strings"
	"time"

	"claimlens/internal/model"
	"golang.org/x/time/rate"
)

// Gateway wraps a Provider with the cross-cutting concerns the
// extractors should not see: bounded retry with exponential backoff
// and jitter, per-call timeouts, an optional requests-per-second
// limiter, and binding of the raw completion to a caller-supplied
// value. It holds no per-request state and is safe to share across
// concurrent requests.
type Gateway struct {
	provider    Provider
	maxAttempts int
	baseBackoff time.Duration
	maxBackoff  time.Duration
	limiter     *rate.Limiter
}

// Call describes one logical structured-generation call.
type Call struct {
	// Prompt is the fully rendered prompt text.
	Prompt string

	// Schema describes the shape the model must return.
	Schema *Schema

	// Out receives the parsed response; it must be a pointer.
	Out any

	// Timeout bounds each provider attempt. Exceeding it counts as a
	// transient failure eligible for retry. Zero means no per-attempt
	// bound beyond the caller's context.
	Timeout time.Duration

	// Temperature and MaxOutputTokens are passed through to the
	// provider.
	Temperature     float32
	MaxOutputTokens int

	// Safety selects the content-safety policy; zero value means
	// permit all.
	Safety SafetyPolicy
}

// NewGateway creates a Gateway around the given provider. RPS of zero
// disables the rate limiter.
func NewGateway(provider Provider, retry model.RetryConfig, rps float64, burst int) *Gateway {
	if retry.MaxAttempts < 1 {
		retry.MaxAttempts = 1
	}
	if retry.BaseBackoff <= 0 {
		retry.BaseBackoff = 2 * time.Second
	}
	if retry.MaxBackoff < retry.BaseBackoff {
		retry.MaxBackoff = 30 * time.Second
	}
	var limiter *rate.Limiter
	if rps > 0 {
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
	return &Gateway{
		provider:    provider,
		maxAttempts: retry.MaxAttempts,
		baseBackoff: retry.BaseBackoff,
		maxBackoff:  retry.MaxBackoff,
		limiter:     limiter,
	}
}

// GenerateStructured runs one logical call against the provider and
// binds the response into call.Out. Transient provider failures and
// schema mismatches are retried up to the configured attempt budget;
// safety blocks and permanent failures are surfaced immediately. After
// the budget is exhausted the last failure is surfaced as a
// *SchemaMismatchError if the provider kept answering in the wrong
// shape, otherwise as a *ProviderError. It never returns a degraded
// value silently.
func (g *Gateway) GenerateStructured(ctx context.Context, call Call) error {
	var lastErr error

	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		if attempt > 1 {
			if err := g.sleep(ctx, attempt-1); err != nil {
				return err
			}
		}
		if g.limiter != nil {
			if err := g.limiter.Wait(ctx); err != nil {
				return err
			}
		}

		resp, err := g.attempt(ctx, call)
		if err != nil {
			var safetyErr *SafetyBlockedError
			if errors.As(err, &safetyErr) {
				return safetyErr
			}
			var transientErr *TransientError
			if errors.As(err, &transientErr) {
				lastErr = transientErr.Err
				continue
			}
			// Adapters report truncated or shapeless completions as
			// schema mismatches; like parse failures, those are
			// non-deterministic and join the retry loop.
			var mismatchErr *SchemaMismatchError
			if errors.As(err, &mismatchErr) {
				lastErr = mismatchErr
				continue
			}
			// Per-attempt timeout with the caller's context still live
			// is a transient condition.
			if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
				lastErr = err
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			// Permanent failure: no retry.
			return &ProviderError{Provider: g.provider.Name(), Attempts: attempt, Err: err}
		}

		if parseErr := bindResponse(resp.Text, call.Out); parseErr != nil {
			lastErr = &SchemaMismatchError{Provider: g.provider.Name(), Detail: "parse response", Err: parseErr}
			continue
		}
		return nil
	}

	var mismatchErr *SchemaMismatchError
	if errors.As(lastErr, &mismatchErr) {
		return mismatchErr
	}
	return &ProviderError{Provider: g.provider.Name(), Attempts: g.maxAttempts, Err: lastErr}
}

// attempt makes a single provider call bounded by the per-call
// timeout.
func (g *Gateway) attempt(ctx context.Context, call Call) (*Response, error) {
	if call.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, call.Timeout)
		defer cancel()
	}
	return g.provider.GenerateStructured(ctx, Request{
		Prompt:          call.Prompt,
		Schema:          call.Schema,
		Temperature:     call.Temperature,
		MaxOutputTokens: call.MaxOutputTokens,
		Safety:          call.Safety,
	})
}

// sleep backs off exponentially from baseBackoff, capped at
// maxBackoff, with up to 50% random jitter. Returns early if the
// context is canceled.
func (g *Gateway) sleep(ctx context.Context, retries int) error {
	delay := g.baseBackoff << (retries - 1)
	if delay > g.maxBackoff || delay <= 0 {
		delay = g.maxBackoff
	}
	delay += time.Duration(rand.Int63n(int64(delay)/2 + 1))
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}

// bindResponse parses the completion into out. The strict path expects
// the payload to already be the requested JSON document (providers are
// asked for application/json); the fallback strips markdown fences and
// surrounding prose before trying again.
func bindResponse(text string, out any) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return errors.New("empty response text")
	}
	direct := json.Unmarshal([]byte(trimmed), out)
	if direct == nil {
		return nil
	}
	if extracted, ok := extractJSON(trimmed); ok {
		if err := json.Unmarshal([]byte(extracted), out); err == nil {
			return nil
		}
	}
	return direct
}

// extractJSON pulls the outermost JSON object or array out of text
// that wraps it in code fences or prose.
func extractJSON(text string) (string, bool) {
	start := strings.IndexAny(text, "{[")
	if start < 0 {
		return "", false
	}
	var end int
	if text[start] == '{' {
		end = strings.LastIndex(text, "}")
	} else {
		end = strings.LastIndex(text, "]")
	}
	if end <= start {
		return "", false
	}
	return text[start : end+1], true
}
