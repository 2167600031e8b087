package llm

import "fmt"

// The gateway surfaces exactly three failure kinds to callers:
// ProviderError (the call failed after retries), SafetyBlockedError
// (the model refused) and SchemaMismatchError (the model answered but
// not in the requested shape). TransientError is internal plumbing: it
// is the retry predicate, attached by provider adapters and always
// unwrapped before a caller sees the failure.

// ProviderError means the provider call failed after exhausting the
// gateway's retry budget, or failed permanently on the first attempt.
type ProviderError struct {
	Provider string
	Attempts int
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("llm: %s call failed after %d attempt(s): %v", e.Provider, e.Attempts, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// SafetyBlockedError means the provider refused to complete generation
// because of its content-safety classification, despite the permissive
// safety policy. Distinct from ProviderError so callers can tell
// "refused" from "broken". Never retried.
type SafetyBlockedError struct {
	Provider string
	Reason   string
}

func (e *SafetyBlockedError) Error() string {
	return fmt.Sprintf("llm: %s blocked generation for safety: %s", e.Provider, e.Reason)
}

// SchemaMismatchError means the provider responded but the payload
// could not be bound to the requested schema, even after the fallback
// parse path. Malformed output is non-deterministic, so the gateway
// retries these within its attempt budget before surfacing the error.
type SchemaMismatchError struct {
	Provider string
	Detail   string
	Err      error
}

func (e *SchemaMismatchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("llm: %s response did not match schema (%s): %v", e.Provider, e.Detail, e.Err)
	}
	return fmt.Sprintf("llm: %s response did not match schema: %s", e.Provider, e.Detail)
}

func (e *SchemaMismatchError) Unwrap() error { return e.Err }

// TransientError marks a failure as retryable. Provider adapters wrap
// rate-limit, server-unavailable and timeout class errors in it; the
// gateway retries anything carrying this marker and nothing else
// besides schema mismatches.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string { return e.Err.Error() }

func (e *TransientError) Unwrap() error { return e.Err }
