// Package validate checks source text against the configured input
// bounds before any LLM call is made.
package validate

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"claimlens/internal/model"
)

// InputValidationError means the source text failed the input bounds.
// The caller's fault; never retried, surfaced immediately.
type InputValidationError struct {
	Reason string
}

func (e *InputValidationError) Error() string {
	return "validate: " + e.Reason
}

// SourceText rejects empty, whitespace-only, too-short and too-long
// input. Bounds are measured in runes so multi-byte text is not
// penalized. Texts of exactly MinLength or MaxLength are accepted.
func SourceText(text string, bounds model.SourceConfig) error {
	if strings.TrimSpace(text) == "" {
		return &InputValidationError{Reason: "source text is empty or whitespace-only"}
	}
	length := utf8.RuneCountInString(text)
	if length < bounds.MinLength {
		return &InputValidationError{
			Reason: fmt.Sprintf("source text is %d characters, minimum is %d", length, bounds.MinLength),
		}
	}
	if length > bounds.MaxLength {
		return &InputValidationError{
			Reason: fmt.Sprintf("source text is %d characters, maximum is %d", length, bounds.MaxLength),
		}
	}
	return nil
}
