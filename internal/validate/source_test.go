package validate

import (
	"errors"
	"strings"
	"testing"

	"claimlens/internal/model"
)

func TestSourceText_Bounds(t *testing.T) {
	bounds := model.SourceConfig{MinLength: 50, MaxLength: 100}

	tests := []struct {
		name    string
		text    string
		wantErr bool
	}{
		{name: "exactly minimum", text: strings.Repeat("a", 50)},
		{name: "one under minimum", text: strings.Repeat("a", 49), wantErr: true},
		{name: "exactly maximum", text: strings.Repeat("a", 100)},
		{name: "one over maximum", text: strings.Repeat("a", 101), wantErr: true},
		{name: "empty", text: "", wantErr: true},
		{name: "whitespace only", text: strings.Repeat(" \n\t", 30), wantErr: true},
		{name: "multibyte runes counted as characters", text: strings.Repeat("ü", 50)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := SourceText(tt.text, bounds)
			if tt.wantErr {
				var valErr *InputValidationError
				if !errors.As(err, &valErr) {
					t.Fatalf("expected InputValidationError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected acceptance, got %v", err)
			}
		})
	}
}
