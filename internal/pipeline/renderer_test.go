package pipeline

import (
	"strings"
	"testing"

	"claimlens/internal/model"
)

var rendererClaims = []model.Claim{
	{Topic: "Economy", Text: "Inflation rose 3% in Q2."},
	{Topic: "Policy", Text: "The senate passed the bill on May 1."},
}

func TestRenderer_WriteCSV(t *testing.T) {
	var b strings.Builder
	if err := NewRenderer().WriteCSV(&b, rendererClaims); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(b.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "claim_topic,claim" {
		t.Errorf("unexpected header: %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "Economy,") {
		t.Errorf("row order not preserved: %q", lines[1])
	}
}

func TestRenderer_WriteJSON(t *testing.T) {
	var b strings.Builder
	if err := NewRenderer().WriteJSON(&b, rendererClaims); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}
	out := b.String()
	for _, want := range []string{`"claims"`, `"claim_topic": "Economy"`, `"claim": "Inflation rose 3% in Q2."`} {
		if !strings.Contains(out, want) {
			t.Errorf("JSON output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderer_WriteMarkdown(t *testing.T) {
	var b strings.Builder
	claims := append(rendererClaims, model.Claim{Topic: "Edge", Text: "Pipes | are escaped."})
	if err := NewRenderer().WriteMarkdown(&b, claims); err != nil {
		t.Fatalf("WriteMarkdown failed: %v", err)
	}
	out := b.String()
	if !strings.Contains(out, "| Topic | Claim |") {
		t.Error("missing table header")
	}
	if !strings.Contains(out, `Pipes \| are escaped.`) {
		t.Errorf("cell pipes not escaped:\n%s", out)
	}
}
