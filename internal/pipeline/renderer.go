package pipeline

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"claimlens/internal/model"
)

// Renderer writes extracted claims in the CLI's output formats. The
// CSV layout matches the web UI's export so both paths produce the
// same file.
type Renderer struct{}

// NewRenderer creates a new Renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// WriteJSON writes the claims as an indented JSON document.
func (r *Renderer) WriteJSON(w io.Writer, claims []model.Claim) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Claims []model.Claim `json:"claims"`
	}{Claims: claims})
}

// WriteCSV writes the claims as CSV with a header row.
func (r *Renderer) WriteCSV(w io.Writer, claims []model.Claim) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"claim_topic", "claim"}); err != nil {
		return err
	}
	for _, c := range claims {
		if err := cw.Write([]string{c.Topic, c.Text}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteMarkdown writes the claims as a Markdown table.
func (r *Renderer) WriteMarkdown(w io.Writer, claims []model.Claim) error {
	var b strings.Builder
	b.WriteString("| Topic | Claim |\n")
	b.WriteString("|---|---|\n")
	for _, c := range claims {
		fmt.Fprintf(&b, "| %s | %s |\n", escapeMarkdownCell(c.Topic), escapeMarkdownCell(c.Text))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func escapeMarkdownCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
