package util

import (
	"regexp"
	"strings"
)

// Smart punctuation and other Unicode that trips up structured JSON
// output from some models is normalized to ASCII before the text
// reaches a prompt.
var charReplacer = strings.NewReplacer(
	"“", `"`, // left double quote
	"”", `"`, // right double quote
	"„", `"`, // low double quote
	"‟", `"`, // reversed double quote
	"‘", "'", // left single quote
	"’", "'", // right single quote
	"‚", "'", // low single quote
	"‛", "'", // reversed single quote
	"—", "--", // em dash
	"–", "-", // en dash
	"…", "...", // ellipsis
	" ", " ", // non-breaking space
)

var excessiveNewlines = regexp.MustCompile(`\n{3,}`)

// SanitizeText normalizes line endings, replaces smart quotes, dashes,
// ellipsis and non-breaking spaces with ASCII equivalents, and
// collapses runs of three or more newlines to a blank line.
func SanitizeText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = charReplacer.Replace(text)
	return excessiveNewlines.ReplaceAllString(text, "\n\n")
}
