package extraction

import (
	"regexp"
	"strings"
)

var excessNewlines = regexp.MustCompile(`\n{3,}`)

// Normalize cleans extracted text into the canonical form the splitters
// operate on: LF line endings, regular spaces, page markers removed, and
// runs of blank lines collapsed to a single blank line.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.ReplaceAll(text, "\f", "\n\n")
	text = strings.ReplaceAll(text, " ", " ")
	text = strings.ReplaceAll(text, "​", "")
	text = excessNewlines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
