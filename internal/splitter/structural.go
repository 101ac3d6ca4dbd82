package splitter

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Marker patterns for documents with predictable structure: Thai legal
// articles and clauses, chapter headings, and Q&A transcripts, plus their
// English counterparts. Patterns are tried in order; the first one that
// matches anchors the split.
var structuralPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?m)^มาตรา\s+\S+`),
	regexp.MustCompile(`(?m)^ข้อ\s+\S+`),
	regexp.MustCompile(`(?m)^บทที่\s+\S+`),
	regexp.MustCompile(`(?m)^คำถาม\s*[:：]`),
	regexp.MustCompile(`(?mi)^article\s+\d+`),
	regexp.MustCompile(`(?mi)^section\s+\d+`),
	regexp.MustCompile(`(?mi)^chapter\s+\d+`),
	regexp.MustCompile(`(?mi)^(?:q|question)\s*[.:)]`),
}

// splitStructural splits text at recognized structural markers, keeping
// each marker attached to the content that follows it. Parts larger than
// size are sub-split recursively. Returns nil when no marker matches at
// least twice; a single match gives no better boundaries than recursive
// splitting would.
func splitStructural(text string, size, overlap int) []string {
	for _, pattern := range structuralPatterns {
		locs := pattern.FindAllStringIndex(text, -1)
		if len(locs) < 2 {
			continue
		}

		parts := splitAtMarkers(text, locs)

		var out []string
		for _, part := range parts {
			if utf8.RuneCountInString(part) <= size {
				out = append(out, part)
				continue
			}
			out = append(out, splitRecursive(part, size, overlap)...)
		}
		return out
	}
	return nil
}

// splitAtMarkers cuts text at each marker's start offset. The prefix before
// the first marker is kept as its own part when non-empty.
func splitAtMarkers(text string, locs [][]int) []string {
	var parts []string

	appendPart := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}

	appendPart(text[:locs[0][0]])
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		appendPart(text[loc[0]:end])
	}
	return parts
}
