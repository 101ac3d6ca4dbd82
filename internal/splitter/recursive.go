package splitter

import (
	"strings"
	"unicode/utf8"
)

// Separator priority for recursive splitting: paragraph break, line break,
// word boundary, then a hard character cut.
var recursiveSeparators = []string{"\n\n", "\n", " ", ""}

// splitRecursive performs deterministic size-bounded splitting: pieces are
// produced along the separator priority, greedily merged up to size runes,
// and each piece after the first carries the trailing overlap runes of its
// predecessor.
func splitRecursive(text string, size, overlap int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	base := splitBySeparators(text, recursiveSeparators, size)
	return applyOverlap(base, overlap)
}

func splitBySeparators(text string, seps []string, size int) []string {
	if utf8.RuneCountInString(text) <= size {
		if strings.TrimSpace(text) == "" {
			return nil
		}
		return []string{text}
	}

	sep := seps[0]
	if sep == "" {
		return hardCut(text, size)
	}
	rest := seps[1:]

	var out []string
	var cur strings.Builder
	curLen := 0

	flush := func() {
		if t := strings.TrimSpace(cur.String()); t != "" {
			out = append(out, t)
		}
		cur.Reset()
		curLen = 0
	}

	for _, piece := range strings.Split(text, sep) {
		pieceLen := utf8.RuneCountInString(piece)

		if pieceLen > size {
			flush()
			out = append(out, splitBySeparators(piece, rest, size)...)
			continue
		}

		joined := pieceLen
		if curLen > 0 {
			joined += curLen + utf8.RuneCountInString(sep)
		}
		if joined > size {
			flush()
		}
		if curLen > 0 {
			cur.WriteString(sep)
			curLen += utf8.RuneCountInString(sep)
		}
		cur.WriteString(piece)
		curLen += pieceLen
	}
	flush()

	return out
}

func hardCut(text string, size int) []string {
	runes := []rune(text)
	var out []string
	for i := 0; i < len(runes); i += size {
		end := min(i+size, len(runes))
		piece := strings.TrimSpace(string(runes[i:end]))
		if piece != "" {
			out = append(out, piece)
		}
	}
	return out
}

// applyOverlap prefixes every piece after the first with the trailing
// overlap runes of its predecessor, preserving context across boundaries.
func applyOverlap(pieces []string, overlap int) []string {
	if overlap <= 0 || len(pieces) < 2 {
		return pieces
	}

	out := make([]string, len(pieces))
	out[0] = pieces[0]
	for i := 1; i < len(pieces); i++ {
		out[i] = tail(pieces[i-1], overlap) + pieces[i]
	}
	return out
}

func tail(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s + "\n"
	}
	return string(runes[len(runes)-n:]) + "\n"
}
