package formatting

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrParseFailed is returned when content cannot be parsed as JSON directly,
// from a markdown code fence, or from an embedded object.
var ErrParseFailed = errors.New("failed to parse response")

var jsonBlockRegex = regexp.MustCompile(`(?s)` + "```" + `(?:json)?\s*\n?(.*?)\n?` + "```")

// Parse attempts to unmarshal model output as JSON into T. If direct
// parsing fails it extracts JSON from a markdown code fence, and failing
// that, the outermost brace-delimited object. Returns ErrParseFailed when
// every attempt fails.
func Parse[T any](content string) (T, error) {
	var result T
	content = strings.TrimSpace(content)

	if err := json.Unmarshal([]byte(content), &result); err == nil {
		return result, nil
	}

	matches := jsonBlockRegex.FindStringSubmatch(content)
	if len(matches) >= 2 {
		cleaned := strings.TrimSpace(matches[1])
		if err := json.Unmarshal([]byte(cleaned), &result); err == nil {
			return result, nil
		}
	}

	if embedded, ok := braceSlice(content); ok {
		if err := json.Unmarshal([]byte(embedded), &result); err == nil {
			return result, nil
		}
	}

	return result, fmt.Errorf("%w: %s", ErrParseFailed, content)
}

// braceSlice returns the substring spanning the first '{' through the last '}'.
func braceSlice(content string) (string, bool) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end <= start {
		return "", false
	}
	return content[start : end+1], true
}
