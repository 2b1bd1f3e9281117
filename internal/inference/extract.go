package inference

import (
	"fmt"
	"strings"
)

// ExtractJSONObject isolates the JSON object from a model reply that may be
// surrounded by prose. Best-effort heuristic: it does not bracket-match and
// ignores braces inside string literals, so the result can still fail to
// decode downstream. A reply that already starts with "{" is used as-is.
func ExtractJSONObject(raw string) (string, error) {
	text := strings.TrimSpace(raw)
	if strings.HasPrefix(text, "{") {
		return text, nil
	}

	start := strings.Index(text, "{")
	if start < 0 {
		return "", fmt.Errorf("ExtractJSONObject(%s) > %w", text, ErrNoJSON)
	}
	text = text[start:]

	// Drop trailing commentary after the last closing brace
	if end := strings.LastIndex(text, "}"); end >= 0 && end < len(text)-1 {
		text = text[:end+1]
	}
	return text, nil
}
