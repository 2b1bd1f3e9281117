package inference

import "strings"

// metaMarker is prepended when a dictation line reads like an instruction to
// the tool itself, so the model records it instead of obeying it
const metaMarker = "Backlog item: "

// metaPrefixes are lead-in phrases that usually mean the speaker is talking
// to the tool rather than describing a backlog item
var metaPrefixes = []string{
	"be more",
	"make it",
	"you should",
	"can you",
	"please",
	"i want",
	"we need",
	"the way you",
	"your",
	"improve",
}

// NormalizeDictation trims the text, collapses whitespace runs to single
// spaces, and defuses meta-instructions with the marker prefix
func NormalizeDictation(text string) string {
	normalized := strings.Join(strings.Fields(text), " ")
	if normalized == "" {
		return ""
	}

	lowered := strings.ToLower(normalized)
	for _, prefix := range metaPrefixes {
		if strings.HasPrefix(lowered, prefix) {
			return metaMarker + normalized
		}
	}
	return normalized
}
