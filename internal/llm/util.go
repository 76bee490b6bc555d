package llm

import "strings"

// CleanJSONBlock strips a markdown code fence from a JSON response.
// Models sometimes wrap JSON in ```json fences even in JSON mode.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	text = strings.TrimPrefix(text, "```")
	// drop a language tag such as "json" on the fence line
	if first, rest, found := strings.Cut(text, "\n"); found {
		if len(first) < 20 && !strings.ContainsAny(first, " {[") {
			text = rest
		}
	}
	if idx := strings.LastIndex(text, "```"); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}
