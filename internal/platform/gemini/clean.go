package gemini

import "strings"

// cleanResponse strips markdown code fences from a model response.
//
// Models regularly wrap JSON answers in ```json fences even when asked
// for a bare payload. If the trimmed text starts with a fence, the
// content between the first newline and the closing fence is returned;
// otherwise the trimmed text is returned unchanged. The opening fence's
// language tag is discarded along with the fence itself.
func cleanResponse(s string) string {
	s = strings.TrimSpace(s)

	if !strings.HasPrefix(s, "```") {
		return s
	}

	start := strings.Index(s, "\n")
	if start == -1 {
		return s
	}

	end := strings.LastIndex(s, "```")
	if end <= start {
		return s
	}

	return strings.TrimSpace(s[start+1 : end])
}
