// Package jsonutil extracts JSON payloads from raw model output.
package jsonutil

import (
	"regexp"
	"strings"
)

const fence = "```"

// languageTag matches a single leading language-tag line ("json\n", "JSON ")
// left over after removing code fences. Anchored, so it strips at most once.
var languageTag = regexp.MustCompile(`^\s*\w+\s*\n?`)

// ExtractJSON returns the JSON payload embedded in a model reply, tolerating
// code-fence wrapping with an optional language tag on the opening fence.
//
// This is a best-effort text transform, not a validator: the caller still
// parses the result and handles parse errors. Input that contains fewer than
// two fence markers is assumed to already be bare JSON and is returned
// trimmed, which makes the transform idempotent.
func ExtractJSON(raw string) string {
	parts := strings.Split(raw, fence)
	if len(parts) < 3 {
		return strings.TrimSpace(raw)
	}

	// Everything between the first and last fence, rejoining any interior
	// fences that were incidentally split.
	content := strings.Join(parts[1:len(parts)-1], fence)
	content = languageTag.ReplaceAllString(content, "")
	return strings.TrimSpace(content)
}
