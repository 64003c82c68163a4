package search

import (
	"fmt"
	"strings"
)

// LineFormat renders one result as a single line of text.
type LineFormat func(Result) string

// SourcedLine renders "- {content} (Source: {url})".
func SourcedLine(r Result) string {
	return fmt.Sprintf("- %s (Source: %s)", r.Content, r.URL)
}

// CompactLine renders "- {content} ({url})".
func CompactLine(r Result) string {
	return fmt.Sprintf("- %s (%s)", r.Content, r.URL)
}

// Format renders at most limit results, one per line, joined by "\n".
func Format(results []Result, limit int, line LineFormat) string {
	if limit < len(results) {
		results = results[:limit]
	}

	lines := make([]string, 0, len(results))
	for _, r := range results {
		lines = append(lines, line(r))
	}
	return strings.Join(lines, "\n")
}

// MaskKey hides all but the last four characters of a credential.
func MaskKey(key string) string {
	if len(key) <= 4 {
		return "..."
	}
	return "..." + key[len(key)-4:]
}
