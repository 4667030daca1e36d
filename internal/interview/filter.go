package interview

import (
	"regexp"
	"strings"
)

// annotationBlock matches {...} on a single line; the model uses these for notes
// that belong in the report but not in the chat.
var annotationBlock = regexp.MustCompile(`\{[^}\n]*\}`)

// FilterForDisplay strips annotation blocks and blank lines from an assistant reply.
func FilterForDisplay(reply string) string {
	stripped := annotationBlock.ReplaceAllString(reply, "")
	lines := strings.Split(stripped, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

var stopKeywords = map[string]struct{}{
	"стоп":      {},
	"stop":      {},
	"завершить": {},
	"конец":     {},
	"закончить": {},
}

// IsStopKeyword reports whether a free-text message asks to end the interview.
func IsStopKeyword(text string) bool {
	_, ok := stopKeywords[strings.ToLower(strings.TrimSpace(text))]
	return ok
}
