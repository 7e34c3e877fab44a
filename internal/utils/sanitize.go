package utils

import "strings"

// DefaultSanitizeLength bounds free-text fields unless a caller overrides it.
const DefaultSanitizeLength = 255

var quoteEscaper = strings.NewReplacer(
	`"`, "&quot;",
	"'", "&#39;",
)

// Sanitize normalizes free-text input before it is stored or echoed back:
// leading/trailing whitespace is trimmed, literal angle brackets are removed,
// quotes are escaped to HTML entities and the result is truncated to
// maxLength. This is primitive tag-stripping, not a full HTML sanitizer; it
// does not defend against attribute-based or encoded payloads.
func Sanitize(text string, maxLength int) string {
	if maxLength <= 0 {
		maxLength = DefaultSanitizeLength
	}

	s := strings.TrimSpace(text)
	s = strings.ReplaceAll(s, "<", "")
	s = strings.ReplaceAll(s, ">", "")
	s = quoteEscaper.Replace(s)

	if runes := []rune(s); len(runes) > maxLength {
		s = string(runes[:maxLength])
	}
	return s
}
