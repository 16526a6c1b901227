package domain

import (
	"strings"
	"unicode"
)

// NormalizeText prepares text for case- and whitespace-insensitive
// comparison:
//   - trims leading/trailing whitespace
//   - converts to lowercase
//   - collapses any run of whitespace into a single space
//
// Diacritics, hyphens, and apostrophes are preserved. The exact-match
// shortcut compares guesses and themes in this form.
func NormalizeText(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	text = strings.ToLower(text)

	var b strings.Builder
	b.Grow(len(text))
	prevSpace := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			if prevSpace {
				continue
			}
			prevSpace = true
			b.WriteRune(' ')
			continue
		}
		prevSpace = false
		b.WriteRune(r)
	}
	return b.String()
}
