package dashboard

import (
	"strings"
	"unicode"
)

// Slugify converts a display name to a URL-safe path segment: lowercase,
// with every run of non-alphanumeric characters collapsed to a single
// hyphen and leading/trailing hyphens trimmed.
//
//	"Living Room"  -> "living-room"
//	"  Attic / 2 " -> "attic-2"
func Slugify(text string) string {
	var b strings.Builder
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteByte('-')
		}
	}
	parts := strings.FieldsFunc(b.String(), func(r rune) bool { return r == '-' })
	return strings.Join(parts, "-")
}
