package validation

import (
	"html"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

var strictHTMLPolicy = bluemonday.StrictPolicy()

// SanitizeText removes all HTML tags from s before it is stored. bluemonday
// escapes what it keeps, so entities are decoded back; the report template
// escapes on output.
func SanitizeText(s string) string {
	return html.UnescapeString(strictHTMLPolicy.Sanitize(s))
}

// StripUnprintable removes non-printable characters, allowing common whitespace
// like space, tab, newline, and carriage return.
func StripUnprintable(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) || r == '\t' || r == '\n' || r == '\r' {
			return r
		}
		return -1
	}, s)
}

// CleanText trims, strips unprintable characters and removes markup.
func CleanText(s string) string {
	return strings.TrimSpace(SanitizeText(StripUnprintable(s)))
}
