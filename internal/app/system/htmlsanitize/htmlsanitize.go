// Package htmlsanitize guards user-entered text that clients render.
// Text is stored as entered; input the strict policy would alter is
// refused rather than silently cut down.
package htmlsanitize

import (
	"errors"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// ErrMarkup reports text that is not plain text to the strict policy.
var ErrMarkup = errors.New("htmlsanitize: text contains markup")

var strict = bluemonday.StrictPolicy()

// PlainText strips all tags, decodes entities and trims whitespace.
func PlainText(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

// Check returns s trimmed when stripping markup would leave it unchanged,
// and ErrMarkup otherwise.
func Check(s string) (string, error) {
	t := strings.TrimSpace(s)
	if PlainText(t) != t {
		return "", ErrMarkup
	}
	return t, nil
}
