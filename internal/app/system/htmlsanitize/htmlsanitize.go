// Package htmlsanitize reduces HTML that reaches the console from outside,
// such as a proxy's error page, to plain text.
package htmlsanitize

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictOnce sync.Once
	strict     *bluemonday.Policy
)

func policy() *bluemonday.Policy {
	strictOnce.Do(func() {
		strict = bluemonday.StrictPolicy().AddSpaceWhenStrippingTag(true)
	})
	return strict
}

// maxTextLen caps the excerpt kept for logs.
const maxTextLen = 500

// Text strips every tag from an HTML document and returns its text on one
// line, capped at maxTextLen runes. It is meant for markup. Strings that are
// already plain text should be shown as they are and left to template
// escaping.
func Text(s string) string {
	if s == "" {
		return ""
	}
	out := html.UnescapeString(policy().Sanitize(s))
	out = strings.Join(strings.Fields(out), " ")
	if r := []rune(out); len(r) > maxTextLen {
		out = string(r[:maxTextLen-1]) + "…"
	}
	return out
}
