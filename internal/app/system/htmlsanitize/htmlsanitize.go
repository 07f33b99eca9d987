// Package htmlsanitize cleans text that arrives from outside the process
// before it is rendered into pages, chart labels or exports.
package htmlsanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// strict removes every element and attribute, keeping only text content.
var strict = bluemonday.StrictPolicy()

// StripTags returns s with all markup removed and surrounding space trimmed.
// Entities are decoded again afterwards so that html/template and
// encoding/json escape the result exactly once.
func StripTags(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

// IsPlainText reports whether s contains no HTML tags.
func IsPlainText(s string) bool {
	return !strings.ContainsAny(s, "<>")
}
