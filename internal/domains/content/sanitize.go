package content

import (
	"regexp"
)

// Best-effort HTML filtering for user-authored rich text: strip <script>
// blocks and inline on*= event handlers, leave everything else alone. This
// is not a security boundary for untrusted markup beyond that.
var (
	scriptBlockPattern = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script\s*>`)
	scriptTagPattern   = regexp.MustCompile(`(?i)</?script\b[^>]*>`)
	eventAttrPattern   = regexp.MustCompile(`(?i)\s+on[a-z]+\s*=\s*(?:"[^"]*"|'[^']*'|[^\s>]+)`)
)

// SanitizeHTML filters an html-typed patch value before storage.
func SanitizeHTML(s string) string {
	s = scriptBlockPattern.ReplaceAllString(s, "")
	s = scriptTagPattern.ReplaceAllString(s, "")
	s = eventAttrPattern.ReplaceAllString(s, "")
	return s
}
