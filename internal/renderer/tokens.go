package renderer

import (
	"regexp"
)

var tokenPattern = regexp.MustCompile(`\{\{\s*([a-zA-Z0-9_.]+)\s*\}\}`)

// RenderTokens substitutes {{ key }} tokens in a raw template with values
// from a flat map. Tokens without a matching key stay verbatim; nil-ish
// values are handled by the caller storing empty strings.
func RenderTokens(template string, values map[string]string) string {
	return tokenPattern.ReplaceAllStringFunc(template, func(token string) string {
		key := tokenPattern.FindStringSubmatch(token)[1]
		if value, ok := values[key]; ok {
			return value
		}
		return token
	})
}
