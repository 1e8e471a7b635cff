package utils

import (
	"regexp"
	"strings"
)

// slugPattern: lowercase alphanumeric runs joined by single hyphens. No
// leading/trailing/double hyphens.
var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

const (
	SlugMinLength = 3
	SlugMaxLength = 30
)

// ValidSlug reports whether s satisfies the published-URL slug grammar.
func ValidSlug(s string) bool {
	if len(s) < SlugMinLength || len(s) > SlugMaxLength {
		return false
	}
	return slugPattern.MatchString(s)
}

// GenerateSlug normalizes free-form input into slug form. The result is not
// guaranteed to satisfy the length bounds; callers validate with ValidSlug.
func GenerateSlug(input string) string {
	lower := strings.ToLower(input)
	hyphenated := strings.ReplaceAll(lower, " ", "-")

	cleaned := regexp.MustCompile(`[^a-z0-9-]+`).ReplaceAllString(hyphenated, "")
	normalized := regexp.MustCompile(`-+`).ReplaceAllString(cleaned, "-")

	return strings.Trim(normalized, "-")
}
