package textutil

import (
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// NormalizeName lowercases a display name and strips all whitespace,
// making substring matching immune to spacing differences.
func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.TrimSpace(name)
	return whitespaceRegex.ReplaceAllString(name, "")
}

// ContainsName reports whether haystack contains needle after both
// are normalized.
func ContainsName(haystack, needle string) bool {
	return strings.Contains(NormalizeName(haystack), NormalizeName(needle))
}
