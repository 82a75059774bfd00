// Package slug derives URL identifiers from blog titles.
package slug

import (
	"regexp"
	"strconv"
	"strings"
)

var nonWord = regexp.MustCompile(`[^\w-]`)

// Make lower-cases title, turns spaces into hyphens and strips every character
// that is not a word character or a hyphen.
func Make(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = strings.ReplaceAll(s, " ", "-")
	return nonWord.ReplaceAllString(s, "")
}

// WithSuffix returns base with a numeric suffix used to resolve collisions:
// n <= 1 yields base itself, otherwise "base-n".
func WithSuffix(base string, n int) string {
	if n <= 1 {
		return base
	}
	return base + "-" + strconv.Itoa(n)
}
