package utils

import (
	"regexp"
	"strings"
)

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify turns a brand name into a file-name-safe token.
// Example: "Café Luna & Co." -> "caf-luna-co"
// Returns fallback when nothing usable remains.
func Slugify(name, fallback string) string {
	s := nonSlug.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
	s = strings.Trim(s, "-")
	if len(s) > 48 {
		s = strings.TrimRight(s[:48], "-")
	}
	if s == "" {
		return fallback
	}
	return s
}
