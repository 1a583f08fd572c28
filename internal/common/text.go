package common

import (
	"regexp"
	"strings"
)

var (
	whitespace = regexp.MustCompile(`\s+`)
	nonAlnum   = regexp.MustCompile(`[^a-z0-9]+`)
)

// Squish collapses runs of whitespace into single spaces and trims the ends.
func Squish(s string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}

// Truncate returns at most n runes of s.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// TrimTo squishes s and, when it is longer than max runes, cuts it to
// max-1 runes followed by "...".
func TrimTo(s string, max int) string {
	clean := Squish(s)
	if len([]rune(clean)) <= max {
		return clean
	}
	return strings.TrimSpace(Truncate(clean, max-1)) + "..."
}

// Slugify lowercases s and joins its alphanumeric runs with hyphens.
func Slugify(s string) string {
	return strings.Trim(nonAlnum.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

// NormalizeKey lowercases s and removes everything but letters and digits.
func NormalizeKey(s string) string {
	return nonAlnum.ReplaceAllString(strings.ToLower(s), "")
}

// Tokens splits s on non-alphanumerics after lowercasing.
func Tokens(s string) []string {
	var out []string
	for _, t := range nonAlnum.Split(strings.ToLower(s), -1) {
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
