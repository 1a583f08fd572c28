package common

import (
	"regexp"
	"strings"
)

var listSeparator = regexp.MustCompile(`[\n,]+`)

// placeholders are answers users type when they have nothing to list.
var placeholders = map[string]bool{"none": true, "n/a": true, "na": true}

// SplitList turns a free-text list into items. Items are separated by
// newlines or commas; blanks and placeholder answers are dropped.
func SplitList(raw string) []string {
	items := []string{}
	for _, part := range listSeparator.Split(raw, -1) {
		item := strings.TrimSpace(part)
		if item == "" || placeholders[strings.ToLower(item)] {
			continue
		}
		items = append(items, item)
	}
	return items
}

// DedupeBy keeps the first item for every key. Items with an empty key are
// dropped.
func DedupeBy[T any](items []T, key func(T) string) []T {
	seen := make(map[string]bool, len(items))
	out := make([]T, 0, len(items))
	for _, item := range items {
		k := key(item)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, item)
	}
	return out
}
