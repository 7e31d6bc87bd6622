package lifecycle

import "strings"

// NormalizeTag is the single tag normalization used everywhere tags are
// compared: trimmed and lowercased.
func NormalizeTag(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ParseTags splits a comma-separated tag string into normalized, deduplicated
// tags, preserving first-seen order.
func ParseTags(s string) []string {
	seen := make(map[string]bool)
	var tags []string
	for _, part := range strings.Split(s, ",") {
		tag := NormalizeTag(part)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	return tags
}

// TagSet returns the normalized tags as a membership set.
func TagSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, tag := range ParseTags(s) {
		set[tag] = true
	}
	return set
}
