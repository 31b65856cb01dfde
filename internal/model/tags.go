package model

import "strings"

// TagMapping maps raw tag names to their canonical form. Keys are stored
// trimmed; values are used verbatim, whitespace included, so the mapping
// table stays the source of truth even when an entry carries a known
// formatting mistake.
type TagMapping map[string]string

// Canonical returns the canonical form of a raw tag. Lookup is by the
// trimmed raw value; tags absent from the mapping pass through trimmed
// but otherwise unchanged.
func (m TagMapping) Canonical(raw string) string {
	key := strings.TrimSpace(raw)
	if mapped, ok := m[key]; ok {
		return mapped
	}
	return key
}

// TagCount pairs a canonical tag with the number of output rows carrying it.
type TagCount struct {
	TagName string
	Count   int
}
