package engine

import "strings"

// Normalize canonicalizes a display name into a comparison key: lowercase,
// leading/trailing whitespace trimmed, doubled spaces collapsed to one.
// An absent name yields the empty string. The key is used only for comparison
// and for suggestion display, never as a persisted identity.
//
// Only the literal two-space sequence is collapsed, and only once per
// occurrence, so "a    b" normalizes to "a  b". Downstream consumers depend
// on this exact behavior.
func Normalize(name string) string {
	n := strings.ToLower(name)
	n = strings.TrimSpace(n)
	return strings.ReplaceAll(n, "  ", " ")
}
