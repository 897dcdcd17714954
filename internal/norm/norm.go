// Package norm canonicalizes text for comparison. Every key lookup and
// substring match in the search subsystem goes through this package, so
// queries are case-insensitive and whitespace-insensitive while stored
// values keep their original form.
package norm

import "strings"

// Normalize lowercases s, trims surrounding whitespace, and collapses
// internal whitespace runs to single spaces.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Contains reports whether needle occurs in haystack after both are
// normalized.
func Contains(haystack, needle string) bool {
	return strings.Contains(Normalize(haystack), Normalize(needle))
}

// Equal reports whether a and b are the same string after normalization.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}
