// Package normalize provides text folding for search matching.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Fold lowers a string to a canonical search form: unicode-decomposed,
// combining marks stripped, lowercased. "Fjällräven" and "fjallraven"
// fold to the same value so description search is accent-insensitive.
func Fold(s string) string {
	s = norm.NFKD.String(s)
	s = strings.Map(func(r rune) rune {
		if unicode.Is(unicode.Mn, r) {
			return -1
		}
		return r
	}, s)
	return strings.ToLower(s)
}

// ContainsFold reports whether haystack contains needle after folding both.
// An empty needle matches everything.
func ContainsFold(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(Fold(haystack), Fold(needle))
}
