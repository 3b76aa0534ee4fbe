// Package text provides utilities for text processing and analysis.
// It holds the normalizer used by every downstream formatter and the
// counting helpers used for budgets, validation and logging.
package text

import "strings"

// CountRunes counts the number of Unicode characters (runes) in the given text.
// Multi-byte characters count once each.
//
// Examples:
//
//	CountRunes("hello")     // returns 5
//	CountRunes("héllo")     // returns 5
//	CountRunes("")          // returns 0
func CountRunes(text string) int {
	return len([]rune(text))
}

// CountWords counts whitespace-separated words. This is the word count reported
// in every notes result and the one the input size limit is checked against.
//
// Examples:
//
//	CountWords("F = ma")        // returns 3
//	CountWords("  a\n\tb  ")    // returns 2
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// TruncateRunes returns the first n runes of s.
func TruncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
