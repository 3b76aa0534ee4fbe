package text

import (
	"regexp"
	"strings"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	bulletMarker  = regexp.MustCompile(`(?m)^\s*[-•]\s*`)
	numberMarker  = regexp.MustCompile(`(?m)^\s*(\d+)\.\s*`)
)

// Clean normalizes whitespace and list markers.
//
// Runs of whitespace collapse to one space and the result is trimmed. A "-" or "•"
// marker at line start becomes "• ", and "<n>." at line start becomes "<n>. ".
// Clean is idempotent: Clean(Clean(s)) == Clean(s).
func Clean(s string) string {
	s = whitespaceRun.ReplaceAllString(strings.TrimSpace(s), " ")
	s = bulletMarker.ReplaceAllString(s, "• ")
	s = numberMarker.ReplaceAllString(s, "${1}. ")
	return s
}
