// Package format renders extracted points as indented bullet text.
package format

import (
	"regexp"
	"strings"

	"study-notes/internal/utils/text"
)

const (
	levelIndent = "  "
	subIndent   = "    "
)

var numberedItem = regexp.MustCompile(`^\d+\.\s+\S`)

// Bullets renders points one per line, tracking the current section.
//
//   - "Header:" is written as is and indents the points that follow it.
//   - "1. item" becomes a numbered sub-item one level deeper.
//   - "main: a, b" becomes a bullet for main with "- a" and "- b" beneath it,
//     unless the raw point spans several lines.
//   - Anything else is a "• " bullet at the current level.
//
// Points are cleaned first, an existing bullet marker is dropped and blank
// points are skipped.
func Bullets(points []string, indent string) string {
	if len(points) == 0 {
		return ""
	}

	current := indent
	var lines []string
	for _, raw := range points {
		point := strings.TrimPrefix(text.Clean(raw), "• ")
		switch {
		case point == "":
			continue
		case strings.HasSuffix(point, ":"):
			lines = append(lines, indent+point)
			current = indent + levelIndent
		case numberedItem.MatchString(point):
			lines = append(lines, current+levelIndent+point)
		case strings.Contains(point, ":") && !strings.ContainsAny(raw, "\r\n"):
			lines = append(lines, splitPoint(current, point)...)
		default:
			lines = append(lines, current+"• "+point)
		}
	}
	return strings.Join(lines, "\n")
}

// splitPoint renders "main: a, b" as a bullet plus dash sub-points.
func splitPoint(current, point string) []string {
	main, rest, _ := strings.Cut(point, ":")
	lines := []string{current + "• " + strings.TrimSpace(main)}
	for _, sub := range strings.Split(rest, ",") {
		if sub = strings.TrimSpace(sub); sub != "" {
			lines = append(lines, current+subIndent+"- "+sub)
		}
	}
	return lines
}
