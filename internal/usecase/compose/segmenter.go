package compose

import (
	"strings"

	"study-notes/internal/domain/entity"
	"study-notes/internal/utils/text"
)

// DefaultSegmentWords is the default segment cap, in words.
const DefaultSegmentWords = 1024

// Segment greedily packs the sentences of doc into segments of at most
// maxWords words. A segment is closed when the next sentence would overflow it.
// A sentence longer than maxWords forms its own oversized segment; nothing is
// truncated. Blank sentences are skipped, so a blank document has no segments.
func Segment(doc *entity.Document, maxWords int) []string {
	if maxWords <= 0 {
		maxWords = DefaultSegmentWords
	}

	var (
		segments []string
		current  []string
		words    int
	)
	for _, s := range doc.Sentences {
		sentence := strings.TrimSpace(s.Text)
		if sentence == "" {
			continue
		}
		n := text.CountWords(sentence)
		if len(current) > 0 && words+n > maxWords {
			segments = append(segments, strings.Join(current, " "))
			current, words = nil, 0
		}
		current = append(current, sentence)
		words += n
	}
	if len(current) > 0 {
		segments = append(segments, strings.Join(current, " "))
	}
	return segments
}
