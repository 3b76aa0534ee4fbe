package extract

import (
	"sort"
	"strings"

	"study-notes/internal/domain/entity"
	"study-notes/internal/utils/text"
)

// DefaultNumMainPoints is the number of main points returned when n <= 0.
const DefaultNumMainPoints = 5

// MainPoints ranks sentences of at least five tokens by keyword density,
// position and length:
//
//	0.5*keywordHits + 0.3/(position+1) + 0.2*(1.0 if 10 <= tokens <= 30 else 0.7)
func MainPoints(doc *entity.Document, n int) []string {
	if n <= 0 {
		n = DefaultNumMainPoints
	}

	keywordSet := make(map[string]bool)
	for _, k := range Keywords(doc, DefaultTopKeyPoints) {
		keywordSet[strings.ToLower(k)] = true
	}

	type candidate struct {
		text  string
		score float64
	}
	var candidates []candidate
	for i, s := range doc.Sentences {
		length := len(s.Tokens)
		if length < 5 {
			continue
		}
		hits := 0
		for _, tok := range s.Tokens {
			if keywordSet[strings.ToLower(tok.Text)] {
				hits++
			}
		}
		lengthScore := 0.7
		if length >= 10 && length <= 30 {
			lengthScore = 1.0
		}
		score := float64(hits)*0.5 + 0.3/float64(i+1) + lengthScore*0.2
		candidates = append(candidates, candidate{text: text.Clean(s.Text), score: score})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	if len(candidates) > n {
		candidates = candidates[:n]
	}

	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.text)
	}
	return out
}
