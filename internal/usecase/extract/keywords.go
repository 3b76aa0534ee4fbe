package extract

import (
	"sort"
	"strings"
	"unicode/utf8"

	"study-notes/internal/domain/entity"
)

var keywordPOS = map[string]bool{
	entity.PosNoun:  true,
	entity.PosPropn: true,
	entity.PosVerb:  true,
	entity.PosAdj:   true,
}

// Keywords returns up to topN keywords: entities, then noun phrases not already
// covered by a keyword, then content words not already covered. Keywords are
// ranked by how often their lowercase form was collected, then by length.
func Keywords(doc *entity.Document, topN int) []string {
	if topN <= 0 {
		topN = DefaultTopKeyPoints
	}

	var collected []string
	covered := func(candidate string) bool {
		lc := strings.ToLower(candidate)
		for _, k := range collected {
			if strings.Contains(strings.ToLower(k), lc) {
				return true
			}
		}
		return false
	}

	for _, ent := range doc.Entities() {
		collected = append(collected, ent.Text)
	}
	for _, s := range doc.Sentences {
		for _, np := range s.NounPhrases {
			if !covered(np.Text) {
				collected = append(collected, np.Text)
			}
		}
	}
	for _, s := range doc.Sentences {
		for _, tok := range s.Tokens {
			if !keywordPOS[tok.POS] || tok.IsStop || utf8.RuneCountInString(tok.Text) <= 1 {
				continue
			}
			if !covered(tok.Text) {
				collected = append(collected, tok.Text)
			}
		}
	}

	counts := make(map[string]int)
	var unique []string
	seen := make(map[string]bool)
	for _, k := range collected {
		counts[strings.ToLower(k)]++
		if !seen[k] {
			seen[k] = true
			unique = append(unique, k)
		}
	}

	sort.SliceStable(unique, func(i, j int) bool {
		ci, cj := counts[strings.ToLower(unique[i])], counts[strings.ToLower(unique[j])]
		if ci != cj {
			return ci > cj
		}
		return len(unique[i]) > len(unique[j])
	})
	if len(unique) > topN {
		unique = unique[:topN]
	}
	return unique
}
