package extract

import (
	"sort"
	"strings"

	"study-notes/internal/domain/entity"
	"study-notes/internal/utils/text"
)

// DefaultTopKeyPoints is the number of top-scored sentences considered for key points.
const DefaultTopKeyPoints = 10

var keyPointLabels = map[string]bool{
	entity.LabelPerson:  true,
	entity.LabelOrg:     true,
	entity.LabelGPE:     true,
	entity.LabelProduct: true,
	entity.LabelEvent:   true,
	entity.LabelTech:    true,
}

var keyTerms = []string{"key", "main", "important", "significant"}

// ScoreSentences scores every sentence of doc for key-point selection.
//
//	+1 per allow-listed entity
//	+1 per non-stopword verb
//	+2 when the word count is within [10, 30]
//	+3 for the first sentence or a sentence ending in ':'
//	+2 when it mentions key, main, important or significant
func ScoreSentences(doc *entity.Document) []entity.ScoredSentence {
	scored := make([]entity.ScoredSentence, 0, len(doc.Sentences))
	for i, s := range doc.Sentences {
		score := 0
		for _, ent := range s.Entities {
			if keyPointLabels[ent.Label] {
				score++
			}
		}
		for _, tok := range s.Tokens {
			if tok.POS == entity.PosVerb && !tok.IsStop {
				score++
			}
		}
		if n := s.WordCount(); n >= 10 && n <= 30 {
			score += 2
		}
		if i == 0 || strings.HasSuffix(strings.TrimSpace(s.Text), ":") {
			score += 3
		}
		lower := strings.ToLower(s.Text)
		for _, term := range keyTerms {
			if strings.Contains(lower, term) {
				score += 2
				break
			}
		}
		scored = append(scored, entity.ScoredSentence{Text: text.Clean(s.Text), Score: score, Index: i})
	}
	return scored
}

// KeyPoints returns the key points of doc, shortest first.
//
// Multi-word allow-listed entities are accumulated first, then the topN best
// sentences in score order (ties keep reading order). A candidate is retained
// only if no retained point already contains it; retaining it evicts any
// earlier point it strictly contains, so no result is a substring of another.
func KeyPoints(doc *entity.Document, topN int) []string {
	if topN <= 0 {
		topN = DefaultTopKeyPoints
	}

	var acc pointSet
	for _, ent := range doc.Entities() {
		if !keyPointLabels[ent.Label] {
			continue
		}
		if cleaned := text.Clean(ent.Text); text.CountWords(cleaned) >= 2 {
			acc.insert(cleaned)
		}
	}

	scored := ScoreSentences(doc)
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if len(scored) > topN {
		scored = scored[:topN]
	}

	for _, s := range scored {
		if s.Text != "" && text.CountWords(s.Text) > 3 {
			acc.insert(s.Text)
		}
	}

	points := acc.items()
	sort.SliceStable(points, func(i, j int) bool {
		return len(points[i]) < len(points[j])
	})
	return points
}

// pointSet is an ordered accumulation of points with containment-based dedup.
type pointSet struct {
	points []string
}

func (p *pointSet) insert(candidate string) bool {
	for _, existing := range p.points {
		if strings.Contains(existing, candidate) {
			return false
		}
	}
	kept := p.points[:0]
	for _, existing := range p.points {
		if !strings.Contains(candidate, existing) {
			kept = append(kept, existing)
		}
	}
	p.points = append(kept, candidate)
	return true
}

func (p *pointSet) items() []string {
	out := make([]string, len(p.points))
	copy(out, p.points)
	return out
}
