package extract

import (
	"strings"

	"study-notes/internal/domain/entity"
	"study-notes/internal/utils/text"
)

var questionIndicators = []string{"what", "how", "why", "explain", "describe", "calculate"}

var conceptualMarkers = []string{"what", "how", "why"}

// Questions returns the sentences whose lowercased text starts with a question
// indicator. Matching is by plain prefix, so "however" opens with "how".
// A question is conceptual when what, how or why appears anywhere in it,
// including inside a longer word, else practical.
func Questions(doc *entity.Document) []entity.Question {
	var out []entity.Question
	for _, s := range doc.Sentences {
		cleaned := text.Clean(s.Text)
		lower := strings.ToLower(cleaned)
		if !startsWithIndicator(lower) {
			continue
		}
		qType := entity.QuestionPractical
		if containsAny(lower, conceptualMarkers) {
			qType = entity.QuestionConceptual
		}
		out = append(out, entity.Question{Question: cleaned, Type: qType})
	}
	return out
}

func startsWithIndicator(lower string) bool {
	for _, ind := range questionIndicators {
		if strings.HasPrefix(lower, ind) {
			return true
		}
	}
	return false
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
