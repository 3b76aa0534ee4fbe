package notes

import (
	"context"
	"regexp"
	"strings"

	"study-notes/internal/domain/entity"
)

var (
	fakeSentencePattern = regexp.MustCompile(`[^.!?]+(?:[.!?]+|$)`)
	fakeTokenPattern    = regexp.MustCompile(`[A-Za-z0-9']+|[^\sA-Za-z0-9']`)
	fakeStopwords       = map[string]bool{
		"the": true, "a": true, "an": true, "is": true, "are": true, "of": true,
		"and": true, "to": true, "in": true, "it": true, "on": true, "as": true,
	}
)

// fakeAnnotator splits lines into sentences on terminal punctuation and
// tags capitalized words PROPN, other words NOUN.
type fakeAnnotator struct {
	annotateFn func(ctx context.Context, text string) (*entity.Document, error)
}

func (a *fakeAnnotator) Annotate(ctx context.Context, text string) (*entity.Document, error) {
	if a.annotateFn != nil {
		return a.annotateFn(ctx, text)
	}
	return fakeDocument(text), nil
}

func fakeDocument(text string) *entity.Document {
	doc := &entity.Document{}
	for _, line := range strings.Split(text, "\n") {
		for _, raw := range fakeSentencePattern.FindAllString(line, -1) {
			s := strings.TrimSpace(raw)
			if s == "" {
				continue
			}
			sentence := entity.Sentence{Text: s}
			for i, loc := range fakeTokenPattern.FindAllStringIndex(s, -1) {
				word := s[loc[0]:loc[1]]
				pos := entity.PosNoun
				switch {
				case !strings.ContainsAny(strings.ToLower(word), "abcdefghijklmnopqrstuvwxyz0123456789"):
					pos = entity.PosPunct
				case i > 0 && word[0] >= 'A' && word[0] <= 'Z':
					pos = entity.PosPropn
				}
				sentence.Tokens = append(sentence.Tokens, entity.Token{
					Text:   word,
					POS:    pos,
					IsStop: fakeStopwords[strings.ToLower(word)],
					Span:   entity.Span{Start: loc[0], End: loc[1]},
				})
			}
			doc.Sentences = append(doc.Sentences, sentence)
		}
	}
	return doc
}

// mockModel implements SummarizationModel for testing.
type mockModel struct {
	summarizeFn func(ctx context.Context, text string, maxLen, minLen int) (string, error)
}

func (m *mockModel) Summarize(ctx context.Context, text string, maxLen, minLen int) (string, error) {
	if m.summarizeFn != nil {
		return m.summarizeFn(ctx, text, maxLen, minLen)
	}
	first := fakeSentencePattern.FindString(text)
	return strings.TrimSpace(first), nil
}

// mockClassifier implements SentimentClassifier for testing.
type mockClassifier struct {
	classifyFn func(ctx context.Context, text string) (entity.Sentiment, error)
}

func (m *mockClassifier) Classify(ctx context.Context, text string) (entity.Sentiment, error) {
	if m.classifyFn != nil {
		return m.classifyFn(ctx, text)
	}
	return entity.Sentiment{Label: entity.SentimentNeutral, Confidence: 0.5}, nil
}
