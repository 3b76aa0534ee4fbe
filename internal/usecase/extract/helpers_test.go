package extract

import (
	"context"
	"regexp"
	"strings"

	"study-notes/internal/domain/entity"
)

var testTokenPattern = regexp.MustCompile(`[A-Za-z0-9'^*/+=-]+|[^\sA-Za-z0-9]`)

var testStopwords = map[string]bool{
	"the": true, "a": true, "an": true, "is": true, "are": true, "of": true, "and": true,
	"it": true, "to": true, "in": true, "this": true, "be": true, "by": true, "from": true,
}

// sent builds a sentence whose tokens are tagged X (or PUNCT) with stopword flags.
func sent(text string) entity.Sentence {
	s := entity.Sentence{Text: text}
	for _, loc := range testTokenPattern.FindAllStringIndex(text, -1) {
		word := text[loc[0]:loc[1]]
		pos := entity.PosOther
		if !strings.ContainsAny(word, "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789") {
			pos = entity.PosPunct
		}
		s.Tokens = append(s.Tokens, entity.Token{
			Text:   word,
			POS:    pos,
			IsStop: testStopwords[strings.ToLower(word)],
			Span:   entity.Span{Start: loc[0], End: loc[1]},
		})
	}
	return s
}

// tag sets the POS of every token whose text equals word.
func tag(s entity.Sentence, pos string, words ...string) entity.Sentence {
	for _, w := range words {
		for i := range s.Tokens {
			if s.Tokens[i].Text == w {
				s.Tokens[i].POS = pos
			}
		}
	}
	return s
}

func withEntity(s entity.Sentence, text, label string) entity.Sentence {
	start := strings.Index(s.Text, text)
	s.Entities = append(s.Entities, entity.Entity{
		Text: text, Label: label, Span: entity.Span{Start: start, End: start + len(text)},
	})
	return s
}

func withPhrase(s entity.Sentence, text string) entity.Sentence {
	start := strings.Index(s.Text, text)
	span := entity.Span{Start: start, End: start + len(text)}
	if start < 0 {
		span = entity.Span{}
	}
	s.NounPhrases = append(s.NounPhrases, entity.NounPhrase{Text: text, Span: span})
	return s
}

func docOf(sentences ...entity.Sentence) *entity.Document {
	return &entity.Document{Sentences: sentences}
}

func plainDoc(texts ...string) *entity.Document {
	d := &entity.Document{}
	for _, t := range texts {
		d.Sentences = append(d.Sentences, sent(t))
	}
	return d
}

// mockClassifier implements Classifier for testing.
type mockClassifier struct {
	classifyFn func(ctx context.Context, text string) (entity.Sentiment, error)
	calls      []string
}

func (m *mockClassifier) Classify(ctx context.Context, text string) (entity.Sentiment, error) {
	m.calls = append(m.calls, text)
	if m.classifyFn != nil {
		return m.classifyFn(ctx, text)
	}
	return entity.Sentiment{Label: entity.SentimentPositive, Confidence: 0.9}, nil
}
