package compose

import (
	"context"
	"regexp"
	"strings"

	"study-notes/internal/domain/entity"
)

var testSentencePattern = regexp.MustCompile(`[^.!?]+[.!?]*`)

// splitAnnotator is a minimal Annotator that splits on sentence punctuation
// and tokenizes on whitespace.
type splitAnnotator struct {
	annotateFn func(ctx context.Context, text string) (*entity.Document, error)
}

func (a *splitAnnotator) Annotate(ctx context.Context, text string) (*entity.Document, error) {
	if a.annotateFn != nil {
		return a.annotateFn(ctx, text)
	}
	return docFromText(text), nil
}

func docFromText(text string) *entity.Document {
	doc := &entity.Document{}
	for _, raw := range testSentencePattern.FindAllString(text, -1) {
		s := strings.TrimSpace(raw)
		if s == "" {
			continue
		}
		sentence := entity.Sentence{Text: s}
		for _, w := range strings.Fields(s) {
			sentence.Tokens = append(sentence.Tokens, entity.Token{Text: w, POS: entity.PosOther})
		}
		doc.Sentences = append(doc.Sentences, sentence)
	}
	return doc
}

// mockModel implements Model for testing.
type mockModel struct {
	summarizeFn func(ctx context.Context, text string, maxLen, minLen int) (string, error)
	inputs      []string
}

func (m *mockModel) Summarize(ctx context.Context, text string, maxLen, minLen int) (string, error) {
	m.inputs = append(m.inputs, text)
	if m.summarizeFn != nil {
		return m.summarizeFn(ctx, text, maxLen, minLen)
	}
	return "Summary of " + strings.Fields(text)[0] + ".", nil
}
