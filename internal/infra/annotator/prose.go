package annotator

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/jdkato/prose/v2"

	"study-notes/internal/domain/entity"
)

// Prose annotates text in process with prose's segmenter, tagger and
// named-entity model.
type Prose struct {
	logger *slog.Logger
}

// NewProse returns a local annotator. A nil logger uses slog.Default().
func NewProse(logger *slog.Logger) *Prose {
	if logger == nil {
		logger = slog.Default()
	}
	return &Prose{logger: logger}
}

// Annotate splits text into lines and each line into sentences, then
// annotates every sentence. A numbered or bulleted line stays one sentence.
// Token, entity and noun phrase spans are byte offsets into the sentence text.
func (p *Prose) Annotate(ctx context.Context, text string) (*entity.Document, error) {
	doc := &entity.Document{}
	for _, line := range strings.Split(text, "\n") {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		sentences, err := splitLine(line)
		if err != nil {
			return nil, err
		}
		for _, sentence := range sentences {
			annotated, err := p.annotateSentence(sentence)
			if err != nil {
				return nil, err
			}
			doc.Sentences = append(doc.Sentences, annotated)
		}
	}

	p.logger.DebugContext(ctx, "text annotated",
		slog.Int("sentences", len(doc.Sentences)),
		slog.Int("entities", len(doc.Entities())))
	return doc, nil
}

func (p *Prose) annotateSentence(text string) (entity.Sentence, error) {
	pd, err := prose.NewDocument(text, prose.WithSegmentation(false))
	if err != nil {
		return entity.Sentence{}, fmt.Errorf("annotate sentence: %w", err)
	}

	s := entity.Sentence{Text: text}

	cursor := 0
	for _, tok := range pd.Tokens() {
		span, ok := locate(text, tok.Text, cursor)
		if !ok {
			p.logger.Debug("token not found in sentence", slog.String("token", tok.Text))
			continue
		}
		cursor = span.End
		s.Tokens = append(s.Tokens, entity.Token{
			Text:   tok.Text,
			POS:    CoarseTag(tok.Tag, tok.Text),
			IsStop: IsStopword(tok.Text),
			Span:   span,
		})
	}

	cursor = 0
	for _, ent := range pd.Entities() {
		span, ok := locate(text, ent.Text, cursor)
		if !ok {
			continue
		}
		cursor = span.End
		s.Entities = append(s.Entities, entity.Entity{
			Text:  ent.Text,
			Label: strings.ToUpper(ent.Label),
			Span:  span,
		})
	}

	s.NounPhrases = ChunkNounPhrases(text, s.Tokens)
	return s, nil
}

// locate finds needle in text at or after from.
func locate(text, needle string, from int) (entity.Span, bool) {
	if needle == "" || from > len(text) {
		return entity.Span{}, false
	}
	idx := strings.Index(text[from:], needle)
	if idx < 0 {
		return entity.Span{}, false
	}
	start := from + idx
	return entity.Span{Start: start, End: start + len(needle)}, true
}

var listItem = regexp.MustCompile(`^(\d+\.|[-*•])\s+\S`)

// splitLine segments a single line. Blank lines yield nothing.
func splitLine(line string) ([]string, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, nil
	}
	if listItem.MatchString(line) {
		return []string{line}, nil
	}

	seg, err := prose.NewDocument(line, prose.WithTagging(false), prose.WithExtraction(false))
	if err != nil {
		return nil, fmt.Errorf("segment text: %w", err)
	}
	var out []string
	for _, raw := range seg.Sentences() {
		if sentence := strings.TrimSpace(raw.Text); sentence != "" {
			out = append(out, sentence)
		}
	}
	return out, nil
}
