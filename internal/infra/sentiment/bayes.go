package sentiment

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode"

	"github.com/cdipaolo/sentiment"

	"study-notes/internal/domain/entity"
)

// DefaultNeutralBelow is the class probability under which a verdict is
// reported as neutral.
const DefaultNeutralBelow = 0.6

// Bayes classifies locally with the pretrained naive Bayes model shipped in
// github.com/cdipaolo/sentiment. The model is binary, so a weak verdict maps
// to neutral.
type Bayes struct {
	// mu serializes calls; the model's text sanitizer is stateful.
	mu           sync.Mutex
	models       sentiment.Models
	neutralBelow float64
}

// NewBayes restores the embedded model. Restoring takes a moment, so callers
// build one Bayes and share it.
func NewBayes() (*Bayes, error) {
	models, err := sentiment.Restore()
	if err != nil {
		return nil, fmt.Errorf("restore sentiment model: %w", err)
	}
	if models[sentiment.English] == nil {
		return nil, fmt.Errorf("restore sentiment model: no english model")
	}
	return &Bayes{models: models, neutralBelow: DefaultNeutralBelow}, nil
}

// Classify implements notes.SentimentClassifier.
func (b *Bayes) Classify(ctx context.Context, input string) (entity.Sentiment, error) {
	if err := ctx.Err(); err != nil {
		return entity.Sentiment{}, err
	}
	if !strings.ContainsFunc(input, unicode.IsLetter) {
		return entity.Sentiment{Label: entity.SentimentNeutral, Confidence: 1}, nil
	}

	b.mu.Lock()
	class, p := b.models[sentiment.English].Probability(strings.ToLower(input))
	b.mu.Unlock()

	return verdict(class, p, b.neutralBelow), nil
}

// verdict maps the model's binary class (1 positive, 0 negative) and its
// probability onto the three labels.
func verdict(class uint8, p, neutralBelow float64) entity.Sentiment {
	switch {
	case p < neutralBelow:
		return entity.Sentiment{Label: entity.SentimentNeutral, Confidence: 1 - p}
	case class == 1:
		return entity.Sentiment{Label: entity.SentimentPositive, Confidence: p}
	default:
		return entity.Sentiment{Label: entity.SentimentNegative, Confidence: p}
	}
}
