// Package notes is the top-level notes pipeline: it validates a request,
// annotates the text, runs the summary composer and the signal extractors,
// and assembles the result variant for the requested mode.
package notes

import (
	"context"

	"study-notes/internal/domain/entity"
)

// Annotator turns raw text into an annotated document.
type Annotator interface {
	Annotate(ctx context.Context, text string) (*entity.Document, error)
}

// SummarizationModel compresses text to between minLen and maxLen words.
// Implementations must be deterministic for fixed parameters.
type SummarizationModel interface {
	Summarize(ctx context.Context, text string, maxLen, minLen int) (string, error)
}

// SentimentClassifier labels a piece of text positive, negative or neutral.
type SentimentClassifier interface {
	Classify(ctx context.Context, text string) (entity.Sentiment, error)
}
