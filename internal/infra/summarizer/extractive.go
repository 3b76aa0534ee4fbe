package summarizer

import (
	"context"
	"fmt"
	"strings"

	"github.com/jdkato/prose/v2"
)

// Extractive is a local summarization model. It keeps leading sentences
// until the next one would exceed maxLen words, and cuts the first sentence
// at maxLen words when it alone is too long. Sentences come from prose's
// segmenter, which leaves "3.14" and "Dr." intact. The output is a pure
// function of its arguments.
type Extractive struct{}

// NewExtractive returns the local model.
func NewExtractive() *Extractive {
	return &Extractive{}
}

// Summarize implements notes.SummarizationModel. minLen is reached whenever
// the input holds that many words.
func (e *Extractive) Summarize(ctx context.Context, input string, maxLen, minLen int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := ValidateLengthBounds(maxLen, minLen); err != nil {
		return "", err
	}

	seg, err := prose.NewDocument(input,
		prose.WithTokenization(false), prose.WithTagging(false), prose.WithExtraction(false))
	if err != nil {
		return "", fmt.Errorf("segment input: %w", err)
	}

	var kept []string
	count := 0
	for _, sentence := range seg.Sentences() {
		words := strings.Fields(sentence.Text)
		if len(words) == 0 {
			continue
		}
		if count+len(words) > maxLen {
			if count < minLen || count == 0 {
				kept = append(kept, words[:maxLen-count]...)
			}
			break
		}
		kept = append(kept, words...)
		count += len(words)
	}
	return strings.Join(kept, " "), nil
}
