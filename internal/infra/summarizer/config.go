// Package summarizer provides the summarization models behind
// notes.SummarizationModel: a prompt-driven model over an llm.Completer and a
// local extractive model that needs no network access.
package summarizer

import "fmt"

const (
	// minWordLimit is the smallest maxLen a caller may request.
	minWordLimit = 5

	// maxWordLimit bounds maxLen to what one completion can return.
	maxWordLimit = 2000
)

// ValidateLengthBounds checks a word budget. maxLen must lie in [5, 2000]
// and minLen in [0, maxLen].
//
//	ValidateLengthBounds(150, 37) // nil
//	ValidateLengthBounds(150, 200) // error: min length 200 exceeds max length 150
func ValidateLengthBounds(maxLen, minLen int) error {
	if maxLen < minWordLimit {
		return fmt.Errorf("max length %d is below minimum %d", maxLen, minWordLimit)
	}
	if maxLen > maxWordLimit {
		return fmt.Errorf("max length %d exceeds maximum %d", maxLen, maxWordLimit)
	}
	if minLen < 0 {
		return fmt.Errorf("min length %d is negative", minLen)
	}
	if minLen > maxLen {
		return fmt.Errorf("min length %d exceeds max length %d", minLen, maxLen)
	}
	return nil
}
