package entity

import (
	"fmt"
	"strings"
)

// DefaultMaxInputWords is the largest input accepted by the notes pipeline.
const DefaultMaxInputWords = 1000

// ValidateText checks the preconditions on raw input text.
// Text must be non-empty after trimming and hold at most maxWords
// whitespace-separated words; maxWords <= 0 disables the length check.
// Oversized input is rejected, never truncated.
func ValidateText(text string, maxWords int) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyText
	}

	if maxWords > 0 {
		if n := len(strings.Fields(text)); n > maxWords {
			return fmt.Errorf("%w: %d words, limit is %d", ErrInputTooLong, n, maxWords)
		}
	}

	return nil
}
