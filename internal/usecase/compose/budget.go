package compose

import (
	"fmt"

	"study-notes/internal/domain/entity"
)

// Budget strategy names accepted by BudgetByName.
const (
	BudgetAdaptive   = "adaptive"
	BudgetModeScaled = "mode-scaled"
)

const minSummaryWords = 30

// Budget is the length window handed to the summarization model.
type Budget struct {
	Max int
	Min int
}

// BudgetStrategy computes a summary budget from the input size and options.
type BudgetStrategy interface {
	Name() string
	Budget(wordCount int, opts entity.SummaryOptions) Budget
}

// AdaptiveBudget scales with the input size and ignores the mode.
//
//	< 50 words    max = min(50, words)
//	50-199 words  max = max(50, words/3)
//	>= 200 words  max = max(100, words/4)
//	min = max(30, max/2), never above max
type AdaptiveBudget struct{}

func (AdaptiveBudget) Name() string { return BudgetAdaptive }

func (AdaptiveBudget) Budget(wordCount int, _ entity.SummaryOptions) Budget {
	var maxLen int
	switch {
	case wordCount < 50:
		maxLen = min(50, wordCount)
	case wordCount < 200:
		maxLen = max(50, wordCount/3)
	default:
		maxLen = max(100, wordCount/4)
	}
	return clamp(maxLen, max(minSummaryWords, maxLen/2))
}

// ModeScaledBudget starts from a fixed base, caps brief summaries at 100 and
// floors detailed ones at 200, then scales by the requested length knob.
// min = max(30, max/4), never above max.
type ModeScaledBudget struct {
	// Base is the starting budget; zero means 150.
	Base int
}

func (ModeScaledBudget) Name() string { return BudgetModeScaled }

func (b ModeScaledBudget) Budget(_ int, opts entity.SummaryOptions) Budget {
	maxLen := b.Base
	if maxLen <= 0 {
		maxLen = 150
	}
	switch opts.Mode {
	case entity.ModeBrief:
		maxLen = min(100, maxLen)
	case entity.ModeDetailed:
		maxLen = max(200, maxLen)
	}
	length := opts.Length
	if length <= 0 {
		length = entity.DefaultLength
	}
	maxLen = maxLen * length / 3
	return clamp(maxLen, max(minSummaryWords, maxLen/4))
}

func clamp(maxLen, minLen int) Budget {
	if minLen > maxLen {
		minLen = maxLen
	}
	return Budget{Max: maxLen, Min: minLen}
}

// BudgetByName returns the named strategy.
func BudgetByName(name string) (BudgetStrategy, error) {
	switch name {
	case "", BudgetAdaptive:
		return AdaptiveBudget{}, nil
	case BudgetModeScaled:
		return ModeScaledBudget{}, nil
	default:
		return nil, fmt.Errorf("unknown budget strategy %q", name)
	}
}
