package metrics

import (
	"time"
)

// RecordProcess records the outcome and duration of one Process call.
func RecordProcess(mode string, success bool, duration time.Duration) {
	ProcessTotal.WithLabelValues(mode, outcome(success)).Inc()
	ProcessDuration.WithLabelValues(mode).Observe(duration.Seconds())
}

// RecordProcessError records a failed request by error kind.
func RecordProcessError(kind string) {
	ProcessErrors.WithLabelValues(kind).Inc()
}

// RecordInputWords records the word count of an accepted input.
func RecordInputWords(n int) {
	InputWords.Observe(float64(n))
}

// RecordStage records the duration of a pipeline stage.
// Stage names are annotate, compose, key_points, concepts, formulas,
// questions, topics, keywords and main_points.
func RecordStage(stage string, duration time.Duration) {
	StageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordSegment records one composer segment.
// Outcome should be "summarized" or "fallback".
func RecordSegment(outcome string) {
	ComposerSegmentsTotal.WithLabelValues(outcome).Inc()
}

// RecordExtracted records how many items an extractor produced.
func RecordExtracted(kind string, n int) {
	ExtractedItems.WithLabelValues(kind).Observe(float64(n))
}

// RecordContentFetch records an input load.
//
// Example:
//
//	start := time.Now()
//	content, err := loader.Load(ctx, url)
//	metrics.RecordContentFetch("url", err == nil, time.Since(start))
func RecordContentFetch(source string, success bool, duration time.Duration) {
	status := "success"
	if !success {
		status = "failure"
	}
	ContentFetchAttemptsTotal.WithLabelValues(source, status).Inc()
	ContentFetchDuration.WithLabelValues(source).Observe(duration.Seconds())
}

func outcome(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
