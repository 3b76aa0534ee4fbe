// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pipeline metrics track notes processing end to end
var (
	// ProcessTotal counts Process calls by mode and outcome (success, failure)
	ProcessTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notes_process_total",
			Help: "Total number of notes processing requests",
		},
		[]string{"mode", "outcome"},
	)

	// ProcessDuration measures a whole Process call
	ProcessDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "notes_process_duration_seconds",
			Help:    "Notes processing duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"mode"},
	)

	// ProcessErrors counts failures by error kind
	ProcessErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notes_process_errors_total",
			Help: "Total number of failed notes requests by error kind",
		},
		[]string{"kind"},
	)

	// InputWords observes the word count of accepted inputs
	InputWords = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "notes_input_words",
			Help:    "Word count of processed inputs",
			Buckets: []float64{10, 50, 100, 200, 400, 600, 800, 1000},
		},
	)
)

// Stage metrics track the individual pipeline stages
var (
	// StageDuration measures annotate, compose and each extractor
	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "notes_stage_duration_seconds",
			Help:    "Pipeline stage duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"stage"},
	)

	// ComposerSegmentsTotal counts summarized segments by outcome (summarized, fallback)
	ComposerSegmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notes_composer_segments_total",
			Help: "Total number of segments handled by the summary composer",
		},
		[]string{"outcome"},
	)

	// ExtractedItems observes how many items each extractor produced per request
	ExtractedItems = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "notes_extracted_items",
			Help:    "Number of items produced by an extractor per request",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50},
		},
		[]string{"kind"},
	)
)

// Input metrics track the input loaders
var (
	// ContentFetchAttemptsTotal counts URL, HTML and feed loads by source and status
	ContentFetchAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notes_content_fetch_attempts_total",
			Help: "Total number of input load attempts",
		},
		[]string{"source", "status"},
	)

	// ContentFetchDuration measures input load duration
	ContentFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "notes_content_fetch_duration_seconds",
			Help:    "Input load duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"source"},
	)
)
