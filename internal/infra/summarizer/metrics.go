package summarizer

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SummaryMetricsRecorder records summary length and bound compliance.
// Tests inject a recording fake instead of the Prometheus implementation.
type SummaryMetricsRecorder interface {
	// RecordLength records the length of a generated summary in words.
	RecordLength(words int)

	// RecordOutOfBounds counts a summary outside [minLen, maxLen].
	RecordOutOfBounds()

	// RecordCompliance records whether a summary respected its bounds.
	RecordCompliance(withinBounds bool)

	// RecordDuration records the time taken to generate a summary.
	RecordDuration(duration time.Duration)
}

// PrometheusSummaryMetrics implements SummaryMetricsRecorder with Prometheus.
type PrometheusSummaryMetrics struct {
	lengthHistogram   prometheus.Histogram
	outOfBoundsCount  prometheus.Counter
	complianceGauge   prometheus.Gauge
	durationHistogram prometheus.Histogram
}

var (
	prometheusMetricsInstance *PrometheusSummaryMetrics
	prometheusMetricsOnce     sync.Once
)

// register returns the collector already registered under the same
// descriptor, or registers c.
func register[C prometheus.Collector](c C) C {
	if err := prometheus.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
	}
	return c
}

// NewPrometheusSummaryMetrics returns the process-wide recorder. It is a
// singleton so repeated construction in tests does not re-register metrics.
func NewPrometheusSummaryMetrics() *PrometheusSummaryMetrics {
	prometheusMetricsOnce.Do(func() {
		prometheusMetricsInstance = &PrometheusSummaryMetrics{
			lengthHistogram: register(prometheus.NewHistogram(prometheus.HistogramOpts{
				Name:    "notes_summary_length_words",
				Help:    "Distribution of model summary lengths in words",
				Buckets: []float64{10, 25, 50, 75, 100, 150, 200, 300, 500},
			})),
			outOfBoundsCount: register(prometheus.NewCounter(prometheus.CounterOpts{
				Name: "notes_summary_out_of_bounds_total",
				Help: "Total number of model summaries outside the requested word bounds",
			})),
			complianceGauge: register(prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "notes_summary_bounds_compliance",
				Help: "Whether the last model summary respected its word bounds (1 or 0)",
			})),
			durationHistogram: register(prometheus.NewHistogram(prometheus.HistogramOpts{
				Name:    "notes_summarization_duration_seconds",
				Help:    "Time taken to generate one segment summary",
				Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
			})),
		}
	})
	return prometheusMetricsInstance
}

// RecordLength implements SummaryMetricsRecorder.
func (p *PrometheusSummaryMetrics) RecordLength(words int) {
	p.lengthHistogram.Observe(float64(words))
}

// RecordOutOfBounds implements SummaryMetricsRecorder.
func (p *PrometheusSummaryMetrics) RecordOutOfBounds() {
	p.outOfBoundsCount.Inc()
}

// RecordCompliance implements SummaryMetricsRecorder.
func (p *PrometheusSummaryMetrics) RecordCompliance(withinBounds bool) {
	if withinBounds {
		p.complianceGauge.Set(1.0)
	} else {
		p.complianceGauge.Set(0.0)
	}
}

// RecordDuration implements SummaryMetricsRecorder.
func (p *PrometheusSummaryMetrics) RecordDuration(duration time.Duration) {
	p.durationHistogram.Observe(duration.Seconds())
}
