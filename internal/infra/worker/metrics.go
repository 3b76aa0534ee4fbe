package worker

import (
	"github.com/prometheus/client_golang/prometheus"

	"study-notes/internal/pkg/config"
	"study-notes/internal/usecase/batch"
)

// WorkerMetrics are the Prometheus metrics of the worker. The embedded
// ConfigMetrics use the "worker" prefix.
//
// Run metrics:
//   - worker_runs_total{status}
//   - worker_run_duration_seconds
//   - worker_items_processed_total{outcome}
//   - worker_feed_errors_total
//   - worker_last_success_timestamp
type WorkerMetrics struct {
	*config.ConfigMetrics

	RunsTotal            *prometheus.CounterVec
	RunDurationSeconds   prometheus.Histogram
	ItemsProcessedTotal  *prometheus.CounterVec
	FeedErrorsTotal      prometheus.Counter
	LastSuccessTimestamp prometheus.Gauge
}

// NewWorkerMetrics creates the worker metrics and registers them with reg.
// A nil reg leaves them unregistered.
func NewWorkerMetrics(reg prometheus.Registerer) *WorkerMetrics {
	m := &WorkerMetrics{
		ConfigMetrics: config.NewConfigMetrics("worker", reg),

		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_runs_total",
			Help: "Total number of batch runs by status",
		}, []string{"status"}),

		RunDurationSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "worker_run_duration_seconds",
			Help:    "Duration of batch runs in seconds",
			Buckets: []float64{1, 5, 30, 60, 300, 900, 1800},
		}),

		ItemsProcessedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_items_processed_total",
			Help: "Total number of inputs processed by outcome",
		}, []string{"outcome"}),

		FeedErrorsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "worker_feed_errors_total",
			Help: "Total number of feeds that could not be fetched",
		}),

		LastSuccessTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "worker_last_success_timestamp",
			Help: "Unix timestamp of the last successful batch run",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.RunsTotal, m.RunDurationSeconds, m.ItemsProcessedTotal, m.FeedErrorsTotal, m.LastSuccessTimestamp)
	}
	return m
}

// RecordRun records the outcome of one batch run. stats may be partial
// when err is set.
func (m *WorkerMetrics) RecordRun(stats *batch.RunStats, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	m.RunsTotal.WithLabelValues(status).Inc()

	if stats != nil {
		m.RunDurationSeconds.Observe(stats.Duration.Seconds())
		m.ItemsProcessedTotal.WithLabelValues("success").Add(float64(stats.Succeeded))
		m.ItemsProcessedTotal.WithLabelValues("failure").Add(float64(stats.Failed))
		m.ItemsProcessedTotal.WithLabelValues("skipped").Add(float64(stats.Skipped))
		m.FeedErrorsTotal.Add(float64(stats.FeedErrors))
	}
	if err == nil {
		m.LastSuccessTimestamp.SetToCurrentTime()
	}
}
