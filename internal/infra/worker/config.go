// Package worker holds the runtime pieces of the scheduled notes worker:
// its configuration, metrics and health endpoints.
package worker

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"study-notes/internal/domain/entity"
	"study-notes/internal/pkg/config"
)

// WorkerConfig controls the schedule and the batch sources of the worker.
type WorkerConfig struct {
	// CronSchedule is a five-field cron expression or a descriptor such as "@every 15m".
	CronSchedule string
	// Timezone is the IANA zone the schedule is evaluated in.
	Timezone string

	InboxDir  string
	OutboxDir string
	// Feeds are RSS or Atom URLs polled on every run.
	Feeds []string
	// Mode is the notes mode applied to every input.
	Mode string

	// MaxConcurrent bounds the inputs processed at once. Range: 1-32.
	MaxConcurrent int
	// JobTimeout bounds a single run. Range: 1m-4h.
	JobTimeout time.Duration
	// RunOnStart triggers one run right after startup.
	RunOnStart bool

	HealthPort  int
	MetricsPort int
}

// DefaultConfig returns the default worker settings: a run every fifteen
// minutes over ./inbox into ./outbox.
func DefaultConfig() WorkerConfig {
	return WorkerConfig{
		CronSchedule:  "*/15 * * * *",
		Timezone:      "UTC",
		InboxDir:      "inbox",
		OutboxDir:     "outbox",
		Mode:          "brief",
		MaxConcurrent: 4,
		JobTimeout:    10 * time.Minute,
		HealthPort:    9091,
		MetricsPort:   9090,
	}
}

// Validate checks every field and reports all problems together.
func (c *WorkerConfig) Validate() error {
	var errs []error

	if err := config.ValidateCronSchedule(c.CronSchedule); err != nil {
		errs = append(errs, fmt.Errorf("cron schedule: %w", err))
	}
	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	if c.InboxDir == "" && len(c.Feeds) == 0 {
		errs = append(errs, errors.New("sources: an inbox directory or at least one feed is required"))
	}
	if c.OutboxDir == "" {
		errs = append(errs, errors.New("outbox dir: cannot be empty"))
	}
	if err := validateMode(c.Mode); err != nil {
		errs = append(errs, fmt.Errorf("mode: %w", err))
	}
	if err := config.ValidateIntRange(c.MaxConcurrent, 1, 32); err != nil {
		errs = append(errs, fmt.Errorf("max concurrent: %w", err))
	}
	if err := config.ValidateDuration(c.JobTimeout, time.Minute, 4*time.Hour); err != nil {
		errs = append(errs, fmt.Errorf("job timeout: %w", err))
	}
	if err := config.ValidateIntRange(c.HealthPort, 1024, 65535); err != nil {
		errs = append(errs, fmt.Errorf("health port: %w", err))
	}
	if err := config.ValidateIntRange(c.MetricsPort, 1024, 65535); err != nil {
		errs = append(errs, fmt.Errorf("metrics port: %w", err))
	}
	if c.HealthPort == c.MetricsPort {
		errs = append(errs, errors.New("health and metrics ports must differ"))
	}

	return errors.Join(errs...)
}

func validateMode(mode string) error {
	_, err := entity.ParseMode(mode)
	return err
}

// LoadConfigFromEnv loads the worker configuration from the environment.
// Invalid values fall back to their defaults with a warning and a
// fallback metric, so the returned configuration is always usable.
//
// Environment variables:
//   - CRON_SCHEDULE, WORKER_TIMEZONE
//   - WORKER_INBOX_DIR, WORKER_OUTBOX_DIR, WORKER_FEEDS (comma-separated), WORKER_MODE
//   - WORKER_MAX_CONCURRENT, WORKER_JOB_TIMEOUT, WORKER_RUN_ON_START
//   - WORKER_HEALTH_PORT, METRICS_PORT
func LoadConfigFromEnv(logger *slog.Logger, metrics *WorkerMetrics) *WorkerConfig {
	cfg := DefaultConfig()

	var cm *config.ConfigMetrics
	if metrics != nil {
		cm = metrics.ConfigMetrics
	}
	t := config.NewTracker(logger, cm)

	cfg.CronSchedule = config.Use(t, "cron_schedule", config.LoadEnvString("CRON_SCHEDULE", cfg.CronSchedule, config.ValidateCronSchedule))
	cfg.Timezone = config.Use(t, "timezone", config.LoadEnvString("WORKER_TIMEZONE", cfg.Timezone, config.ValidateTimezone))
	cfg.InboxDir = config.Use(t, "inbox_dir", config.LoadEnvString("WORKER_INBOX_DIR", cfg.InboxDir, nil))
	cfg.OutboxDir = config.Use(t, "outbox_dir", config.LoadEnvString("WORKER_OUTBOX_DIR", cfg.OutboxDir, nil))
	cfg.Feeds = config.Use(t, "feeds", config.LoadEnvList("WORKER_FEEDS", cfg.Feeds))
	cfg.Mode = config.Use(t, "mode", config.LoadEnvString("WORKER_MODE", cfg.Mode, validateMode))
	cfg.MaxConcurrent = config.Use(t, "max_concurrent", config.LoadEnvInt("WORKER_MAX_CONCURRENT", cfg.MaxConcurrent, func(v int) error {
		return config.ValidateIntRange(v, 1, 32)
	}))
	cfg.JobTimeout = config.Use(t, "job_timeout", config.LoadEnvDuration("WORKER_JOB_TIMEOUT", cfg.JobTimeout, func(d time.Duration) error {
		return config.ValidateDuration(d, time.Minute, 4*time.Hour)
	}))
	cfg.RunOnStart = config.Use(t, "run_on_start", config.LoadEnvBool("WORKER_RUN_ON_START", cfg.RunOnStart))
	cfg.HealthPort = config.Use(t, "health_port", config.LoadEnvInt("WORKER_HEALTH_PORT", cfg.HealthPort, func(v int) error {
		return config.ValidateIntRange(v, 1024, 65535)
	}))
	cfg.MetricsPort = config.Use(t, "metrics_port", config.LoadEnvInt("METRICS_PORT", cfg.MetricsPort, func(v int) error {
		return config.ValidateIntRange(v, 1024, 65535)
	}))

	t.Finish()
	return &cfg
}
