package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"

	"study-notes/internal/app"
	"study-notes/internal/config"
	"study-notes/internal/handler/stdio"
	"study-notes/internal/infra/filestore"
	workerPkg "study-notes/internal/infra/worker"
	"study-notes/internal/observability/logging"
	"study-notes/internal/usecase/batch"
)

func main() {
	configPath := flag.String("config", os.Getenv("NOTES_CONFIG"), "Path to a YAML configuration file")
	once := flag.Bool("once", false, "Run a single batch and exit")
	flag.Parse()

	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger()
	cfg, err := config.Load(*configPath, logger)
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger = logging.New(os.Stderr, logging.Options{Level: cfg.Observability.LogLevel, Format: cfg.Observability.LogFormat})
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load worker configuration (fail-open strategy)
	workerMetrics := workerPkg.NewWorkerMetrics(prometheus.DefaultRegisterer)
	workerConfig := workerPkg.LoadConfigFromEnv(logger, workerMetrics)
	if err := workerConfig.Validate(); err != nil {
		logger.Error("invalid worker configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("worker configuration loaded",
		slog.String("cron_schedule", workerConfig.CronSchedule),
		slog.String("timezone", workerConfig.Timezone),
		slog.String("inbox", workerConfig.InboxDir),
		slog.Int("feeds", len(workerConfig.Feeds)),
		slog.String("mode", workerConfig.Mode),
		slog.Int("max_concurrent", workerConfig.MaxConcurrent),
		slog.Duration("job_timeout", workerConfig.JobTimeout))

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to build pipeline", slog.Any("error", err))
		os.Exit(1)
	}
	defer a.Close()

	svc, err := setupBatchService(logger, a, workerConfig)
	if err != nil {
		logger.Error("failed to set up batch service", slog.Any("error", err))
		os.Exit(1)
	}

	healthServer := workerPkg.NewHealthServer(fmt.Sprintf(":%d", workerConfig.HealthPort), logger)

	if *once {
		runBatchJob(ctx, logger, svc, workerConfig, workerMetrics, healthServer)
		return
	}

	startMetricsServer(ctx, logger, workerConfig.MetricsPort)
	go func() {
		if err := healthServer.Start(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("health server failed", slog.Any("error", err))
		}
	}()

	startCronWorker(ctx, logger, svc, workerConfig, workerMetrics, healthServer)
}

// setupBatchService wires the inbox, the outbox and the feed reader into a
// batch service. A worker without an inbox directory only polls feeds.
func setupBatchService(logger *slog.Logger, a *app.App, cfg *workerPkg.WorkerConfig) (*batch.Service, error) {
	var inbox batch.Inbox
	if cfg.InboxDir != "" {
		in, err := filestore.NewInbox(cfg.InboxDir, filestore.DefaultMaxFileSize)
		if err != nil {
			return nil, err
		}
		inbox = in
	}

	outbox, err := filestore.NewOutbox(cfg.OutboxDir)
	if err != nil {
		return nil, err
	}

	var feeds batch.FeedReader
	if len(cfg.Feeds) > 0 {
		feeds = a.Feeds
	}

	return batch.NewService(a.Notes, inbox, feeds, outbox, batch.Config{
		Mode:          cfg.Mode,
		Feeds:         cfg.Feeds,
		MaxConcurrent: cfg.MaxConcurrent,
	}, logger), nil
}

// startCronWorker runs the batch job on the configured schedule until ctx
// is canceled, then waits for a running job to finish.
func startCronWorker(ctx context.Context, logger *slog.Logger, svc *batch.Service, cfg *workerPkg.WorkerConfig, metrics *workerPkg.WorkerMetrics, healthServer *workerPkg.HealthServer) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Error("invalid timezone, using UTC", slog.String("timezone", cfg.Timezone), slog.Any("error", err))
		loc = time.UTC
	}
	c := cron.New(cron.WithLocation(loc), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))

	job := func() { runBatchJob(ctx, logger, svc, cfg, metrics, healthServer) }
	if _, err := c.AddFunc(cfg.CronSchedule, job); err != nil {
		logger.Error("failed to add cron job", slog.Any("error", err))
		os.Exit(1)
	}
	c.Start()

	healthServer.SetReady(true)
	logger.Info("worker started", slog.String("schedule", cfg.CronSchedule), slog.String("timezone", cfg.Timezone))

	if cfg.RunOnStart {
		go job()
	}

	<-ctx.Done()
	healthServer.SetReady(false)
	logger.Info("shutdown signal received, waiting for running job")
	<-c.Stop().Done()
	logger.Info("worker stopped")
}

// runBatchJob executes a single batch run with timeout and error handling.
func runBatchJob(ctx context.Context, logger *slog.Logger, svc *batch.Service, cfg *workerPkg.WorkerConfig, metrics *workerPkg.WorkerMetrics, healthServer *workerPkg.HealthServer) {
	logger.Info("batch run started")

	ctx, cancel := context.WithTimeout(ctx, cfg.JobTimeout)
	defer cancel()

	stats, err := svc.RunOnce(ctx)
	metrics.RecordRun(stats, err)
	healthServer.RecordRun(stats, err)
	if err != nil {
		logger.Error("batch run failed", slog.String("error", stdio.Sanitize(err.Error())))
		return
	}

	if stats.Failed > 0 || stats.FeedErrors > 0 {
		logger.Warn("batch run finished with failures",
			slog.Int64("failed", stats.Failed),
			slog.Int("feed_errors", stats.FeedErrors))
	}
}
