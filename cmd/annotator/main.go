// Package main runs the annotator as a standalone gRPC service, so that
// several notes processes can share one annotation backend.
//
// Environment variables:
//   - ANNOTATOR_LISTEN_ADDR: listen address (default ":50051")
//   - NOTES_MAX_INPUT_WORDS: input length limit (default 1000)
//   - METRICS_PORT: Prometheus port (default 9092)
//   - LOG_LEVEL: debug, info, warn, error
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"study-notes/internal/config"
	"study-notes/internal/infra/annotator"
	"study-notes/internal/observability/logging"
	envcfg "study-notes/internal/pkg/config"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger := logging.NewLogger()
	slog.SetDefault(logger)

	t := envcfg.NewTracker(logger, nil)
	addr := envcfg.Use(t, "listen_addr", envcfg.LoadEnvString("ANNOTATOR_LISTEN_ADDR", ":50051", nil))
	maxWords := envcfg.Use(t, "max_input_words", envcfg.LoadEnvInt("NOTES_MAX_INPUT_WORDS", 1000, func(v int) error {
		return envcfg.ValidateIntRange(v, 1, 1_000_000)
	}))
	metricsPort := envcfg.Use(t, "metrics_port", envcfg.LoadEnvInt("METRICS_PORT", 9092, func(v int) error {
		return envcfg.ValidateIntRange(v, 1024, 65535)
	}))
	t.Finish()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lis, err := net.Listen("tcp", addr)
	if err != nil {
		logger.Error("failed to listen", slog.String("addr", addr), slog.Any("error", err))
		os.Exit(1)
	}

	grpcServer := grpc.NewServer()
	annotator.NewServer(annotator.NewProse(logger), maxWords, logger).Register(grpcServer)

	hs := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, hs)
	hs.SetServingStatus(annotator.ServiceName, healthpb.HealthCheckResponse_SERVING)
	reflection.Register(grpcServer)

	metricsServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", metricsPort),
		Handler:           promhttp.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server error", slog.Any("error", err))
		}
	}()

	go func() {
		logger.Info("annotator listening", slog.String("addr", addr), slog.Int("max_input_words", maxWords))
		if err := grpcServer.Serve(lis); err != nil {
			logger.Error("grpc serve failed", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down annotator")
	hs.Shutdown()
	grpcServer.GracefulStop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown error", slog.Any("error", err))
	}
}
