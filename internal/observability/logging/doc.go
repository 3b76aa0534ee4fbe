// Package logging provides structured logging helpers built on log/slog.
//
// Loggers write JSON by default and text when requested. The CLI and worker
// write logs to stderr so that stdout only carries results. A request ID is
// carried in the context and attached to loggers with WithRequestID.
//
// Example usage:
//
//	logger := logging.NewLogger()
//	ctx := logging.ContextWithRequestID(ctx, logging.NewRequestID())
//	logging.WithRequestID(ctx, logger).Info("processing", slog.String("mode", "brief"))
package logging
