// Package observability groups the structured logging, Prometheus metrics and
// OpenTelemetry tracing used across study-notes.
//
// Subpackages:
//   - logging: slog logger construction and context propagation
//   - metrics: pipeline metrics and recorders
//   - tracing: span helpers around pipeline stages
//
// Example usage:
//
//	import (
//	    "study-notes/internal/observability/logging"
//	    "study-notes/internal/observability/metrics"
//	)
//
//	func main() {
//	    logger := logging.NewLogger()
//	    logger.Info("notes started")
//
//	    metrics.RecordProcess("brief", true, time.Second)
//	}
package observability
