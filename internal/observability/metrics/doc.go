// Package metrics provides the Prometheus metrics of the notes pipeline.
//
// All metrics are registered with the Prometheus default registry and exposed
// by the worker's /metrics endpoint.
//
// Example usage:
//
//	start := time.Now()
//	result := service.Process(ctx, text, mode)
//	metrics.RecordProcess(result.Mode(), result.Succeeded(), time.Since(start))
package metrics
