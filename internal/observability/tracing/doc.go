// Package tracing provides OpenTelemetry spans around pipeline stages.
//
// Spans are created from the global tracer provider, so they are no-ops until
// a provider is installed with otel.SetTracerProvider.
//
//	ctx, span := tracing.StartSpan(ctx, "notes.annotate", attribute.Int("words", n))
//	defer span.End()
package tracing
