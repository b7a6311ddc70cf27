package main

import (
	"context"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// initTracing installs an SDK-backed TracerProvider so spans opened via
// internal/pwtracing are actually sampled and recorded instead of going
// through otel's global no-op tracer. A real exporter (OTLP, stdout, etc.)
// is an embedding process's concern; this CLI only needs the spans to
// exist for its own lifetime, so the default provider is built with no
// exporter attached.
func initTracing() func() {
	provider := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(provider)
	return func() { _ = provider.Shutdown(context.Background()) }
}
