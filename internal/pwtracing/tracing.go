// Package pwtracing wraps the decision and enumeration entry points in
// OpenTelemetry spans, following the same otel.Meter/otel.Tracer style the
// teacher uses for its metrics (one package-level handle, thin wrapper
// functions at each call site).
package pwtracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("pathwinder")

// StartDecide opens a span around a single Decide call, tagging it with the
// path being resolved.
func StartDecide(ctx context.Context, path string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "decision.Decide", trace.WithAttributes(
		attribute.String("pathwinder.path", path),
	))
}

// StartEnumeration opens a span around draining a merged directory
// enumeration queue.
func StartEnumeration(ctx context.Context, path string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "enum.MergedQueue", trace.WithAttributes(
		attribute.String("pathwinder.path", path),
	))
}

// End closes span, recording err on it (if non-nil) as the span's status.
func End(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
