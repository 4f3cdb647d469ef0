package usecase

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var usecaseTracer = otel.Tracer("speedrun-browser/internal/usecase")

// startUsecaseSpan only opens a span under an existing one; background work
// such as prefetching gets the inert span from ctx.
func startUsecaseSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if !trace.SpanContextFromContext(ctx).IsValid() {
		return ctx, trace.SpanFromContext(ctx)
	}
	return usecaseTracer.Start(ctx, name, trace.WithAttributes(attrs...))
}
