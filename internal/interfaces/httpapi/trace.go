package httpapi

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var apiTracer = otel.Tracer("speedrun-browser/internal/interfaces/httpapi")

// startSpan opens a handler span under the request span. Requests that
// RequestTracing skips carry no parent and get the inert span from ctx.
func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if !trace.SpanContextFromContext(ctx).IsValid() {
		return ctx, trace.SpanFromContext(ctx)
	}
	return apiTracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// markSpanFailed flags the current span for server-side failures only.
func markSpanFailed(ctx context.Context, status int, err error) {
	if status < http.StatusInternalServerError || err == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	span.RecordError(err)
	span.SetStatus(codes.Error, http.StatusText(status))
}
