package httpapi

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

type capturedSpan struct {
	noop.Span
	errs []error
	code codes.Code
}

func (s *capturedSpan) RecordError(err error, _ ...trace.EventOption) {
	s.errs = append(s.errs, err)
}

func (s *capturedSpan) SetStatus(code codes.Code, _ string) {
	s.code = code
}

func TestStartSpan_WithoutParentIsInert(t *testing.T) {
	ctx := context.Background()
	got, span := startSpan(ctx, "httpapi.Handler.GetLeaderboard")
	defer span.End()

	if got != ctx {
		t.Fatalf("expected context to be returned unchanged")
	}
	if span.SpanContext().IsValid() {
		t.Fatalf("expected no span without a parent")
	}
}

func TestStartSpan_KeepsParentTrace(t *testing.T) {
	parent := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{1, 2, 3},
		SpanID:     trace.SpanID{4, 5, 6},
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), parent)

	_, span := startSpan(ctx, "httpapi.Handler.GetLeaderboard")
	defer span.End()

	if span.SpanContext().TraceID() != parent.TraceID() {
		t.Fatalf("expected child span on trace %s, got %s", parent.TraceID(), span.SpanContext().TraceID())
	}
}

func TestMarkSpanFailed(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		err      error
		wantErrs int
		wantCode codes.Code
	}{
		{name: "server error recorded", status: http.StatusServiceUnavailable, err: errors.New("upstream down"), wantErrs: 1, wantCode: codes.Error},
		{name: "client error ignored", status: http.StatusNotFound, err: errors.New("missing"), wantErrs: 0, wantCode: codes.Unset},
		{name: "nil error ignored", status: http.StatusInternalServerError, err: nil, wantErrs: 0, wantCode: codes.Unset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			span := &capturedSpan{}
			markSpanFailed(trace.ContextWithSpan(context.Background(), span), tt.status, tt.err)

			if len(span.errs) != tt.wantErrs || span.code != tt.wantCode {
				t.Fatalf("got errs=%d code=%v, want errs=%d code=%v", len(span.errs), span.code, tt.wantErrs, tt.wantCode)
			}
		})
	}
}
