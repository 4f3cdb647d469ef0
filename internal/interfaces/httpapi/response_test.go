package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/speedrun-browser/internal/usecase"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	if got, _ := body["apiVersion"].(string); got != "2.0" {
		t.Fatalf("expected apiVersion=2.0, got %v", body["apiVersion"])
	}
	return body
}

func TestWriteSuccess_GoogleEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	rec.Header().Set(requestIDHeader, "req-42")
	writeSuccess(context.Background(), rec, http.StatusOK, map[string]string{"status": "ok"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	body := decodeEnvelope(t, rec)
	if _, ok := body["data"]; !ok {
		t.Fatalf("expected data key in success response")
	}
	if _, ok := body["error"]; ok {
		t.Fatalf("did not expect error key in success response")
	}
	if got, _ := body["id"].(string); got != "req-42" {
		t.Fatalf("expected request id in envelope, got %v", body["id"])
	}
}

func TestWriteError_GoogleEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, fmt.Errorf("%w: bad payload", usecase.ErrInvalidInput))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}

	body := decodeEnvelope(t, rec)
	if _, ok := body["id"]; ok {
		t.Fatalf("did not expect id without a request id header")
	}
	errorObj, ok := body["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error object in response")
	}
	if got, _ := errorObj["status"].(string); got != "INVALID_ARGUMENT" {
		t.Fatalf("expected error status INVALID_ARGUMENT, got %v", errorObj["status"])
	}
	if got, _ := errorObj["message"].(string); got != "invalid input: bad payload" {
		t.Fatalf("expected client error text echoed, got %q", got)
	}
}

func TestWriteError_HidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, fmt.Errorf("dial tcp 10.0.0.5:5432: connection refused"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}

	errorObj, _ := decodeEnvelope(t, rec)["error"].(map[string]any)
	if got, _ := errorObj["message"].(string); got != internalErrorMessage {
		t.Fatalf("expected generic message, got %q", got)
	}
	items, _ := errorObj["errors"].([]any)
	if len(items) != 1 {
		t.Fatalf("expected one error item, got %v", errorObj["errors"])
	}
	if reason, _ := items[0].(map[string]any)["reason"].(string); reason != "internalError" {
		t.Fatalf("expected internalError reason, got %q", reason)
	}
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "invalid", err: fmt.Errorf("%w: category id is required", usecase.ErrInvalidInput), wantStatus: http.StatusBadRequest, wantCode: "INVALID_ARGUMENT"},
		{name: "not found", err: fmt.Errorf("%w: leaderboard=c1", usecase.ErrNotFound), wantStatus: http.StatusNotFound, wantCode: "NOT_FOUND"},
		{name: "dependency", err: fmt.Errorf("get leaderboard c1: %w", usecase.ErrDependencyUnavailable), wantStatus: http.StatusServiceUnavailable, wantCode: "UNAVAILABLE"},
		{name: "deadline", err: fmt.Errorf("fetch: %w", context.DeadlineExceeded), wantStatus: http.StatusGatewayTimeout, wantCode: "DEADLINE_EXCEEDED"},
		{name: "unknown", err: fmt.Errorf("boom"), wantStatus: http.StatusInternalServerError, wantCode: "INTERNAL"},
		{name: "nil", err: nil, wantStatus: http.StatusInternalServerError, wantCode: "INTERNAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapError(tt.err)
			if got.HTTPStatus != tt.wantStatus || got.Status != tt.wantCode {
				t.Fatalf("mapError(%v)=%+v want status=%d code=%s", tt.err, got, tt.wantStatus, tt.wantCode)
			}
		})
	}
}
