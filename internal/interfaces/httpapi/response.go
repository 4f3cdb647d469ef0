package httpapi

import (
	"context"
	"errors"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/speedrun-browser/internal/usecase"
)

const (
	googleAPIVersion = "2.0"
	errorDomain      = "speedrun-browser"

	internalErrorMessage = "internal server error"
)

// Responses follow the Google JSON style guide: apiVersion, the request id
// as "id", then either data or error.
type googleResponseEnvelope struct {
	APIVersion string           `json:"apiVersion"`
	ID         string           `json:"id,omitempty"`
	Data       any              `json:"data,omitempty"`
	Error      *googleErrorBody `json:"error,omitempty"`
}

type googleErrorBody struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Status  string            `json:"status"`
	Errors  []googleErrorItem `json:"errors,omitempty"`
}

type googleErrorItem struct {
	Domain  string `json:"domain"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type errorRule struct {
	target     error
	HTTPStatus int
	Reason     string
	Status     string
}

// First match wins.
var errorRules = []errorRule{
	{target: usecase.ErrInvalidInput, HTTPStatus: http.StatusBadRequest, Reason: "invalidInput", Status: "INVALID_ARGUMENT"},
	{target: usecase.ErrNotFound, HTTPStatus: http.StatusNotFound, Reason: "notFound", Status: "NOT_FOUND"},
	{target: usecase.ErrDependencyUnavailable, HTTPStatus: http.StatusServiceUnavailable, Reason: "dependencyUnavailable", Status: "UNAVAILABLE"},
	{target: context.DeadlineExceeded, HTTPStatus: http.StatusGatewayTimeout, Reason: "deadlineExceeded", Status: "DEADLINE_EXCEEDED"},
}

var internalErrorRule = errorRule{HTTPStatus: http.StatusInternalServerError, Reason: "internalError", Status: "INTERNAL"}

func mapError(err error) errorRule {
	for _, rule := range errorRules {
		if errors.Is(err, rule.target) {
			return rule
		}
	}
	return internalErrorRule
}

func writeJSON(w http.ResponseWriter, status int, payload googleResponseEnvelope) {
	payload.APIVersion = googleAPIVersion
	payload.ID = w.Header().Get(requestIDHeader)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(payload)
}

func writeSuccess(_ context.Context, w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, googleResponseEnvelope{Data: data})
}

// writeError renders err through errorRules. Unmapped errors are reported as
// internal without echoing their text.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	rule := mapError(err)
	markSpanFailed(ctx, rule.HTTPStatus, err)

	message := internalErrorMessage
	if rule.target != nil {
		message = err.Error()
	}

	writeJSON(w, rule.HTTPStatus, googleResponseEnvelope{
		Error: &googleErrorBody{
			Code:    rule.HTTPStatus,
			Message: message,
			Status:  rule.Status,
			Errors: []googleErrorItem{{
				Domain:  errorDomain,
				Reason:  rule.Reason,
				Message: message,
			}},
		},
	})
}
