package pushtopic

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/speedrun-browser/internal/platform/resilience"
	"github.com/riskibarqy/speedrun-browser/internal/usecase"
)

func newTestPublisher(t *testing.T, handler http.HandlerFunc, breaker resilience.CircuitBreakerConfig) *Publisher {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	publisher, err := NewPublisher(Config{BaseURL: server.URL + "/", Token: "secret", CircuitBreaker: breaker}, nil)
	require.NoError(t, err)
	return publisher
}

func TestPublisher_SubscribeTopic(t *testing.T) {
	t.Parallel()

	var (
		gotMethod string
		gotPath   string
		gotAuth   string
		gotBody   string
	)
	publisher := newTestPublisher(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
		w.WriteHeader(http.StatusNoContent)
	}, resilience.CircuitBreakerConfig{})

	require.NoError(t, publisher.SubscribeTopic(context.Background(), "game_v1pxjz68"))
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/topics/game_v1pxjz68", gotPath)
	assert.Equal(t, "Bearer secret", gotAuth)
	assert.JSONEq(t, `{"topic":"game_v1pxjz68","action":"subscribe"}`, gotBody)
}

func TestPublisher_UnsubscribeMissingTopicSucceeds(t *testing.T) {
	t.Parallel()

	publisher := newTestPublisher(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("unexpected method %s", r.Method)
		}
		w.WriteHeader(http.StatusNotFound)
	}, resilience.CircuitBreakerConfig{})

	require.NoError(t, publisher.UnsubscribeTopic(context.Background(), "player_abc"))
}

func TestPublisher_RejectsInvalidTopic(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	publisher := newTestPublisher(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
	}, resilience.CircuitBreakerConfig{})

	err := publisher.SubscribeTopic(context.Background(), "game with spaces")
	if !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	assert.Zero(t, calls.Load())
}

func TestPublisher_TransientFailuresOpenBreaker(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	publisher := newTestPublisher(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}, resilience.CircuitBreakerConfig{Enabled: true, FailureThreshold: 2, OpenTimeout: time.Minute, HalfOpenMaxReq: 1})

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		err := publisher.SubscribeTopic(ctx, "game_g1")
		if !errors.Is(err, usecase.ErrDependencyUnavailable) {
			t.Fatalf("attempt %d: expected ErrDependencyUnavailable, got %v", i, err)
		}
	}
	assert.Equal(t, int32(2), calls.Load())
}

func TestPublisher_PermanentFailureIsNotTransient(t *testing.T) {
	t.Parallel()

	publisher := newTestPublisher(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("bad token"))
	}, resilience.CircuitBreakerConfig{})

	err := publisher.SubscribeTopic(context.Background(), "game_g1")
	require.Error(t, err)
	assert.False(t, errors.Is(err, usecase.ErrDependencyUnavailable))
	assert.Contains(t, err.Error(), "status=403")
}

func TestNewPublisher_ValidatesBaseURL(t *testing.T) {
	t.Parallel()

	tests := []string{"", "ftp://push.example.com", "http://"}
	for _, raw := range tests {
		_, err := NewPublisher(Config{BaseURL: raw}, nil)
		if err == nil {
			t.Fatalf("expected error for base url %q", raw)
		}
	}
}

func TestBuildCurlPreview_MasksToken(t *testing.T) {
	t.Parallel()

	got := buildCurlPreview(http.MethodPut, "https://push.example.com/topics/game_g1", `{"topic":"it's"}`)
	assert.Contains(t, got, "'Authorization: Bearer ***'")
	assert.Contains(t, got, `'{"topic":"it'"'"'s"}'`)
}
