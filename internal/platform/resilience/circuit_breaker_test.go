package resilience

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/speedrun-browser/internal/platform/logging"
)

func TestCircuitBreaker_BasicTransitions(t *testing.T) {
	b := NewCircuitBreaker(2, 5*time.Second, 1)

	now := time.Date(2026, 2, 11, 12, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }

	if err := b.Allow(); err != nil {
		t.Fatalf("expected allow in closed state: %v", err)
	}

	b.RecordFailure()
	if snap := b.Snapshot(); snap.State != CircuitStateClosed || snap.ConsecutiveFailures != 1 {
		t.Fatalf("expected closed with one failure, got %+v", snap)
	}

	b.RecordFailure()
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected open after threshold failures, got %s", state)
	}

	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected circuit open error, got %v", err)
	}

	now = now.Add(6 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("expected half-open probe to pass, got %v", err)
	}
	if state := b.State(); state != CircuitStateHalfOpen {
		t.Fatalf("expected half-open state, got %s", state)
	}

	b.RecordSuccess()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after successful half-open probe, got %s", state)
	}
}

func TestCircuitBreaker_HalfOpenLimitsProbes(t *testing.T) {
	t.Parallel()

	b := NewCircuitBreaker(1, 10*time.Second, 2)
	now := time.Date(2026, 2, 11, 12, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }

	b.RecordFailure()
	now = now.Add(4 * time.Second)
	snap := b.Snapshot()
	if snap.State != CircuitStateOpen || snap.RetryIn != 6*time.Second {
		t.Fatalf("unexpected snapshot while open: %+v", snap)
	}

	now = now.Add(6 * time.Second)
	for i := 0; i < 2; i++ {
		if err := b.Allow(); err != nil {
			t.Fatalf("probe %d should pass, got %v", i, err)
		}
	}
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("third probe should be rejected, got %v", err)
	}

	b.RecordSuccess()
	if state := b.State(); state != CircuitStateHalfOpen {
		t.Fatalf("one success should keep half-open, got %s", state)
	}
	b.RecordFailure()
	snap = b.Snapshot()
	if snap.State != CircuitStateOpen || snap.RetryIn != 10*time.Second {
		t.Fatalf("failed probe should reopen for the full timeout, got %+v", snap)
	}
}

func TestCircuitBreaker_ExecuteIgnoresNonFailures(t *testing.T) {
	t.Parallel()

	errPermanent := errors.New("bad request")
	errTransient := errors.New("upstream 503")
	b := NewCircuitBreaker(1, time.Minute, 1)
	isTransient := func(err error) bool { return errors.Is(err, errTransient) }

	if err := b.Execute(func() error { return errPermanent }, isTransient); !errors.Is(err, errPermanent) {
		t.Fatalf("expected permanent error to pass through, got %v", err)
	}
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("permanent errors must not trip the breaker, got %s", state)
	}

	if err := b.Execute(func() error { return errTransient }, isTransient); !errors.Is(err, errTransient) {
		t.Fatalf("expected transient error, got %v", err)
	}
	if err := b.Execute(func() error { return nil }, isTransient); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected open breaker to reject, got %v", err)
	}
}

func TestCircuitBreaker_NilAndDisabled(t *testing.T) {
	t.Parallel()

	var b *CircuitBreaker
	if err := b.Allow(); err != nil {
		t.Fatalf("nil breaker should allow, got %v", err)
	}
	b.RecordFailure()
	b.RecordSuccess()
	if b.State() != CircuitStateClosed {
		t.Fatalf("nil breaker should report closed")
	}

	if (CircuitBreakerConfig{Enabled: false}).Build() != nil {
		t.Fatalf("disabled config should not build a breaker")
	}
	built := CircuitBreakerConfig{Enabled: true}.Build()
	if built == nil {
		t.Fatalf("enabled config should build a breaker")
	}
	if built.failureThreshold != 5 || built.openTimeout != 15*time.Second || built.halfOpenMaxReq != 2 {
		t.Fatalf("zero config should take defaults, got %d/%s/%d", built.failureThreshold, built.openTimeout, built.halfOpenMaxReq)
	}
}

func TestCircuitBreaker_StateChangeListener(t *testing.T) {
	t.Parallel()

	type transition struct {
		name     string
		from, to CircuitState
	}
	var seen []transition

	b := CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 1,
		OpenTimeout:      time.Second,
		HalfOpenMaxReq:   1,
		Name:             "srcom",
		OnStateChange: func(name string, from, to CircuitState) {
			seen = append(seen, transition{name, from, to})
		},
	}.Build()

	now := time.Date(2026, 2, 11, 12, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }

	b.RecordSuccess()
	b.RecordFailure()
	b.RecordFailure()
	now = now.Add(2 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("expected half-open probe, got %v", err)
	}
	b.RecordSuccess()

	want := []transition{
		{"srcom", CircuitStateClosed, CircuitStateOpen},
		{"srcom", CircuitStateOpen, CircuitStateHalfOpen},
		{"srcom", CircuitStateHalfOpen, CircuitStateClosed},
	}
	if len(seen) != len(want) {
		t.Fatalf("unexpected transitions: %+v", seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("transition %d: want %+v, got %+v", i, want[i], seen[i])
		}
	}
}

func TestLogStateChanges(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	report := LogStateChanges(logging.NewJSONWriter(&buf, logging.LevelInfo))

	report("pushtopic", CircuitStateClosed, CircuitStateOpen)
	report("pushtopic", CircuitStateHalfOpen, CircuitStateClosed)

	out := buf.String()
	if !strings.Contains(out, `"msg":"circuit breaker opened"`) || !strings.Contains(out, `"level":"WARN"`) {
		t.Fatalf("expected warn line for opened breaker, got %s", out)
	}
	if !strings.Contains(out, `"to":"closed"`) || !strings.Contains(out, `"breaker":"pushtopic"`) {
		t.Fatalf("expected info line for recovery, got %s", out)
	}
}
