package resilience

import (
	"errors"
	"sync"
	"time"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type CircuitState string

const (
	CircuitStateClosed   CircuitState = "closed"
	CircuitStateOpen     CircuitState = "open"
	CircuitStateHalfOpen CircuitState = "half_open"
)

// Snapshot is a read-only view of a breaker.
type Snapshot struct {
	State               CircuitState
	ConsecutiveFailures int
	// RetryIn is how long an open breaker keeps rejecting calls.
	RetryIn time.Duration
}

type breakerCounts struct {
	failures  int // consecutive, closed state only
	probes    int // admitted while half open
	successes int // probe successes
}

// CircuitBreaker trips after consecutive failures of an upstream dependency
// and rejects calls until the open period ends. It then admits a limited
// number of probes. A nil breaker allows every call.
type CircuitBreaker struct {
	failureThreshold int
	openTimeout      time.Duration
	halfOpenMaxReq   int
	name             string
	onChange         func(name string, from, to CircuitState)
	now              func() time.Time

	mu     sync.Mutex
	state  CircuitState
	counts breakerCounts
	until  time.Time
}

func NewCircuitBreaker(failureThreshold int, openTimeout time.Duration, halfOpenMaxReq int) *CircuitBreaker {
	cfg := CircuitBreakerConfig{
		FailureThreshold: failureThreshold,
		OpenTimeout:      openTimeout,
		HalfOpenMaxReq:   halfOpenMaxReq,
	}.withDefaults()

	return &CircuitBreaker{
		failureThreshold: cfg.FailureThreshold,
		openTimeout:      cfg.OpenTimeout,
		halfOpenMaxReq:   cfg.HalfOpenMaxReq,
		state:            CircuitStateClosed,
		now:              time.Now,
	}
}

// Allow reports whether a call may proceed. Every admitted call must be
// followed by RecordSuccess or RecordFailure.
func (b *CircuitBreaker) Allow() error {
	if b == nil {
		return nil
	}
	return b.update(func(now time.Time) error {
		switch b.state {
		case CircuitStateOpen:
			return ErrCircuitOpen
		case CircuitStateHalfOpen:
			if b.counts.probes >= b.halfOpenMaxReq {
				return ErrCircuitOpen
			}
			b.counts.probes++
		}
		return nil
	})
}

func (b *CircuitBreaker) RecordSuccess() {
	if b == nil {
		return
	}
	_ = b.update(func(now time.Time) error {
		switch b.state {
		case CircuitStateClosed:
			b.counts.failures = 0
		case CircuitStateHalfOpen:
			b.counts.successes++
			if b.counts.successes >= b.halfOpenMaxReq {
				b.setState(CircuitStateClosed, now)
			}
		}
		return nil
	})
}

func (b *CircuitBreaker) RecordFailure() {
	if b == nil {
		return
	}
	_ = b.update(func(now time.Time) error {
		switch b.state {
		case CircuitStateClosed:
			b.counts.failures++
			if b.counts.failures >= b.failureThreshold {
				b.setState(CircuitStateOpen, now)
			}
		case CircuitStateHalfOpen:
			b.setState(CircuitStateOpen, now)
		case CircuitStateOpen:
			// A call admitted before the trip failed late; extend the open period.
			b.until = now.Add(b.openTimeout)
		}
		return nil
	})
}

func (b *CircuitBreaker) State() CircuitState {
	return b.Snapshot().State
}

func (b *CircuitBreaker) Snapshot() Snapshot {
	if b == nil {
		return Snapshot{State: CircuitStateClosed}
	}
	var snap Snapshot
	_ = b.update(func(now time.Time) error {
		snap = Snapshot{State: b.state, ConsecutiveFailures: b.counts.failures}
		if b.state == CircuitStateOpen {
			snap.RetryIn = b.until.Sub(now)
		}
		return nil
	})
	return snap
}

// Execute runs fn when the breaker allows it. Errors for which countsAsFailure
// returns true are recorded as failures; any other outcome counts as success.
// A nil countsAsFailure treats every error as a failure.
func (b *CircuitBreaker) Execute(fn func() error, countsAsFailure func(error) bool) error {
	if err := b.Allow(); err != nil {
		return err
	}

	err := fn()
	if err != nil && (countsAsFailure == nil || countsAsFailure(err)) {
		b.RecordFailure()
		return err
	}
	b.RecordSuccess()
	return err
}

// update runs fn under the lock after expiring the open period, then reports
// any state change to the listener once the lock is released.
func (b *CircuitBreaker) update(fn func(now time.Time) error) error {
	b.mu.Lock()
	from := b.state
	now := b.now()
	if b.state == CircuitStateOpen && !now.Before(b.until) {
		b.setState(CircuitStateHalfOpen, now)
	}
	err := fn(now)
	to := b.state
	b.mu.Unlock()

	if from != to && b.onChange != nil {
		b.onChange(b.name, from, to)
	}
	return err
}

func (b *CircuitBreaker) setState(state CircuitState, now time.Time) {
	b.state = state
	b.counts = breakerCounts{}
	b.until = time.Time{}
	if state == CircuitStateOpen {
		b.until = now.Add(b.openTimeout)
	}
}
