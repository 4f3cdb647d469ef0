package resilience

import (
	"context"
	"fmt"
	"sync"
)

// SingleFlight collapses concurrent calls for the same key into one.
//
// The shared call runs on a context detached from the caller that started it,
// so a cancelled leader does not fail everyone queued behind it. Each caller
// still stops waiting as soon as its own context ends.
type SingleFlight[T any] struct {
	mu    sync.Mutex
	calls map[string]*flight[T]
}

type flight[T any] struct {
	done    chan struct{}
	val     T
	err     error
	waiters int
}

// Do runs fn once per key among overlapping callers and hands every caller the
// same result.
func (g *SingleFlight[T]) Do(ctx context.Context, key string, fn func(context.Context) (T, error)) (T, error) {
	g.mu.Lock()
	if g.calls == nil {
		g.calls = make(map[string]*flight[T])
	}
	call, ok := g.calls[key]
	if !ok {
		call = &flight[T]{done: make(chan struct{})}
		g.calls[key] = call
		go g.run(context.WithoutCancel(ctx), key, call, fn)
	}
	call.waiters++
	g.mu.Unlock()

	select {
	case <-call.done:
		return call.val, call.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// InFlight reports how many callers have joined the pending call for key.
// Zero means nothing is running.
func (g *SingleFlight[T]) InFlight(key string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	if call, ok := g.calls[key]; ok {
		return call.waiters
	}
	return 0
}

// Forget drops key so the next Do starts a fresh call instead of joining one in flight.
func (g *SingleFlight[T]) Forget(key string) {
	g.mu.Lock()
	delete(g.calls, key)
	g.mu.Unlock()
}

func (g *SingleFlight[T]) run(ctx context.Context, key string, call *flight[T], fn func(context.Context) (T, error)) {
	defer func() {
		if r := recover(); r != nil {
			call.err = fmt.Errorf("shared call %q panicked: %v", key, r)
		}

		g.mu.Lock()
		if g.calls[key] == call {
			delete(g.calls, key)
		}
		g.mu.Unlock()
		close(call.done)
	}()

	call.val, call.err = fn(ctx)
}
