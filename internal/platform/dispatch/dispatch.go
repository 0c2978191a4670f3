// Package dispatch implements ports.Dispatcher.
//
// Immediate runs work on the caller's goroutine and is meant for tests and
// for screens that already serialize access themselves. Loop owns a single
// goroutine and runs work on it one item at a time, in submission order.
package dispatch

import (
	"context"
	"errors"
	"sync"

	"github.com/jsamuelsen/quote-screen/internal/ports"
)

// ErrStopped is returned by Call when the loop stops before running fn.
var ErrStopped = errors.New("dispatch loop stopped")

var (
	_ ports.Dispatcher = Immediate{}
	_ ports.Dispatcher = (*Loop)(nil)
)

// Immediate runs each function synchronously on the calling goroutine.
type Immediate struct{}

// Dispatch runs fn immediately.
func (Immediate) Dispatch(fn func()) {
	fn()
}

// Loop is a serial dispatcher with an unbounded queue.
// Dispatch never blocks; Run drains the queue on the goroutine that calls it.
type Loop struct {
	mu      sync.Mutex
	queue   []func()
	wake    chan struct{}
	done    chan struct{}
	stopped bool
}

// NewLoop creates a loop. Nothing runs until Run is called.
func NewLoop() *Loop {
	return &Loop{wake: make(chan struct{}, 1), done: make(chan struct{})}
}

// Dispatch enqueues fn. Functions dispatched after the loop stopped are dropped.
func (l *Loop) Dispatch(fn func()) {
	if fn == nil {
		return
	}

	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Run executes queued functions until ctx is done. It must be called from at
// most one goroutine; that goroutine is the loop's owning context.
// Work still queued when ctx ends is discarded.
func (l *Loop) Run(ctx context.Context) error {
	defer l.stop()

	for {
		for _, fn := range l.drain() {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			fn()
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

// Call runs fn on the loop and waits for it to finish.
// Returns ctx.Err() if ctx ends first, or ErrStopped if the loop is stopped.
func (l *Loop) Call(ctx context.Context, fn func()) error {
	finished := make(chan struct{})

	l.Dispatch(func() {
		fn()
		close(finished)
	})

	select {
	case <-finished:
		return nil
	case <-l.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Pending returns the number of queued functions.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.queue)
}

func (l *Loop) drain() []func() {
	l.mu.Lock()
	defer l.mu.Unlock()

	batch := l.queue
	l.queue = nil

	return batch
}

func (l *Loop) stop() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.stopped {
		l.stopped = true
		close(l.done)
	}
	l.queue = nil
}
