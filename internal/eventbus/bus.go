// Package eventbus provides an in-process publish/subscribe bus with explicit
// subscription handles.
//
// A Bus never keeps a subscriber reachable on its own behalf beyond the
// registered handler, and a Subscription holds only a weak reference back to
// its Bus. Owners release handlers by cancelling their Subscription, or all at
// once by closing the Bus.
package eventbus

import (
	"sync"
	"weak"
)

// Handler receives published values.
type Handler[T any] func(T)

type entry[T any] struct {
	id      uint64
	handler Handler[T]
}

// Bus delivers each published value to every current subscriber, in
// subscription order, on the publishing goroutine.
type Bus[T any] struct {
	mu     sync.RWMutex
	nextID uint64
	subs   []entry[T]
	closed bool
}

// New creates an empty bus.
func New[T any]() *Bus[T] {
	return &Bus[T]{}
}

// Subscribe registers h and returns the handle that releases it.
// Subscribing to a closed bus returns an inert handle.
func (b *Bus[T]) Subscribe(h Handler[T]) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed || h == nil {
		return &Subscription{}
	}

	id := b.nextID
	b.nextID++
	b.subs = append(b.subs, entry[T]{id: id, handler: h})

	ref := weak.Make(b)

	return &Subscription{
		release: func() {
			if bus := ref.Value(); bus != nil {
				bus.remove(id)
			}
		},
	}
}

// Publish delivers v to the subscribers registered at the time of the call.
// Handlers run outside the bus lock, so they may subscribe or cancel.
func (b *Bus[T]) Publish(v T) {
	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return
	}

	handlers := make([]Handler[T], len(b.subs))
	for i, e := range b.subs {
		handlers[i] = e.handler
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(v)
	}
}

// Close drops every subscriber. Later publishes are ignored.
func (b *Bus[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = true
	b.subs = nil
}

// Len returns the number of active subscribers.
func (b *Bus[T]) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.subs)
}

func (b *Bus[T]) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, e := range b.subs {
		if e.id == id {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return
		}
	}
}

// Subscription is the handle a subscriber keeps to release its handler.
type Subscription struct {
	once    sync.Once
	release func()
}

// Cancel unregisters the handler. It is safe to call more than once, on a
// nil handle, and after the bus is gone.
func (s *Subscription) Cancel() {
	if s == nil {
		return
	}

	s.once.Do(func() {
		if s.release != nil {
			s.release()
		}
	})
}
