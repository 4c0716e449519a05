// Package events provides a typed observer registry used for the queue's
// outbound notification channels. Values published on an Emitter are
// broadcast to every subscribed handler, in subscription order.
package events

import "sync"

// Handler receives values published on an Emitter.
type Handler[T any] func(T)

// Emitter broadcasts published values to all subscribed handlers.
// The zero value is an Emitter with no subscribers, ready to use.
type Emitter[T any] struct {
	mu       sync.RWMutex
	handlers []Handler[T]
}

// Subscribe registers a handler. Handlers are invoked in the order they were
// subscribed and cannot be removed.
func (e *Emitter[T]) Subscribe(h Handler[T]) {
	if h == nil {
		return
	}
	e.mu.Lock()
	e.handlers = append(e.handlers, h)
	e.mu.Unlock()
}

// Emit invokes every subscribed handler with v, in subscription order, on the
// calling goroutine. Handlers run outside the emitter's lock so they may
// subscribe or publish re-entrantly.
func (e *Emitter[T]) Emit(v T) {
	e.mu.RLock()
	handlers := make([]Handler[T], len(e.handlers))
	copy(handlers, e.handlers)
	e.mu.RUnlock()

	for _, h := range handlers {
		h(v)
	}
}

// HasSubscribers reports whether at least one handler is subscribed.
func (e *Emitter[T]) HasSubscribers() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.handlers) > 0
}
