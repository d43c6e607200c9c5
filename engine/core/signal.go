package core

import "sync/atomic"

var lastSubscriptionID atomic.Uint64

// Subscription is returned by Signal.Subscribe and cancels the handler when
// passed back to Unsubscribe. Ids are unique across all signals, so an owner
// of several signals can try each one.
type Subscription struct {
	id uint64
}

// Signal is a typed, single-threaded event source. Handlers are invoked in
// subscription order on the goroutine calling Emit.
type Signal[T any] struct {
	handlers []signalHandler[T]
}

type signalHandler[T any] struct {
	id uint64
	fn func(T)
}

func (s *Signal[T]) Subscribe(fn func(T)) Subscription {
	id := lastSubscriptionID.Add(1)
	s.handlers = append(s.handlers, signalHandler[T]{id: id, fn: fn})
	return Subscription{id: id}
}

func (s *Signal[T]) Unsubscribe(sub Subscription) bool {
	for i, h := range s.handlers {
		if h.id == sub.id {
			s.handlers = append(s.handlers[:i:i], s.handlers[i+1:]...)
			return true
		}
	}
	return false
}

func (s *Signal[T]) Emit(value T) {
	// handlers may unsubscribe while being called
	handlers := s.handlers
	for _, h := range handlers {
		h.fn(value)
	}
}

func (s *Signal[T]) Len() int {
	return len(s.handlers)
}
