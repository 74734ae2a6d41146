// Package observable provides a synchronous publish/subscribe primitive for in-process state stores.
package observable

import "sync"

// Subject delivers values of type T to registered observers.
// The zero value is ready to use.
type Subject[T any] struct {
	mu        sync.RWMutex
	nextID    uint64
	observers []observer[T]
}

type observer[T any] struct {
	id uint64
	fn func(T)
}

// Subscribe registers fn and returns a function that unregisters it.
// The returned function is safe to call more than once.
func (s *Subject[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.observers = append(s.observers, observer[T]{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { s.remove(id) })
	}
}

func (s *Subject[T]) remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, o := range s.observers {
		if o.id == id {
			s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
			return
		}
	}
}

// Publish calls every observer registered at the time of the call, in subscription order,
// on the calling goroutine. Observers may subscribe or unsubscribe while being notified.
func (s *Subject[T]) Publish(value T) {
	s.mu.RLock()
	observers := s.observers
	s.mu.RUnlock()

	for _, o := range observers {
		o.fn(value)
	}
}

// Len returns the number of registered observers.
func (s *Subject[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.observers)
}
