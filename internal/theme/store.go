// Package theme keeps the light/dark display preference.
package theme

import (
	"sync"

	"github.com/abgdnv/storefront/internal/platform/observable"
)

// State is a snapshot of the theme.
type State struct {
	DarkMode bool
}

// Store owns the dark mode flag and notifies observers on every toggle.
type Store struct {
	writeMu sync.Mutex
	mu      sync.RWMutex
	state   State
	subject observable.Subject[State]
}

// NewStore creates a theme store with the given initial dark mode.
func NewStore(initial bool) *Store {
	return &Store{state: State{DarkMode: initial}}
}

// DarkMode reports whether dark mode is on.
func (s *Store) DarkMode() bool {
	return s.Snapshot().DarkMode
}

// Snapshot returns the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Toggle flips dark mode, notifies observers and returns the new value.
func (s *Store) Toggle() bool {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	s.state.DarkMode = !s.state.DarkMode
	next := s.state
	s.mu.Unlock()

	s.subject.Publish(next)
	return next.DarkMode
}

// Subscribe registers fn for every toggle. The returned function unregisters it.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	return s.subject.Subscribe(fn)
}
