package optimistic

import "sync"

// Store holds one view's working copy of a mutable entity.
//
// A Store is scoped to a single view instance and carries no network
// behavior. Mutations go through the owning Coordinator, never through
// direct writes from rendering code. The mutex exists because settlement
// callbacks arrive on network goroutines; it provides no ordering beyond
// making each Set atomic.
type Store[T any] struct {
	mu    sync.Mutex
	value T
}

// NewStore creates a store holding the initial value.
func NewStore[T any](initial T) *Store[T] {
	return &Store[T]{value: initial}
}

// Get returns the current value.
func (s *Store[T]) Get() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Set applies an updater to the current value synchronously. The new value
// is observable by the next Get before Set returns.
func (s *Store[T]) Set(update func(prev T) T) {
	if update == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = update(s.value)
}
