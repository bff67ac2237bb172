package session

import (
	"context"
	"sync"
)

// Resource is a remotely loaded value that can be refetched. A failed refetch
// keeps the last good value.
type Resource[T any] struct {
	fetch func(ctx context.Context) (T, error)

	mu      sync.RWMutex
	data    T
	loaded  bool
	pending bool
	err     error
}

// NewResource builds an unloaded resource.
func NewResource[T any](fetch func(ctx context.Context) (T, error)) *Resource[T] {
	return &Resource[T]{fetch: fetch}
}

// Data returns the last good value and whether one was ever loaded.
func (r *Resource[T]) Data() (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.data, r.loaded
}

// Pending reports whether a fetch is running.
func (r *Resource[T]) Pending() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.pending
}

// Err returns the error of the latest fetch.
func (r *Resource[T]) Err() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.err
}

// Refetch loads the value again.
func (r *Resource[T]) Refetch(ctx context.Context) error {
	r.mu.Lock()
	r.pending = true
	r.mu.Unlock()

	data, err := r.fetch(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending = false
	r.err = err
	if err == nil {
		r.data = data
		r.loaded = true
	}
	return err
}

// Reset forgets the loaded value.
func (r *Resource[T]) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	var zero T
	r.data = zero
	r.loaded = false
	r.err = nil
}
