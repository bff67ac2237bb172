package cache

import (
	"context"
	"slices"
	"sync"
	"time"
)

// Memory is a process-wide cache entry guarded by a mutex. Reads and writes
// copy the slice so callers never share the stored backing array.
type Memory[T any] struct {
	now Clock

	mu        sync.RWMutex
	data      []T
	timestamp time.Time
	ok        bool
}

// NewMemory returns an empty entry. A nil clock uses time.Now.
func NewMemory[T any](clock Clock) *Memory[T] {
	if clock == nil {
		clock = time.Now
	}
	return &Memory[T]{now: clock}
}

func (m *Memory[T]) Get(_ context.Context, ttl time.Duration) ([]T, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.ok || !fresh(m.timestamp, m.now(), ttl) {
		return nil, false
	}
	return slices.Clone(m.data), true
}

func (m *Memory[T]) Peek(_ context.Context) ([]T, time.Time, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.data), m.timestamp, m.ok
}

func (m *Memory[T]) Set(_ context.Context, data []T) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = slices.Clone(data)
	m.timestamp = m.now()
	m.ok = true
	return nil
}

func (m *Memory[T]) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = nil
	m.timestamp = time.Time{}
	m.ok = false
	return nil
}
