package audit

import (
	"context"
	"sync"
)

type memoryRepository struct {
	mu       sync.RWMutex
	attempts map[string][]Attempt
}

// NewMemoryRepository constructs an in-memory attempt store.
func NewMemoryRepository() Repository {
	return &memoryRepository{attempts: make(map[string][]Attempt)}
}

func (r *memoryRepository) Record(_ context.Context, attempt Attempt) error {
	if err := attempt.validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts[attempt.SessionID] = append(r.attempts[attempt.SessionID], attempt)
	return nil
}

func (r *memoryRepository) ListBySession(_ context.Context, sessionID string) ([]Attempt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Attempt, len(r.attempts[sessionID]))
	copy(out, r.attempts[sessionID])
	return out, nil
}
