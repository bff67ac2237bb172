package cache

import (
	"context"
	"time"
)

// DefaultTTL is how long a list stays fresh.
const DefaultTTL = 5 * time.Minute

// Cache holds one list with the time it was stored.
type Cache[T any] interface {
	// Get returns the stored list when it is younger than ttl.
	Get(ctx context.Context, ttl time.Duration) ([]T, bool)
	// Peek returns the stored list regardless of age.
	Peek(ctx context.Context) ([]T, time.Time, bool)
	// Set overwrites the stored list and stamps it with the current time.
	Set(ctx context.Context, data []T) error
	Clear(ctx context.Context) error
}

// Clock returns the current time.
type Clock func() time.Time

func fresh(stored, now time.Time, ttl time.Duration) bool {
	return now.Sub(stored) < ttl
}
