package cache

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Fetcher loads a list from the backend.
type Fetcher[T any] func(ctx context.Context) ([]T, error)

// Options controls a single Load.
type Options struct {
	// Refresh skips the cache read. A successful fetch is still written back.
	Refresh bool
	// Filtered loads have a result that differs from the shared list and so
	// never touch the cache.
	Filtered bool
}

// Result is what a Load produced.
type Result[T any] struct {
	Items     []T       `json:"items"`
	FromCache bool      `json:"from_cache"`
	Stale     bool      `json:"stale"`
	CachedAt  time.Time `json:"cached_at,omitempty"`
}

// Feed serves a list endpoint through a cache entry. Concurrent loads are not
// coalesced; each fetches and the last write wins.
type Feed[T any] struct {
	name   string
	cache  Cache[T]
	ttl    time.Duration
	logger *zap.Logger
}

// NewFeed builds a feed. A non-positive ttl uses DefaultTTL.
func NewFeed[T any](name string, c Cache[T], ttl time.Duration, logger *zap.Logger) *Feed[T] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Feed[T]{name: name, cache: c, ttl: ttl, logger: logger.With(zap.String("feed", name))}
}

// Load returns the list, preferring a fresh cached copy. When fetch fails and
// any cached copy exists it is returned marked stale; otherwise the fetch
// error is returned.
func (f *Feed[T]) Load(ctx context.Context, opts Options, fetch Fetcher[T]) (Result[T], error) {
	if opts.Filtered {
		items, err := fetch(ctx)
		if err != nil {
			return Result[T]{}, err
		}
		return Result[T]{Items: items}, nil
	}

	if !opts.Refresh {
		if items, ok := f.cache.Get(ctx, f.ttl); ok {
			return Result[T]{Items: items, FromCache: true}, nil
		}
	}

	items, err := fetch(ctx)
	if err != nil {
		if cached, at, ok := f.cache.Peek(ctx); ok {
			f.logger.Warn("serving cached list after fetch failure", zap.Error(err), zap.Time("cached_at", at))
			return Result[T]{Items: cached, FromCache: true, Stale: true, CachedAt: at}, nil
		}
		return Result[T]{}, err
	}

	if err := f.cache.Set(ctx, items); err != nil {
		f.logger.Warn("failed to store list", zap.Error(err))
	}
	return Result[T]{Items: items}, nil
}

// Invalidate drops the cached list.
func (f *Feed[T]) Invalidate(ctx context.Context) error {
	return f.cache.Clear(ctx)
}
