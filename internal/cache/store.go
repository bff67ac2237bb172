package cache

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Entry names used by the gateway.
const (
	Announcements = "announcements"
	Permissions   = "permissions"
)

type clearer interface {
	Clear(ctx context.Context) error
}

// Store is the single cache object built at startup. It backs every entry
// with Redis when a client is given and with process memory otherwise.
type Store struct {
	redis  *redis.Client
	clock  Clock
	logger *zap.Logger

	mu      sync.Mutex
	entries map[string]clearer
}

// NewStore builds a store. client may be nil.
func NewStore(client *redis.Client, clock Clock, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{redis: client, clock: clock, logger: logger, entries: make(map[string]clearer)}
}

// Entry returns the named cache entry, creating it on first use.
func Entry[T any](s *Store, name string) Cache[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.entries[name]; ok {
		if c, ok := existing.(Cache[T]); ok {
			return c
		}
	}
	var c Cache[T]
	if s.redis != nil {
		c = NewRedis[T](s.redis, name, s.clock, s.logger)
	} else {
		c = NewMemory[T](s.clock)
	}
	s.entries[name] = c
	return c
}

// Names lists the entries created so far.
func (s *Store) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.entries))
	for name := range s.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ClearAll drops every entry, as on sign-out. All entries are attempted.
func (s *Store) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	entries := make(map[string]clearer, len(s.entries))
	for name, c := range s.entries {
		entries[name] = c
	}
	s.mu.Unlock()

	var errs []error
	for name, c := range entries {
		if err := c.Clear(ctx); err != nil {
			s.logger.Warn("failed to clear cache entry", zap.String("entry", name), zap.Error(err))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
