package scan

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/skyhr/skyhr/internal/attendance"
	"github.com/skyhr/skyhr/internal/geometry"
)

// ErrSessionNotFound is returned for unknown or closed session ids.
var ErrSessionNotFound = errors.New("scan session not found")

// Registry tracks the open scanning sessions of this gateway process.
type Registry struct {
	cfg SessionConfig

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewRegistry builds a registry whose sessions share cfg.
func NewRegistry(cfg SessionConfig) *Registry {
	return &Registry{cfg: cfg, sessions: make(map[string]*Session)}
}

// Open creates and focuses a session for a screen of the given viewport size.
func (r *Registry) Open(mode attendance.Mode, viewportW, viewportH float64) *Session {
	s := NewSession(uuid.NewString(), mode, geometry.QRRegion(viewportW, viewportH), r.cfg)
	s.Focus()

	r.mu.Lock()
	r.sessions[s.ID()] = s
	r.mu.Unlock()
	return s
}

// Get returns an open session.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Close blurs and forgets a session.
func (r *Registry) Close(id string) error {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	s.Blur()
	return nil
}

// Sweep closes sessions that have not seen a frame for maxIdle and returns
// how many were closed.
func (r *Registry) Sweep(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	r.mu.Lock()
	var idle []*Session
	for id, s := range r.sessions {
		if s.idleSince().Before(cutoff) {
			idle = append(idle, s)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, s := range idle {
		s.Blur()
	}
	return len(idle)
}

// Len returns the number of open sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
