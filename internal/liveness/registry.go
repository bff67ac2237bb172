package liveness

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/skyhr/skyhr/internal/geometry"
)

// ErrCaptureNotFound is returned for unknown or closed capture ids.
var ErrCaptureNotFound = errors.New("liveness capture not found")

// Registry tracks the open capture screens of this gateway process.
type Registry struct {
	cfg CaptureConfig

	mu       sync.RWMutex
	captures map[string]*Capture
}

// NewRegistry builds a registry whose captures share cfg.
func NewRegistry(cfg CaptureConfig) *Registry {
	return &Registry{cfg: cfg, captures: make(map[string]*Capture)}
}

// Open starts a capture flow. With a positive viewport size, captures are
// framed against the face ellipse of that viewport.
func (r *Registry) Open(viewportW, viewportH float64) *Capture {
	var region geometry.Region
	if viewportW > 0 && viewportH > 0 {
		region = geometry.FaceRegion(viewportW, viewportH)
	}
	c := NewCapture(uuid.NewString(), region, r.cfg)
	r.mu.Lock()
	r.captures[c.ID()] = c
	r.mu.Unlock()
	return c
}

// Get returns an open capture.
func (r *Registry) Get(id string) (*Capture, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.captures[id]
	if !ok {
		return nil, ErrCaptureNotFound
	}
	return c, nil
}

// Close forgets a capture and cancels its pending settle delay.
func (r *Registry) Close(id string) error {
	r.mu.Lock()
	c, ok := r.captures[id]
	delete(r.captures, id)
	r.mu.Unlock()
	if !ok {
		return ErrCaptureNotFound
	}
	c.Close()
	return nil
}

// Sweep closes captures that saw no frame, submission or retry for maxIdle
// and returns how many were closed.
func (r *Registry) Sweep(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	r.mu.Lock()
	var idle []*Capture
	for id, c := range r.captures {
		if c.idleSince().Before(cutoff) {
			idle = append(idle, c)
			delete(r.captures, id)
		}
	}
	r.mu.Unlock()

	for _, c := range idle {
		c.Close()
	}
	return len(idle)
}

// Len returns the number of open captures.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.captures)
}
