package scan

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/skyhr/skyhr/internal/attendance"
	"github.com/skyhr/skyhr/internal/geometry"
)

// Status describes what happened to a submitted frame.
type Status string

const (
	StatusInactive   Status = "inactive"
	StatusUndecided  Status = "undecided"
	StatusOutOfFrame Status = "out_of_frame"
	StatusBusy       Status = "busy"
	StatusNavigate   Status = "navigate"
	StatusAlert      Status = "alert"
	StatusStale      Status = "stale"
)

// Event is one decoded frame from the code scanner.
type Event struct {
	Data         string           `json:"data"`
	CornerPoints []geometry.Point `json:"corner_points"`
}

// FrameResult is returned for every submitted frame.
type FrameResult struct {
	Status  Status              `json:"status"`
	Outcome *attendance.Outcome `json:"outcome,omitempty"`
	Route   string              `json:"route,omitempty"`
}

// Validator resolves a scanned payload against the backend.
type Validator interface {
	Validate(ctx context.Context, mode attendance.Mode, payload string) attendance.Outcome
}

// Effects receives the UI side effects of a validation. Implementations must
// not block: they run while the session lock is held so that nothing fires
// after the session loses focus.
type Effects interface {
	Navigate(route string)
	Alert(outcome attendance.Outcome)
}

// Observer is told about every validation whose result was still wanted.
type Observer interface {
	Observe(ctx context.Context, sessionID string, mode attendance.Mode, outcome attendance.Outcome)
}

type noopEffects struct{}

func (noopEffects) Navigate(string) {}

func (noopEffects) Alert(attendance.Outcome) {}

// Session is one scanning screen. Frames are accepted only while focused, and
// at most one validation is in flight until the user acknowledges a failure or
// the session is refocused.
type Session struct {
	id        string
	mode      attendance.Mode
	region    geometry.Region
	gate      geometry.Gate
	validator Validator
	effects   Effects
	observer  Observer
	logger    *zap.Logger

	latch Latch

	mu          sync.Mutex
	active      bool
	generation  uint64
	awaitingAck bool
	lastSeen    time.Time
}

// SessionConfig carries the collaborators of a session.
type SessionConfig struct {
	Gate      geometry.Gate
	Validator Validator
	Effects   Effects
	Observer  Observer
	Logger    *zap.Logger
}

// NewSession builds an unfocused session.
func NewSession(id string, mode attendance.Mode, region geometry.Region, cfg SessionConfig) *Session {
	if cfg.Effects == nil {
		cfg.Effects = noopEffects{}
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Gate.MinFraction <= 0 {
		cfg.Gate = geometry.NewGate(geometry.DefaultMinFraction)
	}
	return &Session{
		id:        id,
		mode:      mode,
		region:    region,
		gate:      cfg.Gate,
		validator: cfg.Validator,
		effects:   cfg.Effects,
		observer:  cfg.Observer,
		logger:    cfg.Logger.With(zap.String("scan_session", id), zap.String("mode", string(mode))),
		lastSeen:  time.Now(),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Mode returns the validation mode.
func (s *Session) Mode() attendance.Mode { return s.mode }

// Focus starts a fresh scanning session.
func (s *Session) Focus() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = true
	s.generation++
	s.awaitingAck = false
	s.latch.Release()
	s.lastSeen = time.Now()
}

// Blur stops frame delivery. Responses still in flight become stale.
func (s *Session) Blur() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = false
	s.generation++
	s.awaitingAck = false
	s.latch.Release()
}

// Active reports whether the session is focused.
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Busy reports whether a validation holds the latch.
func (s *Session) Busy() bool {
	return s.latch.Held()
}

// Acknowledge is the user-initiated retry after a failure alert. It releases
// the latch only when an alert is pending and reports whether it did.
func (s *Session) Acknowledge() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active || !s.awaitingAck {
		return false
	}
	s.awaitingAck = false
	s.latch.Release()
	s.lastSeen = time.Now()
	return true
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// HandleFrame runs one frame through the gate, the latch and the validator.
func (s *Session) HandleFrame(ctx context.Context, ev Event) FrameResult {
	decision := s.gate.Decide(s.region, ev.CornerPoints)

	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return FrameResult{Status: StatusInactive}
	}
	s.lastSeen = time.Now()
	switch decision {
	case geometry.Undecided:
		s.mu.Unlock()
		return FrameResult{Status: StatusUndecided}
	case geometry.OutOfFrame:
		s.mu.Unlock()
		return FrameResult{Status: StatusOutOfFrame}
	}
	if !s.latch.TryAcquire() {
		s.mu.Unlock()
		return FrameResult{Status: StatusBusy}
	}
	gen := s.generation
	s.mu.Unlock()

	outcome := s.validator.Validate(ctx, s.mode, ev.Data)

	s.mu.Lock()
	if !s.active || s.generation != gen {
		s.mu.Unlock()
		s.logger.Info("dropping late validation result", zap.String("outcome", string(outcome.Kind)))
		return FrameResult{Status: StatusStale}
	}

	var result FrameResult
	if outcome.Failed() {
		s.awaitingAck = true
		s.effects.Alert(outcome)
		result = FrameResult{Status: StatusAlert, Outcome: &outcome}
	} else {
		result = FrameResult{Status: StatusNavigate, Outcome: &outcome, Route: outcome.Route()}
		s.effects.Navigate(result.Route)
	}
	s.mu.Unlock()

	s.logger.Info("scan validated", zap.String("status", string(result.Status)), zap.String("outcome", string(outcome.Kind)))
	if s.observer != nil {
		s.observer.Observe(ctx, s.id, s.mode, outcome)
	}
	return result
}
