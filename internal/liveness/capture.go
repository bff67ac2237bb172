package liveness

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/skyhr/skyhr/internal/backend"
	"github.com/skyhr/skyhr/internal/geometry"
)

// DefaultSettleDelay lets the last detection frame land before the upload.
const DefaultSettleDelay = 100 * time.Millisecond

const (
	MessageRegisterFailed = "No se pudo registrar tu rostro. Inténtalo de nuevo."
	MessageNoConnection   = "Sin conexión. Verifica tu conexión a internet e inténtalo de nuevo."
)

// ErrCaptureClosed is returned by Submit once the capture screen is gone.
var ErrCaptureClosed = errors.New("liveness capture closed")

// Status describes the result of one Submit call.
type Status string

const (
	StatusAccepted          Status = "accepted"
	StatusRetry             Status = "retry"
	StatusError             Status = "error"
	StatusIgnored           Status = "ignored"
	StatusOutOfFrame        Status = "out_of_frame"
	StatusAlreadyRegistered Status = "already_registered"
)

// Registrar uploads a face image and returns the raw registration response.
type Registrar interface {
	RegisterFace(ctx context.Context, image string) (map[string]any, error)
}

// Refresher reloads the signed-in user's session data.
type Refresher interface {
	Refetch(ctx context.Context) error
}

// Outcome is returned for every submitted capture.
type Outcome struct {
	Status  Status  `json:"status"`
	Verdict Verdict `json:"verdict,omitempty"`
	Result  *Result `json:"result,omitempty"`
	Message string  `json:"message,omitempty"`
}

// CaptureConfig carries the collaborators of a capture flow.
type CaptureConfig struct {
	Registrar   Registrar
	Refresher   Refresher
	Gate        Gate
	FrameGate   geometry.Gate
	SettleDelay time.Duration
	Logger      *zap.Logger
}

// Capture is the state of one face capture screen. The capture-done flag and
// the submission lock keep at most one registration call in flight.
type Capture struct {
	id        string
	registrar Registrar
	refresher Refresher
	gate      Gate
	frameGate geometry.Gate
	region    geometry.Region
	settle    time.Duration
	logger    *zap.Logger

	closed    chan struct{}
	closeOnce sync.Once

	mu         sync.Mutex
	done       bool
	submitting bool
	registered bool
	lastSeen   time.Time
}

// NewCapture builds a capture flow. A nil region disables face framing.
func NewCapture(id string, region geometry.Region, cfg CaptureConfig) *Capture {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Gate.MinScore <= 0 {
		cfg.Gate = NewGate(DefaultMinScore)
	}
	if cfg.FrameGate.MinFraction <= 0 {
		cfg.FrameGate = geometry.NewGate(geometry.DefaultMinFraction)
	}
	if cfg.SettleDelay < 0 {
		cfg.SettleDelay = 0
	}
	return &Capture{
		id:        id,
		registrar: cfg.Registrar,
		refresher: cfg.Refresher,
		gate:      cfg.Gate,
		frameGate: cfg.FrameGate,
		region:    region,
		settle:    cfg.SettleDelay,
		logger:    cfg.Logger.With(zap.String("liveness_session", id)),
		closed:    make(chan struct{}),
		lastSeen:  time.Now(),
	}
}

// ID returns the capture identifier.
func (c *Capture) ID() string { return c.id }

// Frame reports whether the detected face outline sits inside the face
// region. Without a region every face is in frame.
func (c *Capture) Frame(points []geometry.Point) geometry.Decision {
	c.touch()
	if c.region == nil {
		return geometry.InFrame
	}
	return c.frameGate.Decide(c.region, points)
}

// Submit registers a captured image and runs the liveness gate on the
// response. Calls made while a capture is done or in flight are ignored.
func (c *Capture) Submit(ctx context.Context, image string) (Outcome, error) {
	c.mu.Lock()
	c.lastSeen = time.Now()
	switch {
	case c.isClosed():
		c.mu.Unlock()
		return Outcome{}, ErrCaptureClosed
	case c.registered:
		c.mu.Unlock()
		return Outcome{Status: StatusAlreadyRegistered}, nil
	case c.done || c.submitting:
		c.mu.Unlock()
		return Outcome{Status: StatusIgnored}, nil
	}
	c.done = true
	c.submitting = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.submitting = false
		c.mu.Unlock()
	}()

	if err := c.wait(ctx); err != nil {
		c.mu.Lock()
		c.done = false
		c.mu.Unlock()
		return Outcome{}, err
	}

	resp, err := c.registrar.RegisterFace(ctx, image)
	if c.isClosed() {
		c.logger.Info("dropping registration response for closed capture")
		return Outcome{}, ErrCaptureClosed
	}
	if err != nil {
		c.logger.Warn("face registration failed", zap.Error(err))
		return Outcome{Status: StatusError, Message: errorMessage(err)}, nil
	}

	res := Extract(resp)
	verdict := c.gate.Evaluate(res)
	c.logger.Info("liveness evaluated", zap.String("verdict", string(verdict)), zap.Stringer("result", res))

	if verdict.Retry() {
		return Outcome{Status: StatusRetry, Verdict: verdict, Result: &res, Message: verdict.Message()}, nil
	}

	c.mu.Lock()
	if c.isClosed() {
		c.mu.Unlock()
		c.logger.Info("dropping registration response for closed capture")
		return Outcome{}, ErrCaptureClosed
	}
	c.registered = true
	c.mu.Unlock()

	if c.refresher != nil {
		if err := c.refresher.Refetch(ctx); err != nil {
			c.logger.Warn("session refresh after registration failed", zap.Error(err))
		}
	}
	return Outcome{Status: StatusAccepted, Verdict: verdict, Result: &res}, nil
}

// Retry clears the capture-done flag so the next capture is submitted. It
// leaves the submission lock and the already-registered flag alone.
func (c *Capture) Retry() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.done = false
	c.lastSeen = time.Now()
}

// Registered reports whether a capture was accepted.
func (c *Capture) Registered() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.registered
}

// Close abandons the screen. A submission waiting on the settle delay or on
// the registration response returns ErrCaptureClosed without side effects.
func (c *Capture) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeOnce.Do(func() { close(c.closed) })
}

func (c *Capture) touch() {
	c.mu.Lock()
	c.lastSeen = time.Now()
	c.mu.Unlock()
}

func (c *Capture) idleSince() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastSeen
}

func (c *Capture) isClosed() bool {
	select {
	case <-c.closed:
		return true
	default:
		return false
	}
}

func (c *Capture) wait(ctx context.Context) error {
	if c.settle == 0 {
		return ctx.Err()
	}
	t := time.NewTimer(c.settle)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-c.closed:
		return ErrCaptureClosed
	}
}

func errorMessage(err error) string {
	if backend.IsNetwork(err) {
		return MessageNoConnection
	}
	if msg := backend.ServerMessage(err); msg != "" {
		return msg
	}
	return MessageRegisterFailed
}
