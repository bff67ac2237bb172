package audit

import (
	"context"
	"errors"
	"time"
)

// ErrInvalidAttempt is returned when an attempt lacks a session or outcome.
var ErrInvalidAttempt = errors.New("invalid check-in attempt")

// Attempt is one resolved QR validation. Raw payloads and corner points are
// never kept.
type Attempt struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Mode      string    `json:"mode"`
	Outcome   string    `json:"outcome"`
	Reason    string    `json:"reason,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (a Attempt) validate() error {
	if a.SessionID == "" || a.Outcome == "" {
		return ErrInvalidAttempt
	}
	return nil
}

// Repository persists attempts.
type Repository interface {
	Record(ctx context.Context, attempt Attempt) error
	ListBySession(ctx context.Context, sessionID string) ([]Attempt, error)
}
