package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/skyhr/skyhr/internal/attendance"
	"github.com/skyhr/skyhr/internal/notification"
)

// Observer records every wanted validation result and announces successful
// check-ins. Both steps are best effort.
type Observer struct {
	repo     Repository
	notifier notification.Notifier
	now      func() time.Time
	logger   *zap.Logger
}

// NewObserver builds an observer. notifier may be nil.
func NewObserver(repo Repository, notifier notification.Notifier, logger *zap.Logger) *Observer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Observer{repo: repo, notifier: notifier, now: time.Now, logger: logger}
}

// Observe stores the attempt and publishes the check-in event.
func (o *Observer) Observe(ctx context.Context, sessionID string, mode attendance.Mode, outcome attendance.Outcome) {
	now := o.now().UTC()
	attempt := Attempt{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Mode:      string(mode),
		Outcome:   string(outcome.Kind),
		CreatedAt: now,
	}
	if outcome.Failed() {
		attempt.Reason = outcome.Message
	}
	if err := o.repo.Record(ctx, attempt); err != nil {
		o.logger.Warn("failed to record check-in attempt", zap.String("session_id", sessionID), zap.Error(err))
	}

	if o.notifier == nil {
		return
	}
	msg, ok := messageFor(sessionID, outcome, now)
	if !ok {
		return
	}
	if err := o.notifier.Send(ctx, msg); err != nil {
		o.logger.Warn("failed to send check-in notification", zap.String("session_id", sessionID), zap.Error(err))
	}
}

func messageFor(sessionID string, outcome attendance.Outcome, at time.Time) (notification.Message, bool) {
	switch outcome.Kind {
	case attendance.KindSuccess:
		return notification.Message{
			Kind:           notification.KindAttendanceValidated,
			SessionID:      sessionID,
			LocationID:     outcome.LocationID,
			OrganizationID: outcome.OrganizationID,
			OccurredAt:     at,
		}, true
	case attendance.KindVisitorFound:
		return notification.Message{
			Kind:        notification.KindVisitorFound,
			SessionID:   sessionID,
			VisitorID:   outcome.VisitorID,
			VisitorName: outcome.Name,
			OccurredAt:  at,
		}, true
	default:
		return notification.Message{}, false
	}
}
