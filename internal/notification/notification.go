package notification

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const (
	// KindAttendanceValidated is sent after an attendance QR resolves to a location.
	KindAttendanceValidated = "attendance_validated"
	// KindVisitorFound is sent after a visitor QR resolves to a visitor.
	KindVisitorFound = "visitor_found"
)

// Message describes a check-in event.
type Message struct {
	Kind           string    `json:"kind"`
	SessionID      string    `json:"session_id"`
	LocationID     string    `json:"location_id,omitempty"`
	OrganizationID string    `json:"organization_id,omitempty"`
	VisitorID      string    `json:"visitor_id,omitempty"`
	VisitorName    string    `json:"visitor_name,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// Notifier delivers check-in events to downstream systems.
type Notifier interface {
	Send(ctx context.Context, message Message) error
}

// LoggerNotifier writes events to the logger. It is used when no broker is
// configured.
type LoggerNotifier struct {
	logger *zap.Logger
}

// NewLoggerNotifier constructs a logging notifier.
func NewLoggerNotifier(logger *zap.Logger) *LoggerNotifier {
	return &LoggerNotifier{logger: logger}
}

// Send writes the message to the structured logger.
func (n *LoggerNotifier) Send(_ context.Context, message Message) error {
	if n == nil || n.logger == nil {
		return nil
	}
	n.logger.Info("notification",
		zap.String("kind", message.Kind),
		zap.String("session_id", message.SessionID),
		zap.String("location_id", message.LocationID),
		zap.String("visitor_id", message.VisitorID),
	)
	return nil
}
