package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// Subjects check-in events are published on.
const (
	SubjectAttendanceValidated = "attendance.checkin.validated"
	SubjectVisitorFound        = "visitors.checkin.found"
)

// Publisher is the part of *nats.Conn the notifier needs.
type Publisher interface {
	Publish(subj string, data []byte) error
}

// NATSNotifier publishes check-in events as JSON.
type NATSNotifier struct {
	pub    Publisher
	logger *zap.Logger
}

// NewNATSNotifier builds a notifier over an existing connection.
func NewNATSNotifier(pub Publisher, logger *zap.Logger) *NATSNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NATSNotifier{pub: pub, logger: logger}
}

func subjectFor(kind string) (string, error) {
	switch kind {
	case KindAttendanceValidated:
		return SubjectAttendanceValidated, nil
	case KindVisitorFound:
		return SubjectVisitorFound, nil
	default:
		return "", fmt.Errorf("no subject for notification kind %q", kind)
	}
}

// Send publishes message on the subject for its kind.
func (n *NATSNotifier) Send(_ context.Context, message Message) error {
	subject, err := subjectFor(message.Kind)
	if err != nil {
		return err
	}
	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}
	if err := n.pub.Publish(subject, data); err != nil {
		n.logger.Error("failed to publish notification", zap.Error(err), zap.String("subject", subject))
		return fmt.Errorf("failed to publish notification: %w", err)
	}
	n.logger.Debug("notification published", zap.String("subject", subject), zap.String("session_id", message.SessionID))
	return nil
}
