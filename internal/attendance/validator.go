package attendance

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/skyhr/skyhr/internal/backend"
)

// Mode selects which backend endpoint a scanned payload is validated against.
type Mode string

const (
	ModeAttendance Mode = "attendance"
	ModeVisitor    Mode = "visitor"
)

// ParseMode validates a mode string, defaulting to attendance when empty.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeAttendance:
		return ModeAttendance, nil
	case ModeVisitor:
		return ModeVisitor, nil
	default:
		return "", ErrUnknownMode
	}
}

// ErrUnknownMode is returned for modes other than attendance and visitor.
var ErrUnknownMode = errors.New("unknown scan mode")

// Remote is the subset of the backend the validator needs.
type Remote interface {
	ValidateQR(ctx context.Context, payload string) (QRValidation, error)
	ValidateVisitorQR(ctx context.Context, payload string) (Visitor, error)
}

// Validator turns raw scanned payloads into classified outcomes.
type Validator struct {
	remote Remote
	logger *zap.Logger
}

// NewValidator builds a validator.
func NewValidator(remote Remote, logger *zap.Logger) *Validator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Validator{remote: remote, logger: logger}
}

// Validate sends payload to the endpoint for mode and classifies the result.
// It never returns an error: every failure is folded into an Outcome.
func (v *Validator) Validate(ctx context.Context, mode Mode, payload string) Outcome {
	switch mode {
	case ModeVisitor:
		visitor, err := v.remote.ValidateVisitorQR(ctx, payload)
		if err != nil {
			return v.classifyError(mode, err)
		}
		if strings.TrimSpace(visitor.ID) == "" || strings.TrimSpace(visitor.Name) == "" {
			v.logger.Info("visitor qr missing fields", zap.Bool("has_id", visitor.ID != ""), zap.Bool("has_name", visitor.Name != ""))
			return Invalid(MessageInvalidQR)
		}
		return VisitorFound(visitor.ID, visitor.Name)
	default:
		res, err := v.remote.ValidateQR(ctx, payload)
		if err != nil {
			return v.classifyError(mode, err)
		}
		if strings.TrimSpace(res.LocationID) == "" || strings.TrimSpace(res.OrganizationID) == "" {
			v.logger.Info("attendance qr missing fields", zap.Bool("has_location", res.LocationID != ""), zap.Bool("has_organization", res.OrganizationID != ""))
			return Invalid(MessageInvalidQR)
		}
		return Success(res.LocationID, res.OrganizationID)
	}
}

func (v *Validator) classifyError(mode Mode, err error) Outcome {
	switch {
	case backend.IsNetwork(err):
		v.logger.Warn("qr validation unreachable", zap.String("mode", string(mode)), zap.Error(err))
		return NetworkFailure(MessageNoConnection)
	case errors.Is(err, backend.ErrInvalidResponse):
		v.logger.Warn("qr validation returned undecodable body", zap.String("mode", string(mode)), zap.Error(err))
		return Invalid(MessageInvalidQR)
	default:
		v.logger.Info("qr validation rejected", zap.String("mode", string(mode)), zap.Error(err))
		if msg := backend.ServerMessage(err); msg != "" {
			return Invalid(msg)
		}
		return Invalid(MessageValidationFailed)
	}
}
