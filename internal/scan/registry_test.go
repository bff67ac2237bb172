package scan

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyhr/skyhr/internal/attendance"
)

func TestRegistryLifecycle(t *testing.T) {
	reg := NewRegistry(SessionConfig{
		Validator: validatorFunc(func(ctx context.Context, mode attendance.Mode, payload string) attendance.Outcome {
			return attendance.VisitorFound("V1", "Ana")
		}),
	})

	s := reg.Open(attendance.ModeVisitor, 400, 800)
	require.True(t, s.Active())
	assert.Equal(t, 1, reg.Len())

	got, err := reg.Get(s.ID())
	require.NoError(t, err)
	assert.Same(t, s, got)

	// 400x800 viewport: QR box is 280px square centred at (200, 400).
	res := got.HandleFrame(context.Background(), Event{Data: "v", CornerPoints: nil})
	assert.Equal(t, StatusUndecided, res.Status)

	require.NoError(t, reg.Close(s.ID()))
	assert.False(t, s.Active())
	assert.ErrorIs(t, reg.Close(s.ID()), ErrSessionNotFound)
	_, err = reg.Get(s.ID())
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRegistrySweep(t *testing.T) {
	reg := NewRegistry(SessionConfig{})
	s := reg.Open(attendance.ModeAttendance, 100, 100)

	assert.Zero(t, reg.Sweep(time.Hour))
	assert.Equal(t, 1, reg.Sweep(-time.Second))
	assert.False(t, s.Active())
	assert.Zero(t, reg.Len())
}
