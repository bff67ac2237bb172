package liveness

import "fmt"

// DefaultMinScore is the lowest liveness score accepted without a retry.
const DefaultMinScore = 70.0

// Verdict is the gate's decision for one capture.
type Verdict string

const (
	Accept        Verdict = "accept"
	RetrySpoof    Verdict = "retry_spoof"
	RetryLowScore Verdict = "retry_low_score"
)

const (
	MessageSpoof    = "Posible suplantación detectada. Intenta de nuevo con tu rostro real."
	MessageLowScore = "La calidad de la captura es baja. Intenta de nuevo con mejor iluminación."
)

// Message is the user-facing text for a retry verdict.
func (v Verdict) Message() string {
	switch v {
	case RetrySpoof:
		return MessageSpoof
	case RetryLowScore:
		return MessageLowScore
	default:
		return ""
	}
}

// Retry reports whether the capture must be repeated.
func (v Verdict) Retry() bool { return v != Accept }

// Gate classifies extracted liveness results.
type Gate struct {
	MinScore float64
}

// NewGate returns a gate, falling back to DefaultMinScore for non-positive values.
func NewGate(minScore float64) Gate {
	if minScore <= 0 {
		minScore = DefaultMinScore
	}
	return Gate{MinScore: minScore}
}

// Evaluate rejects spoofed captures and captures scored below MinScore. A
// result without a score and without a spoof flag is accepted.
func (g Gate) Evaluate(r Result) Verdict {
	if r.SpoofFlag {
		return RetrySpoof
	}
	if r.Score != nil && *r.Score < g.MinScore {
		return RetryLowScore
	}
	return Accept
}

func (r Result) String() string {
	if r.Score == nil {
		return fmt.Sprintf("score=<nil> spoof=%t", r.SpoofFlag)
	}
	return fmt.Sprintf("score=%.2f spoof=%t", *r.Score, r.SpoofFlag)
}
