package liveness

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func score(f float64) *float64 { return &f }

func TestGateEvaluate(t *testing.T) {
	gate := NewGate(DefaultMinScore)
	tests := []struct {
		name string
		in   Result
		want Verdict
	}{
		{"high score", Result{Score: score(85)}, Accept},
		{"low score", Result{Score: score(50)}, RetryLowScore},
		{"spoof without score", Result{SpoofFlag: true}, RetrySpoof},
		{"missing score is accepted", Result{}, Accept},
		{"threshold is inclusive", Result{Score: score(70)}, Accept},
		{"just below threshold", Result{Score: score(69.99)}, RetryLowScore},
		{"spoof beats good score", Result{Score: score(99), SpoofFlag: true}, RetrySpoof},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, gate.Evaluate(tt.in))
		})
	}
}

func TestVerdictMessages(t *testing.T) {
	assert.Equal(t, MessageSpoof, RetrySpoof.Message())
	assert.Equal(t, MessageLowScore, RetryLowScore.Message())
	assert.NotEqual(t, RetrySpoof.Message(), RetryLowScore.Message())
	assert.Empty(t, Accept.Message())
	assert.False(t, Accept.Retry())
}

func TestNewGateDefaults(t *testing.T) {
	assert.Equal(t, DefaultMinScore, NewGate(0).MinScore)
	assert.Equal(t, 80.0, NewGate(80).MinScore)
}

func decode(t *testing.T, raw string) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &m))
	return m
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantScore *float64
		wantSpoof bool
	}{
		{"camel case", `{"livenessScore": 85, "spoofFlag": false}`, score(85), false},
		{"snake case", `{"liveness_score": 50, "spoof_flag": true}`, score(50), true},
		{"plain score and isSpoof", `{"score": 72.5, "isSpoof": true}`, score(72.5), true},
		{"nested", `{"liveness": {"score": 90, "spoof_flag": false}}`, score(90), false},
		{"top level wins over nested", `{"score": 40, "liveness": {"livenessScore": 95}}`, score(40), false},
		{"key order within a level", `{"score": 10, "liveness_score": 20, "livenessScore": 30}`, score(30), false},
		{"null is skipped", `{"livenessScore": null, "score": 77}`, score(77), false},
		{"null top level falls through to nested", `{"spoofFlag": null, "liveness": {"isSpoof": true}}`, nil, true},
		{"numeric string", `{"score": "88"}`, score(88), false},
		{"unparseable score", `{"score": "high"}`, nil, false},
		{"spoof as number", `{"spoof_flag": 1}`, nil, true},
		{"spoof zero", `{"spoof_flag": 0}`, nil, false},
		{"spoof string false", `{"spoofFlag": "false"}`, nil, false},
		{"spoof unknown string", `{"spoofFlag": "yes"}`, nil, true},
		{"spoof empty string", `{"spoofFlag": ""}`, nil, false},
		{"empty response", `{}`, nil, false},
		{"liveness not an object", `{"liveness": 5}`, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(decode(t, tt.raw))
			if tt.wantScore == nil {
				assert.Nil(t, got.Score)
			} else {
				require.NotNil(t, got.Score)
				assert.InDelta(t, *tt.wantScore, *got.Score, 1e-9)
			}
			assert.Equal(t, tt.wantSpoof, got.SpoofFlag)
		})
	}
}

func TestExtractRejectsNonFiniteScore(t *testing.T) {
	assert.Nil(t, Extract(map[string]any{"score": math.Inf(1)}).Score)
	assert.Nil(t, Extract(map[string]any{"score": math.NaN()}).Score)
}

func TestExtractThenEvaluate(t *testing.T) {
	gate := NewGate(DefaultMinScore)
	assert.Equal(t, Accept, gate.Evaluate(Extract(decode(t, `{"livenessScore": 85, "spoofFlag": false}`))))
	assert.Equal(t, RetryLowScore, gate.Evaluate(Extract(decode(t, `{"livenessScore": 50, "spoofFlag": false}`))))
	assert.Equal(t, RetrySpoof, gate.Evaluate(Extract(decode(t, `{"livenessScore": null, "spoofFlag": true}`))))
	assert.Equal(t, Accept, gate.Evaluate(Extract(decode(t, `{"livenessScore": null, "spoofFlag": false}`))))
}
