package liveness

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Result is what the gate needs from a registration response.
type Result struct {
	Score     *float64 `json:"score"`
	SpoofFlag bool     `json:"spoof_flag"`
}

// Key lookup order. Top-level keys win over the nested "liveness" object, and
// within a level the first key whose value is not null wins.
var (
	scoreKeys = []string{"livenessScore", "liveness_score", "score"}
	spoofKeys = []string{"spoofFlag", "spoof_flag", "isSpoof"}
)

const nestedKey = "liveness"

// Extract pulls the liveness score and spoof flag out of a response whose
// shape is not fixed. A missing score is nil and a missing spoof flag is false.
func Extract(response map[string]any) Result {
	var res Result
	if raw, ok := lookup(response, scoreKeys); ok {
		res.Score = toScore(raw)
	}
	if raw, ok := lookup(response, spoofKeys); ok {
		res.SpoofFlag = toSpoof(raw)
	}
	return res
}

func lookup(response map[string]any, keys []string) (any, bool) {
	if v, ok := firstDefined(response, keys); ok {
		return v, true
	}
	nested, ok := response[nestedKey].(map[string]any)
	if !ok {
		return nil, false
	}
	return firstDefined(nested, keys)
}

func firstDefined(m map[string]any, keys []string) (any, bool) {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func toScore(v any) *float64 {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return nil
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func toSpoof(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case float64:
		return b != 0
	case int:
		return b != 0
	case json.Number:
		f, err := b.Float64()
		return err != nil || f != 0
	case string:
		s := strings.TrimSpace(b)
		if s == "" {
			return false
		}
		parsed, err := strconv.ParseBool(s)
		if err != nil {
			return true
		}
		return parsed
	default:
		return true
	}
}
