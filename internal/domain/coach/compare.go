// Package coach compares a player's aggregate metrics against a cohort
// baseline and turns the result into coaching advice.
package coach

import (
	"math"

	"github.com/okian/rlcoach/internal/domain/stats"
)

// Comparison splits the canonical metric keys into strengths (subject
// above baseline) and weaknesses (subject below), keyed by metric name
// with the rounded delta magnitude as value. BiggestGap names the metric
// with the largest absolute delta, or is empty when every delta is
// exactly zero.
type Comparison struct {
	Strengths  map[string]float64 `json:"strengths"`
	Weaknesses map[string]float64 `json:"weaknesses"`
	BiggestGap string             `json:"biggest_gap,omitempty"`
}

// Compare computes per-key deltas between subject and baseline. A key
// lands in exactly one of strengths or weaknesses, or in neither when
// the delta is zero. The biggest gap uses strict greater-than over the
// fixed canonical key order, so on a tie the earlier key wins.
func Compare(subject, baseline stats.Tuple) Comparison {
	c := Comparison{
		Strengths:  make(map[string]float64),
		Weaknesses: make(map[string]float64),
	}
	var biggest float64
	for _, key := range stats.Keys() {
		delta := subject.Value(key) - baseline.Value(key)
		switch {
		case delta > 0:
			c.Strengths[key] = round3(delta)
		case delta < 0:
			c.Weaknesses[key] = round3(-delta)
		}
		if math.Abs(delta) > biggest {
			biggest = math.Abs(delta)
			c.BiggestGap = key
		}
	}
	return c
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
