// Package stats derives and aggregates normalized match metrics.
package stats

import "math"

// Canonical metric keys. Order is fixed so downstream comparisons and
// tip generation stay deterministic.
const (
	KeyBoostUsage = "boost_usage"
	KeyFlipCount  = "flip_count"
	KeyShots      = "shots"
	KeyGoals      = "goals"
)

// Keys lists the canonical metric keys in their fixed iteration order.
func Keys() []string {
	return []string{KeyBoostUsage, KeyFlipCount, KeyShots, KeyGoals}
}

// Tuple is the fixed-shape normalized metrics summary for one match or
// one aggregate. All values are non-negative; boost_usage is a ratio in
// [0,1] rounded to 3 decimals.
type Tuple struct {
	BoostUsage float64 `json:"boost_usage"`
	FlipCount  float64 `json:"flip_count"`
	Shots      float64 `json:"shots"`
	Goals      float64 `json:"goals"`
}

// Zero returns the all-zero tuple used whenever input data is missing
// or unparsable.
func Zero() Tuple {
	return Tuple{}
}

// Value returns the metric stored under a canonical key, or 0 for an
// unknown key.
func (t Tuple) Value(key string) float64 {
	switch key {
	case KeyBoostUsage:
		return t.BoostUsage
	case KeyFlipCount:
		return t.FlipCount
	case KeyShots:
		return t.Shots
	case KeyGoals:
		return t.Goals
	default:
		return 0
	}
}

// round3 rounds to 3 decimal places, the precision used everywhere
// metrics are stored or compared.
func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
