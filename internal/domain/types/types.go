// Package types contains common read-model types used across the application.
package types

import "github.com/okian/rlcoach/internal/domain/stats"

// MatchHighlight is one entry of a player's best matches, ranked by goals.
type MatchHighlight struct {
	MatchID string  `json:"match_id"`
	Goals   float64 `json:"goals"`
}

// Profile summarizes a player's stored match history.
type Profile struct {
	PlayerID   string           `json:"player_id"`
	Tier       string           `json:"tier"`
	Matches    int              `json:"matches"`
	Averages   stats.Tuple      `json:"averages"`
	TopMatches []MatchHighlight `json:"top_matches"`
}

// CoachReport is the on-demand comparison of a player's aggregate
// against their tier baseline, plus the generated advice.
type CoachReport struct {
	PlayerID      string             `json:"player_id"`
	Tier          string             `json:"tier"`
	Averages      stats.Tuple        `json:"averages"`
	Baseline      stats.Tuple        `json:"baseline"`
	Strengths     map[string]float64 `json:"strengths"`
	Weaknesses    map[string]float64 `json:"weaknesses"`
	BiggestGap    string             `json:"biggest_gap,omitempty"`
	ShortTermTips []string           `json:"short_term_tips"`
	LongTermTips  []string           `json:"long_term_tips"`
}

// Baseline is one reference performer's averaged metrics at a tier.
type Baseline struct {
	Name    string      `json:"name"`
	Tier    string      `json:"tier"`
	Metrics stats.Tuple `json:"metrics"`
}
