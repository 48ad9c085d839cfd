// Package scrape produces reference performer metrics for baseline cohorts.
//
// Real stream scraping (video platforms exposing input overlays) needs
// credentials and network access, so the only Source shipped here is a
// synthetic one that approximates real performer behaviour: higher tiers
// generally exhibit better metrics. Swap in a real Source to go live.
package scrape

import (
	"context"
	"math"
	"math/rand"

	"github.com/okian/rlcoach/internal/domain/stats"
	"github.com/okian/rlcoach/internal/domain/types"
)

// Source yields one batch of reference performer metrics per call.
type Source interface {
	Scrape(ctx context.Context) ([]types.Baseline, error)
}

// Default synthetic generation parameters.
const (
	defaultSeed = 42
)

var defaultTiers = []string{"Bronze", "Silver", "Gold", "Platinum", "Diamond", "Champ", "GrandChamp"}

var defaultPerformers = []string{
	"YouTubePro", "TwitchMaster", "RL_Speedster", "FlipWizard", "GoalGuru",
	"BoostBandit", "ShotSniper", "AerialAce",
}

// SyntheticSource implements Source with deterministic pseudo-random
// performer metrics derived from each performer's tier index.
type SyntheticSource struct {
	rng        *rand.Rand
	tiers      []string
	performers []string
}

// Option applies a configuration option to the SyntheticSource.
type Option func(*SyntheticSource)

// WithSeed seeds the generator for reproducible batches.
func WithSeed(seed int64) Option {
	return func(s *SyntheticSource) {
		s.rng = rand.New(rand.NewSource(seed)) //nolint:gosec // synthetic data, not security sensitive
	}
}

// WithPerformers overrides the generated performer names.
func WithPerformers(names []string) Option {
	return func(s *SyntheticSource) {
		if len(names) > 0 {
			s.performers = names
		}
	}
}

// WithTiers overrides the tier ladder.
func WithTiers(tiers []string) Option {
	return func(s *SyntheticSource) {
		if len(tiers) > 0 {
			s.tiers = tiers
		}
	}
}

// NewSyntheticSource creates a synthetic source with configuration options.
func NewSyntheticSource(opts ...Option) *SyntheticSource {
	s := &SyntheticSource{
		rng:        rand.New(rand.NewSource(defaultSeed)), //nolint:gosec // synthetic data, not security sensitive
		tiers:      defaultTiers,
		performers: defaultPerformers,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scrape returns one synthetic batch: each performer gets a random tier
// and metrics scaled by that tier's index plus a little jitter.
func (s *SyntheticSource) Scrape(ctx context.Context) ([]types.Baseline, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	batch := make([]types.Baseline, 0, len(s.performers))
	for _, name := range s.performers {
		tierIdx := s.rng.Intn(len(s.tiers))
		idx := float64(tierIdx + 1)
		batch = append(batch, types.Baseline{
			Name: name,
			Tier: s.tiers[tierIdx],
			Metrics: stats.Tuple{
				BoostUsage: round3(0.25 + idx*0.05 + s.jitter(0.02)),
				FlipCount:  4 + idx*2 + float64(s.rng.Intn(3)-1),
				Shots:      1 + idx*0.8 + s.jitter(0.5),
				Goals:      round3(0.1 + idx*0.15 + s.jitter(0.05)),
			},
		})
	}
	return batch, nil
}

// jitter returns a uniform value in [-scale, scale].
func (s *SyntheticSource) jitter(scale float64) float64 {
	return (s.rng.Float64()*2 - 1) * scale
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
