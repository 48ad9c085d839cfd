// Package repository defines the match store interface and errors.
package repository

import (
	"context"
	"time"

	"github.com/okian/rlcoach/internal/domain/stats"
	"github.com/okian/rlcoach/internal/domain/types"
)

// Player is one tracked player row.
type Player struct {
	ID   string
	Tier string
}

// Store provides read/write access to match, metrics and baseline state.
type Store interface {
	// EnsurePlayer creates the player row if absent and returns it.
	// New players get the provided tier.
	EnsurePlayer(ctx context.Context, playerID, tier string) (Player, error)

	// Player returns the stored player row.
	// Returns ErrNotFound for an unknown player.
	Player(ctx context.Context, playerID string) (Player, error)

	// SaveMatch persists a raw match record verbatim under matchID.
	SaveMatch(ctx context.Context, matchID, playerID string, raw []byte, uploadedAt time.Time) error

	// SaveMetrics stores the derived tuple alongside its raw record.
	SaveMetrics(ctx context.Context, matchID string, t stats.Tuple) error

	// MetricsForPlayer returns all derived tuples for a player, read in
	// one transaction so the aggregate sees a consistent snapshot.
	MetricsForPlayer(ctx context.Context, playerID string) ([]stats.Tuple, error)

	// TopMatches returns up to n of the player's matches ordered by
	// goals descending.
	TopMatches(ctx context.Context, playerID string, n int) ([]types.MatchHighlight, error)

	// BaselineTuples returns the reference performer tuples at a tier.
	BaselineTuples(ctx context.Context, tier string) ([]stats.Tuple, error)

	// Baselines returns all stored reference performer rows.
	Baselines(ctx context.Context) ([]types.Baseline, error)

	// UpsertBaseline inserts or replaces a reference performer's metrics,
	// keyed by performer name.
	UpsertBaseline(ctx context.Context, name, tier string, t stats.Tuple) error

	// Counts returns the number of tracked players and stored matches.
	Counts(ctx context.Context) (players, matches int)
}
