package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/okian/rlcoach/internal/domain/stats"
	"github.com/okian/rlcoach/internal/domain/types"
	"github.com/okian/rlcoach/pkg/metrics"
)

//go:embed schema.sql
var schemaSQL string

// Seed baseline rows inserted on first start so coach comparisons work
// before the first scrape refresh replaces them.
var seedBaselines = []types.Baseline{
	{Name: "StreamerAlpha", Tier: "Bronze", Metrics: stats.Tuple{BoostUsage: 0.30, FlipCount: 5, Shots: 1, Goals: 0}},
	{Name: "StreamerBeta", Tier: "Silver", Metrics: stats.Tuple{BoostUsage: 0.35, FlipCount: 7, Shots: 2, Goals: 0.2}},
	{Name: "StreamerGamma", Tier: "Gold", Metrics: stats.Tuple{BoostUsage: 0.40, FlipCount: 9, Shots: 3, Goals: 0.4}},
	{Name: "StreamerDelta", Tier: "Platinum", Metrics: stats.Tuple{BoostUsage: 0.45, FlipCount: 11, Shots: 3.5, Goals: 0.6}},
	{Name: "StreamerEpsilon", Tier: "Diamond", Metrics: stats.Tuple{BoostUsage: 0.50, FlipCount: 13, Shots: 4, Goals: 0.8}},
}

// SQLiteStore implements Store on a local SQLite database.
type SQLiteStore struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database at the given path, applies
// the schema and seeds the baseline table when it is empty.
func Open(path string) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_journal_mode=WAL", path)
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	s := &SQLiteStore{conn: conn}
	if err := s.seed(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("seed baselines: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) seed() error {
	var count int
	if err := s.conn.QueryRow("SELECT COUNT(1) FROM baselines").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	for _, b := range seedBaselines {
		if err := s.UpsertBaseline(context.Background(), b.Name, b.Tier, b.Metrics); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the underlying connection.
func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}

// EnsurePlayer creates the player row if absent and returns it.
func (s *SQLiteStore) EnsurePlayer(ctx context.Context, playerID, tier string) (Player, error) {
	start := time.Now()
	defer observeWrite(start)

	if _, err := s.conn.ExecContext(ctx,
		"INSERT OR IGNORE INTO players(id, tier) VALUES (?, ?)", playerID, tier,
	); err != nil {
		return Player{}, fmt.Errorf("ensure player %s: %w", playerID, err)
	}
	return s.Player(ctx, playerID)
}

// Player returns the stored player row.
func (s *SQLiteStore) Player(ctx context.Context, playerID string) (Player, error) {
	start := time.Now()
	defer observeRead(start)

	var p Player
	err := s.conn.QueryRowContext(ctx,
		"SELECT id, tier FROM players WHERE id = ?", playerID,
	).Scan(&p.ID, &p.Tier)
	if errors.Is(err, sql.ErrNoRows) {
		return Player{}, fmt.Errorf("player %s: %w", playerID, ErrNotFound)
	}
	if err != nil {
		return Player{}, fmt.Errorf("query player %s: %w", playerID, err)
	}
	return p, nil
}

// SaveMatch persists a raw match record verbatim under matchID.
func (s *SQLiteStore) SaveMatch(ctx context.Context, matchID, playerID string, raw []byte, uploadedAt time.Time) error {
	start := time.Now()
	defer observeWrite(start)

	_, err := s.conn.ExecContext(ctx,
		"INSERT INTO matches(id, player_id, uploaded_at, raw) VALUES (?, ?, ?, ?)",
		matchID, playerID, uploadedAt.UTC().Format(time.RFC3339Nano), raw,
	)
	if err != nil {
		return fmt.Errorf("insert match %s: %w", matchID, err)
	}
	return nil
}

// SaveMetrics stores the derived tuple alongside its raw record.
func (s *SQLiteStore) SaveMetrics(ctx context.Context, matchID string, t stats.Tuple) error {
	start := time.Now()
	defer observeWrite(start)

	res, err := s.conn.ExecContext(ctx,
		"UPDATE matches SET boost_usage = ?, flip_count = ?, shots = ?, goals = ? WHERE id = ?",
		t.BoostUsage, t.FlipCount, t.Shots, t.Goals, matchID,
	)
	if err != nil {
		return fmt.Errorf("update metrics for match %s: %w", matchID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("match %s: %w", matchID, ErrNotFound)
	}
	return nil
}

// MetricsForPlayer returns all derived tuples for a player inside one
// read transaction so the caller's aggregate reflects a consistent
// snapshot of the stored matches.
func (s *SQLiteStore) MetricsForPlayer(ctx context.Context, playerID string) ([]stats.Tuple, error) {
	start := time.Now()
	defer observeRead(start)

	tx, err := s.conn.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("begin metrics read: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // read-only transaction

	rows, err := tx.QueryContext(ctx,
		"SELECT boost_usage, flip_count, shots, goals FROM matches WHERE player_id = ? AND boost_usage IS NOT NULL ORDER BY uploaded_at",
		playerID,
	)
	if err != nil {
		return nil, fmt.Errorf("query metrics for %s: %w", playerID, err)
	}
	defer rows.Close()

	var tuples []stats.Tuple
	for rows.Next() {
		var t stats.Tuple
		if err := rows.Scan(&t.BoostUsage, &t.FlipCount, &t.Shots, &t.Goals); err != nil {
			return nil, fmt.Errorf("scan metrics row: %w", err)
		}
		tuples = append(tuples, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate metrics rows: %w", err)
	}
	return tuples, tx.Commit()
}

// TopMatches returns up to n matches ordered by goals descending.
func (s *SQLiteStore) TopMatches(ctx context.Context, playerID string, n int) ([]types.MatchHighlight, error) {
	start := time.Now()
	defer observeRead(start)

	rows, err := s.conn.QueryContext(ctx,
		"SELECT id, goals FROM matches WHERE player_id = ? AND goals IS NOT NULL ORDER BY goals DESC, uploaded_at LIMIT ?",
		playerID, n,
	)
	if err != nil {
		return nil, fmt.Errorf("query top matches for %s: %w", playerID, err)
	}
	defer rows.Close()

	var highlights []types.MatchHighlight
	for rows.Next() {
		var h types.MatchHighlight
		if err := rows.Scan(&h.MatchID, &h.Goals); err != nil {
			return nil, fmt.Errorf("scan top match row: %w", err)
		}
		highlights = append(highlights, h)
	}
	return highlights, rows.Err()
}

// BaselineTuples returns the reference performer tuples at a tier.
func (s *SQLiteStore) BaselineTuples(ctx context.Context, tier string) ([]stats.Tuple, error) {
	start := time.Now()
	defer observeRead(start)

	rows, err := s.conn.QueryContext(ctx,
		"SELECT boost_usage, flip_count, shots, goals FROM baselines WHERE tier = ?", tier,
	)
	if err != nil {
		return nil, fmt.Errorf("query baselines for tier %s: %w", tier, err)
	}
	defer rows.Close()

	var tuples []stats.Tuple
	for rows.Next() {
		var t stats.Tuple
		if err := rows.Scan(&t.BoostUsage, &t.FlipCount, &t.Shots, &t.Goals); err != nil {
			return nil, fmt.Errorf("scan baseline row: %w", err)
		}
		tuples = append(tuples, t)
	}
	return tuples, rows.Err()
}

// Baselines returns all stored reference performer rows.
func (s *SQLiteStore) Baselines(ctx context.Context) ([]types.Baseline, error) {
	start := time.Now()
	defer observeRead(start)

	rows, err := s.conn.QueryContext(ctx,
		"SELECT name, tier, boost_usage, flip_count, shots, goals FROM baselines ORDER BY tier, name",
	)
	if err != nil {
		return nil, fmt.Errorf("query baselines: %w", err)
	}
	defer rows.Close()

	var baselines []types.Baseline
	for rows.Next() {
		var b types.Baseline
		if err := rows.Scan(&b.Name, &b.Tier, &b.Metrics.BoostUsage, &b.Metrics.FlipCount, &b.Metrics.Shots, &b.Metrics.Goals); err != nil {
			return nil, fmt.Errorf("scan baseline row: %w", err)
		}
		baselines = append(baselines, b)
	}
	return baselines, rows.Err()
}

// UpsertBaseline inserts or replaces a reference performer's metrics.
func (s *SQLiteStore) UpsertBaseline(ctx context.Context, name, tier string, t stats.Tuple) error {
	start := time.Now()
	defer observeWrite(start)

	_, err := s.conn.ExecContext(ctx,
		"INSERT OR REPLACE INTO baselines(name, tier, boost_usage, flip_count, shots, goals) VALUES (?, ?, ?, ?, ?, ?)",
		name, tier, t.BoostUsage, t.FlipCount, t.Shots, t.Goals,
	)
	if err != nil {
		return fmt.Errorf("upsert baseline %s: %w", name, err)
	}
	return nil
}

// Counts returns the number of tracked players and stored matches.
func (s *SQLiteStore) Counts(ctx context.Context) (players, matches int) {
	_ = s.conn.QueryRowContext(ctx, "SELECT COUNT(1) FROM players").Scan(&players)
	_ = s.conn.QueryRowContext(ctx, "SELECT COUNT(1) FROM matches").Scan(&matches)
	return players, matches
}

func observeWrite(start time.Time) {
	metrics.RecordRepositoryWriteLatency(float64(time.Since(start).Milliseconds()))
}

func observeRead(start time.Time) {
	metrics.RecordRepositoryReadLatency(float64(time.Since(start).Milliseconds()))
}
