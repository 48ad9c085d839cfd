// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	uploadqueue "github.com/okian/rlcoach/internal/adapters/mq/queue"
	workerpool "github.com/okian/rlcoach/internal/adapters/mq/worker"
	"github.com/okian/rlcoach/internal/adapters/repository"
	"github.com/okian/rlcoach/internal/domain/coach"
	"github.com/okian/rlcoach/internal/domain/dedupe"
	"github.com/okian/rlcoach/internal/domain/model"
	"github.com/okian/rlcoach/internal/domain/stats"
	"github.com/okian/rlcoach/internal/domain/types"
	"github.com/okian/rlcoach/internal/scrape"
	"github.com/okian/rlcoach/pkg/logger"
	"github.com/okian/rlcoach/pkg/metrics"
)

// ErrBackpressure signals that the upload queue is full and the caller
// should retry later.
var ErrBackpressure = uploadqueue.ErrFull

const topMatchLimit = 5

// Service implements the API dependencies for the match analyzer.
type Service struct {
	mu sync.RWMutex

	// Core components
	store      repository.Store
	deduper    dedupe.Deduper
	queue      uploadqueue.Queue
	pool       *workerpool.Pool
	refresher  *scrape.Refresher
	closeStore func() error

	// Configuration
	workerCount     int
	queueSize       int
	dedupeSize      int
	dbPath          string
	defaultTier     string
	refreshInterval time.Duration
	scrapeSeed      int64

	// State
	started bool
	stopCh  chan struct{}

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of extraction workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the upload queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the upload idempotency cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithDBPath sets the SQLite database file path.
func WithDBPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.dbPath = path
		}
	}
}

// WithDefaultTier sets the tier assigned to first-seen players.
func WithDefaultTier(tier string) Option {
	return func(s *Service) {
		if tier != "" {
			s.defaultTier = tier
		}
	}
}

// WithBaselineRefreshInterval sets the background refresh cadence.
// Zero or negative disables the background refresher.
func WithBaselineRefreshInterval(interval time.Duration) Option {
	return func(s *Service) {
		s.refreshInterval = interval
	}
}

// WithScrapeSeed seeds the synthetic baseline source.
func WithScrapeSeed(seed int64) Option {
	return func(s *Service) {
		s.scrapeSeed = seed
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore injects a pre-built store, mainly for tests.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:     runtime.NumCPU() * 2,
		queueSize:       10_000,
		dedupeSize:      50_000,
		dbPath:          "rlcoach.db",
		defaultTier:     "Gold",
		refreshInterval: time.Hour,
		scrapeSeed:      42,
		stopCh:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting match analyzer service...")

	if s.store == nil {
		store, err := repository.Open(s.dbPath)
		if err != nil {
			return fmt.Errorf("open match store: %w", err)
		}
		s.store = store
		s.closeStore = store.Close
	}

	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.queue = uploadqueue.NewInMemoryQueue(
		uploadqueue.WithCapacity(s.queueSize),
	)

	s.pool = workerpool.NewPool(
		s.workerCount,
		s.queue,
		workerpool.ExtractorFunc(stats.Extract),
		s.store,
	)
	s.pool.Start(ctx)

	source := scrape.NewSyntheticSource(scrape.WithSeed(s.scrapeSeed))
	s.refresher = scrape.NewRefresher(source, s.store, s.refreshInterval)
	go s.refresher.Run(ctx)

	s.started = true
	s.logger.Info(ctx, "match analyzer service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.String("dbPath", s.dbPath),
	)
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping match analyzer service...")

	// Close the queue first so workers drain it and exit.
	if s.queue != nil {
		_ = s.queue.Close()
	}
	if s.pool != nil {
		s.pool.Stop()
	}
	if s.closeStore != nil {
		_ = s.closeStore()
	}

	select {
	case <-s.stopCh:
	default:
		close(s.stopCh)
	}

	s.started = false
	s.logger.Info(ctx, "match analyzer service stopped")
}

// SeenAndRecord atomically checks if an upload hash was seen and records
// it if not. Returns true if the upload was already seen.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	seen := s.deduper.SeenAndRecord(ctx, id)
	if seen {
		metrics.RecordUploadDuplicate()
	}
	return seen
}

// Unrecord removes an upload hash from the seen set, allowing a retry.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.deduper.Unrecord(ctx, id)
}

// Size returns the current number of entries in the deduper.
func (s *Service) Size() int64 {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}

// Ingest persists a raw match record and enqueues it for metrics
// extraction. The raw bytes are stored verbatim before the job enters
// the queue, so a crashed worker never loses the upload itself.
// Returns ErrBackpressure when the queue is full.
func (s *Service) Ingest(ctx context.Context, playerID string, raw []byte) (string, error) {
	if _, err := s.store.EnsurePlayer(ctx, playerID, s.defaultTier); err != nil {
		return "", fmt.Errorf("ensure player: %w", err)
	}

	matchID := uuid.NewString()
	now := time.Now()
	if err := s.store.SaveMatch(ctx, matchID, playerID, raw, now); err != nil {
		metrics.RecordStoreError()
		return "", fmt.Errorf("save match: %w", err)
	}

	job := model.UploadJob{
		MatchID:    matchID,
		PlayerID:   playerID,
		Raw:        raw,
		ReceivedAt: now,
	}
	if !s.queue.Enqueue(ctx, job) {
		return "", ErrBackpressure
	}

	metrics.RecordUploadAccepted()
	s.logger.Debug(ctx, "upload accepted",
		logger.String("matchID", matchID),
		logger.String("playerID", playerID),
		logger.Int("bytes", len(raw)),
	)
	return matchID, nil
}

// Profile returns the player's aggregate averages and top matches.
func (s *Service) Profile(ctx context.Context, playerID string) (types.Profile, error) {
	player, err := s.store.Player(ctx, playerID)
	if err != nil {
		return types.Profile{}, err
	}
	tuples, err := s.store.MetricsForPlayer(ctx, playerID)
	if err != nil {
		return types.Profile{}, err
	}
	top, err := s.store.TopMatches(ctx, playerID, topMatchLimit)
	if err != nil {
		return types.Profile{}, err
	}
	return types.Profile{
		PlayerID:   player.ID,
		Tier:       player.Tier,
		Matches:    len(tuples),
		Averages:   stats.Aggregate(tuples),
		TopMatches: top,
	}, nil
}

// Coach compares the player's aggregate against their tier baseline and
// generates advice. Missing matches or an empty baseline cohort degrade
// to zero tuples rather than failing.
func (s *Service) Coach(ctx context.Context, playerID string) (types.CoachReport, error) {
	player, err := s.store.Player(ctx, playerID)
	if err != nil {
		return types.CoachReport{}, err
	}
	tuples, err := s.store.MetricsForPlayer(ctx, playerID)
	if err != nil {
		return types.CoachReport{}, err
	}
	baselineTuples, err := s.store.BaselineTuples(ctx, player.Tier)
	if err != nil {
		return types.CoachReport{}, err
	}

	averages := stats.Aggregate(tuples)
	baseline := stats.Aggregate(baselineTuples)
	comparison := coach.Compare(averages, baseline)
	shortTerm, longTerm := coach.Tips(comparison.Strengths, comparison.Weaknesses)

	return types.CoachReport{
		PlayerID:      player.ID,
		Tier:          player.Tier,
		Averages:      averages,
		Baseline:      baseline,
		Strengths:     comparison.Strengths,
		Weaknesses:    comparison.Weaknesses,
		BiggestGap:    comparison.BiggestGap,
		ShortTermTips: shortTerm,
		LongTermTips:  longTerm,
	}, nil
}

// Baselines returns stored reference performer rows, optionally filtered
// by tier.
func (s *Service) Baselines(ctx context.Context, tier string) ([]types.Baseline, error) {
	all, err := s.store.Baselines(ctx)
	if err != nil {
		return nil, err
	}
	if tier == "" {
		return all, nil
	}
	filtered := make([]types.Baseline, 0, len(all))
	for _, b := range all {
		if b.Tier == tier {
			filtered = append(filtered, b)
		}
	}
	return filtered, nil
}

// RefreshBaselines triggers one synchronous baseline refresh pass.
func (s *Service) RefreshBaselines(ctx context.Context) error {
	return s.refresher.RefreshOnce(ctx)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	out := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
	}

	if s.started {
		queueLen := s.queue.Len(ctx)
		players, matches := s.store.Counts(ctx)

		out["queueLength"] = queueLen
		out["totalPlayers"] = players
		out["totalMatches"] = matches

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateTotalPlayers(players)
		metrics.UpdateTotalMatches(matches)
		metrics.UpdateWorkerCount(s.workerCount)
	}
	return out
}
