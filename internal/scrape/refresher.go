package scrape

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/rlcoach/internal/domain/stats"
	"github.com/okian/rlcoach/pkg/logger"
	"github.com/okian/rlcoach/pkg/metrics"
)

// BaselineWriter persists scraped reference performer rows.
type BaselineWriter interface {
	UpsertBaseline(ctx context.Context, name, tier string, t stats.Tuple) error
}

// Refresher periodically pulls a batch from a Source and upserts it into
// the baseline store, replacing each performer's previous row.
type Refresher struct {
	source   Source
	writer   BaselineWriter
	interval time.Duration
	logger   logger.Logger
}

// NewRefresher creates a refresher. A non-positive interval disables the
// background loop; RefreshOnce can still be called directly.
func NewRefresher(source Source, writer BaselineWriter, interval time.Duration) *Refresher {
	return &Refresher{
		source:   source,
		writer:   writer,
		interval: interval,
		logger:   logger.Get().Named("baseline-refresher"),
	}
}

// Run refreshes on the configured interval until ctx is canceled.
func (r *Refresher) Run(ctx context.Context) {
	if r.interval <= 0 {
		return
	}
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.RefreshOnce(ctx); err != nil {
				r.logger.Error(ctx, "baseline refresh failed", logger.Error(err))
			}
		}
	}
}

// RefreshOnce performs a single scrape-and-upsert pass.
func (r *Refresher) RefreshOnce(ctx context.Context) error {
	batch, err := r.source.Scrape(ctx)
	if err != nil {
		metrics.RecordErrorByComponent("scrape", "source_error")
		return fmt.Errorf("scrape baselines: %w", err)
	}
	for _, b := range batch {
		if err := r.writer.UpsertBaseline(ctx, b.Name, b.Tier, b.Metrics); err != nil {
			metrics.RecordErrorByComponent("scrape", "store_error")
			return fmt.Errorf("upsert baseline %s: %w", b.Name, err)
		}
	}
	metrics.RecordBaselineRefresh()
	r.logger.Info(ctx, "baselines refreshed", logger.Int("performers", len(batch)))
	return nil
}
