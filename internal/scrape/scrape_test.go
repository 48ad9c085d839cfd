package scrape_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	stats "github.com/okian/rlcoach/internal/domain/stats"
	scrape "github.com/okian/rlcoach/internal/scrape"
	logger "github.com/okian/rlcoach/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeWriter struct {
	mu      sync.Mutex
	rows    map[string]string
	failure error
}

func newFakeWriter() *fakeWriter {
	return &fakeWriter{rows: make(map[string]string)}
}

func (w *fakeWriter) UpsertBaseline(_ context.Context, name, tier string, _ stats.Tuple) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.failure != nil {
		return w.failure
	}
	w.rows[name] = tier
	return nil
}

func TestSyntheticSource(t *testing.T) {
	ctx := context.Background()

	Convey("Given a synthetic baseline source", t, func() {
		Convey("When scraping a batch", func() {
			src := scrape.NewSyntheticSource(scrape.WithSeed(7))
			batch, err := src.Scrape(ctx)

			Convey("Then every performer gets a tier and sane metrics", func() {
				So(err, ShouldBeNil)
				So(len(batch), ShouldBeGreaterThan, 0)
				for _, b := range batch {
					So(b.Name, ShouldNotBeEmpty)
					So(b.Tier, ShouldNotBeEmpty)
					So(b.Metrics.BoostUsage, ShouldBeGreaterThan, 0)
					So(b.Metrics.FlipCount, ShouldBeGreaterThan, 0)
					So(b.Metrics.Shots, ShouldBeGreaterThan, 0)
					So(b.Metrics.Goals, ShouldBeGreaterThan, 0)
				}
			})
		})

		Convey("When two sources share a seed", func() {
			a, err1 := scrape.NewSyntheticSource(scrape.WithSeed(7)).Scrape(ctx)
			b, err2 := scrape.NewSyntheticSource(scrape.WithSeed(7)).Scrape(ctx)

			Convey("Then the batches are identical", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(a, ShouldResemble, b)
			})
		})

		Convey("When custom performers and tiers are configured", func() {
			src := scrape.NewSyntheticSource(
				scrape.WithSeed(1),
				scrape.WithPerformers([]string{"Solo"}),
				scrape.WithTiers([]string{"OnlyTier"}),
			)
			batch, err := src.Scrape(ctx)

			Convey("Then the batch uses them", func() {
				So(err, ShouldBeNil)
				So(batch, ShouldHaveLength, 1)
				So(batch[0].Name, ShouldEqual, "Solo")
				So(batch[0].Tier, ShouldEqual, "OnlyTier")
			})
		})

		Convey("When the context is already canceled", func() {
			canceled, cancel := context.WithCancel(ctx)
			cancel()
			_, err := scrape.NewSyntheticSource().Scrape(canceled)

			Convey("Then scraping fails", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestRefresher(t *testing.T) {
	if err := logger.Init(); err != nil {
		t.Fatalf("init logger: %v", err)
	}

	ctx := context.Background()

	Convey("Given a refresher over a synthetic source", t, func() {
		writer := newFakeWriter()
		src := scrape.NewSyntheticSource(scrape.WithSeed(7))
		refresher := scrape.NewRefresher(src, writer, 0)

		Convey("When refreshing once", func() {
			err := refresher.RefreshOnce(ctx)

			Convey("Then every scraped performer is upserted", func() {
				So(err, ShouldBeNil)
				So(len(writer.rows), ShouldBeGreaterThan, 0)
			})
		})

		Convey("When the writer fails", func() {
			writer.failure = errors.New("disk full")
			err := refresher.RefreshOnce(ctx)

			Convey("Then the refresh reports the failure", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}
