package repository_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	repository "github.com/okian/rlcoach/internal/adapters/repository"
	stats "github.com/okian/rlcoach/internal/domain/stats"
	. "github.com/smartystreets/goconvey/convey"
)

func openTestStore(t *testing.T) *repository.SQLiteStore {
	t.Helper()
	store, err := repository.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()

	Convey("Given a fresh SQLite store", t, func() {
		store := openTestStore(t)

		Convey("When it is opened for the first time", func() {
			Convey("Then baselines are seeded across tiers", func() {
				baselines, err := store.Baselines(ctx)
				So(err, ShouldBeNil)
				So(len(baselines), ShouldEqual, 5)

				tuples, err := store.BaselineTuples(ctx, "Gold")
				So(err, ShouldBeNil)
				So(tuples, ShouldHaveLength, 1)
				So(tuples[0].FlipCount, ShouldEqual, 9)
			})
		})

		Convey("When ensuring a player", func() {
			p, err := store.EnsurePlayer(ctx, "player-1", "Gold")
			So(err, ShouldBeNil)

			Convey("Then the row is created with the given tier", func() {
				So(p.ID, ShouldEqual, "player-1")
				So(p.Tier, ShouldEqual, "Gold")
			})

			Convey("And ensuring again keeps the original tier", func() {
				p2, err := store.EnsurePlayer(ctx, "player-1", "Diamond")
				So(err, ShouldBeNil)
				So(p2.Tier, ShouldEqual, "Gold")
			})
		})

		Convey("When looking up an unknown player", func() {
			_, err := store.Player(ctx, "nobody")

			Convey("Then ErrNotFound is returned", func() {
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When saving matches and metrics", func() {
			_, err := store.EnsurePlayer(ctx, "player-1", "Gold")
			So(err, ShouldBeNil)
			So(store.SaveMatch(ctx, "m-1", "player-1", []byte(`{"goals":2}`), time.Now()), ShouldBeNil)
			So(store.SaveMatch(ctx, "m-2", "player-1", []byte(`{"goals":1}`), time.Now()), ShouldBeNil)

			Convey("Then metrics reads skip matches without derived tuples", func() {
				tuples, err := store.MetricsForPlayer(ctx, "player-1")
				So(err, ShouldBeNil)
				So(tuples, ShouldBeEmpty)
			})

			Convey("And stored tuples come back in upload order", func() {
				So(store.SaveMetrics(ctx, "m-1", stats.Tuple{BoostUsage: 0.4, FlipCount: 2, Shots: 3, Goals: 2}), ShouldBeNil)
				So(store.SaveMetrics(ctx, "m-2", stats.Tuple{BoostUsage: 0.2, FlipCount: 1, Shots: 1, Goals: 1}), ShouldBeNil)

				tuples, err := store.MetricsForPlayer(ctx, "player-1")
				So(err, ShouldBeNil)
				So(tuples, ShouldHaveLength, 2)
				So(tuples[0].Goals, ShouldEqual, 2)
				So(tuples[1].Goals, ShouldEqual, 1)
			})

			Convey("And metrics for an unknown match return ErrNotFound", func() {
				err := store.SaveMetrics(ctx, "ghost", stats.Tuple{})
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})

			Convey("And top matches are ordered by goals", func() {
				So(store.SaveMetrics(ctx, "m-1", stats.Tuple{Goals: 1}), ShouldBeNil)
				So(store.SaveMetrics(ctx, "m-2", stats.Tuple{Goals: 4}), ShouldBeNil)

				top, err := store.TopMatches(ctx, "player-1", 5)
				So(err, ShouldBeNil)
				So(top, ShouldHaveLength, 2)
				So(top[0].MatchID, ShouldEqual, "m-2")
				So(top[0].Goals, ShouldEqual, 4)
			})
		})

		Convey("When upserting a baseline twice", func() {
			So(store.UpsertBaseline(ctx, "TestPerformer", "Gold", stats.Tuple{Shots: 1}), ShouldBeNil)
			So(store.UpsertBaseline(ctx, "TestPerformer", "Platinum", stats.Tuple{Shots: 9}), ShouldBeNil)

			Convey("Then the second write replaces the first", func() {
				baselines, err := store.Baselines(ctx)
				So(err, ShouldBeNil)

				found := 0
				for _, b := range baselines {
					if b.Name == "TestPerformer" {
						found++
						So(b.Tier, ShouldEqual, "Platinum")
						So(b.Metrics.Shots, ShouldEqual, 9)
					}
				}
				So(found, ShouldEqual, 1)
			})
		})

		Convey("When counting rows", func() {
			_, err := store.EnsurePlayer(ctx, "player-1", "Gold")
			So(err, ShouldBeNil)
			So(store.SaveMatch(ctx, "m-1", "player-1", []byte(`{}`), time.Now()), ShouldBeNil)

			players, matches := store.Counts(ctx)
			So(players, ShouldEqual, 1)
			So(matches, ShouldEqual, 1)
		})
	})
}
