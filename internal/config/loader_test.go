package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	config "github.com/okian/rlcoach/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

// clearConfigEnvVars removes every RLCOACH_ variable that could leak
// between test cases.
func clearConfigEnvVars(t *testing.T) {
	t.Helper()
	vars := []string{
		"RLCOACH_CONFIG", "RLCOACH_LOG_LEVEL", "RLCOACH_ADDR", "RLCOACH_DB_PATH",
		"RLCOACH_QUEUE_SIZE", "RLCOACH_WORKER_COUNT", "RLCOACH_DEDUPE_SIZE",
		"RLCOACH_MAX_UPLOAD_BYTES", "RLCOACH_DEFAULT_TIER",
		"RLCOACH_BASELINE_REFRESH_SECONDS", "RLCOACH_SCRAPE_SEED",
	}
	for _, v := range vars {
		t.Setenv(v, "")
		os.Unsetenv(v)
	}
}

func TestLoad(t *testing.T) {
	ctx := context.Background()

	Convey("Given a clean environment", t, func() {
		clearConfigEnvVars(t)

		Convey("When loading without file or env overrides", func() {
			cfg, err := config.Load(ctx)

			Convey("Then defaults apply", func() {
				So(err, ShouldBeNil)
				So(cfg.LogLevel, ShouldEqual, "info")
				So(cfg.Addr, ShouldEqual, ":9080")
				So(cfg.DBPath, ShouldEqual, "rlcoach.db")
				So(cfg.UploadQueueSize, ShouldEqual, 10_000)
				So(cfg.DedupeSize, ShouldEqual, 50_000)
				So(cfg.DefaultTier, ShouldEqual, "Gold")
				So(cfg.MaxUploadBytes, ShouldEqual, int64(4<<20))
				So(cfg.BaselineRefreshSeconds, ShouldEqual, 3600)
			})
		})

		Convey("When env vars override defaults", func() {
			t.Setenv("RLCOACH_ADDR", ":7070")
			t.Setenv("RLCOACH_QUEUE_SIZE", "123")
			t.Setenv("RLCOACH_DEFAULT_TIER", "Diamond")

			cfg, err := config.Load(ctx)

			Convey("Then the env values win", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":7070")
				So(cfg.UploadQueueSize, ShouldEqual, 123)
				So(cfg.DefaultTier, ShouldEqual, "Diamond")
				// Untouched keys keep their defaults.
				So(cfg.DBPath, ShouldEqual, "rlcoach.db")
			})
		})

		Convey("When a YAML config file is provided", func() {
			path := filepath.Join(t.TempDir(), "config.yaml")
			content := []byte("addr: \":6060\"\ndb_path: custom.db\nworker_count: 3\n")
			So(os.WriteFile(path, content, 0o600), ShouldBeNil)
			t.Setenv("RLCOACH_CONFIG", path)

			Convey("Then file values override defaults", func() {
				cfg, err := config.Load(ctx)
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":6060")
				So(cfg.DBPath, ShouldEqual, "custom.db")
				So(cfg.WorkerCount, ShouldEqual, 3)
			})

			Convey("And env values override the file", func() {
				t.Setenv("RLCOACH_ADDR", ":5050")
				cfg, err := config.Load(ctx)
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":5050")
				So(cfg.DBPath, ShouldEqual, "custom.db")
			})
		})

		Convey("When the config file path does not exist", func() {
			t.Setenv("RLCOACH_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
			_, err := config.Load(ctx)

			Convey("Then loading fails", func() {
				So(err, ShouldNotBeNil)
			})
		})

		Convey("When validation fails", func() {
			t.Setenv("RLCOACH_MAX_UPLOAD_BYTES", "0")
			_, err := config.Load(ctx)

			Convey("Then an error is returned", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}
