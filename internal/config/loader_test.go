package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/okrscore/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

const fileConfig = `
addr: ":7070"
log_level: debug
snapshot_path: /data/org.yaml
metrics_refresh: 30s
metrics_namespace: okr
metrics_buckets: [1, 5, 25]
metrics_labels:
  env: staging
levels:
  - name: Low
    score_value: 1
    color: "#d9534f"
    display_order: 0
  - name: High
    score_value: 5
    color: "#1e7b34"
    display_order: 1
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			t.Setenv(config.EnvConfigPath, "")
			cfg, err := config.Load(ctx)

			convey.Convey("Then the defaults are returned", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.MaxBodyBytes, convey.ShouldEqual, 1<<20)
			})
		})

		convey.Convey("When loading a YAML file", func() {
			t.Setenv(config.EnvConfigPath, writeConfig(t, fileConfig))
			cfg, err := config.Load(ctx)

			convey.Convey("Then file values override defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.SnapshotPath, convey.ShouldEqual, "/data/org.yaml")
				convey.So(cfg.MetricsRefresh, convey.ShouldEqual, 30*time.Second)
				convey.So(cfg.Levels, convey.ShouldHaveLength, 2)
				convey.So(cfg.Levels[1].ScoreValue, convey.ShouldEqual, 5.0)
				convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
				convey.So(cfg.MetricsNamespace, convey.ShouldEqual, "okr")
				convey.So(cfg.MetricsSubsystem, convey.ShouldEqual, "engine")
				convey.So(cfg.MetricsBuckets, convey.ShouldResemble, []float64{1, 5, 25})
				convey.So(cfg.MetricsLabels["env"], convey.ShouldEqual, "staging")
				convey.So(cfg.MetricsEnabled, convey.ShouldBeTrue)
			})

			convey.Convey("And environment variables override the file", func() {
				t.Setenv("OKRSCORE_ADDR", ":6060")
				t.Setenv("OKRSCORE_MAX_BODY_BYTES", "2048")
				t.Setenv("OKRSCORE_METRICS_ENABLED", "false")
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.MetricsEnabled, convey.ShouldBeFalse)
				convey.So(cfg.Addr, convey.ShouldEqual, ":6060")
				convey.So(cfg.MaxBodyBytes, convey.ShouldEqual, 2048)
			})
		})

		convey.Convey("When the file does not exist", func() {
			t.Setenv(config.EnvConfigPath, filepath.Join(t.TempDir(), "missing.yaml"))
			_, err := config.Load(ctx)
			convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When the file holds invalid levels", func() {
			t.Setenv(config.EnvConfigPath, writeConfig(t, "levels:\n  - name: Low\n    color: red\n"))
			_, err := config.Load(ctx)
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When histogram buckets are not increasing", func() {
			t.Setenv(config.EnvConfigPath, writeConfig(t, "metrics_buckets: [5, 1]\n"))
			_, err := config.Load(ctx)
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When the log format is unknown", func() {
			t.Setenv(config.EnvConfigPath, "")
			t.Setenv("OKRSCORE_LOG_FORMAT", "xml")
			_, err := config.Load(ctx)
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
		})
	})
}
