package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/okrscore/internal/config"
	"github.com/okian/okrscore/pkg/logger"
	"github.com/okian/okrscore/pkg/metrics"
	"github.com/smartystreets/goconvey/convey"
)

const snapshot = `
divisions:
  - id: ops
    name: Operations
    departments:
      - id: support
        name: Support
        objectives:
          - id: o1
            name: Faster answers
            key_results:
              - id: k1
                name: First response hours
                metric_type: LOWER_BETTER
                weight: 100
                actual_value: "7"
                thresholds: {below: 10, meets: 8, good: 5, very_good: 3, exceptional: 1}
`

func TestWiring(t *testing.T) {
	convey.Convey("Given a config pointing at a snapshot", t, func() {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "org.yaml")
		convey.So(os.WriteFile(path, []byte(snapshot), 0o600), convey.ShouldBeNil)

		cfg := config.New(ctx)
		cfg.SnapshotPath = path

		convey.Convey("When the service and mux are built", func() {
			svc, err := newService(cfg, logger.NewNop())
			convey.So(err, convey.ShouldBeNil)
			mux := newMux(ctx, cfg, svc, logger.NewNop())

			convey.Convey("Then the API routes serve the snapshot", func() {
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/departments/support", http.NoBody))
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(w.Body.String(), convey.ShouldContainSubstring, `"level":"meets"`)
			})

			convey.Convey("And the API docs are mounted", func() {
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/openapi.yaml", http.NoBody))
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			})
		})

		convey.Convey("When metrics are configured", func() {
			cfg.MetricsNamespace = "okr"
			cfg.MetricsPrefix = "scoring"
			metrics.Init(metricsOptions(cfg)...)
			defer metrics.Init()

			svc, err := newService(cfg, logger.NewNop())
			convey.So(err, convey.ShouldBeNil)
			mux := newMux(ctx, cfg, svc, logger.NewNop())

			convey.Convey("Then /healthz exposes them under the configured names", func() {
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody))
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(w.Body.String(), convey.ShouldContainSubstring, "okr_engine_scoring_levels_configured")
			})
		})

		convey.Convey("When the snapshot is missing", func() {
			cfg.SnapshotPath = filepath.Join(t.TempDir(), "missing.yaml")
			_, err := newService(cfg, logger.NewNop())
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}
