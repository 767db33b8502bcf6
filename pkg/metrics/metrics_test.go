package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

// gathered sums the counter or gauge samples of the named family.
func gathered(reg *prometheus.Registry, name string) float64 {
	families, err := reg.Gather()
	if err != nil {
		return -1
	}
	var total float64
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, m := range f.GetMetric() {
			total += m.GetCounter().GetValue() + m.GetGauge().GetValue()
		}
	}
	return total
}

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test_namespace"),
				WithSubsystem("test_subsystem"),
				WithMetricPrefix("okr"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithMetricsEnabled(true),
				WithRefreshInterval(5*time.Second),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then the options are applied", func() {
				So(manager, ShouldNotBeNil)
				So(manager.Enabled(), ShouldBeTrue)
				So(manager.RefreshInterval(), ShouldEqual, 5*time.Second)

				manager.computations.WithLabelValues("objective").Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				names := make([]string, 0, len(families))
				for _, f := range families {
					names = append(names, f.GetName())
				}
				So(names, ShouldContain, "test_namespace_test_subsystem_okr_computations_total")
			})
		})

		Convey("When invalid options are passed", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace(""),
				WithRefreshInterval(-time.Second),
				WithPrometheusRegistry(registry),
			)

			Convey("Then defaults are kept", func() {
				So(manager.namespace, ShouldEqual, "okrscore")
				So(manager.RefreshInterval(), ShouldEqual, defaultRefreshInterval)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When scoring metrics are recorded", func() {
			before := gathered(GetRegistry(), "okrscore_engine_fallbacks_total")
			RecordFallback("unknown_grade")
			RecordFallback("unknown_grade")

			Convey("Then the counters move", func() {
				So(gathered(GetRegistry(), "okrscore_engine_fallbacks_total"), ShouldEqual, before+2)
			})
		})

		Convey("When level configuration metrics are recorded", func() {
			UpdateLevelsConfigured(5, true)

			Convey("Then the gauges reflect the configuration", func() {
				So(gathered(GetRegistry(), "okrscore_engine_levels_configured"), ShouldEqual, 5)
				So(gathered(GetRegistry(), "okrscore_engine_default_levels_active"), ShouldEqual, 1)
			})
		})

		Convey("When the remaining helpers are called", func() {
			So(func() {
				RecordComputation("department")
				RecordComputationLatency("department_score", 1.5)
				RecordCombinationPolicy("all_sources")
				RecordLevelCacheLoads(1)
				RecordLevelConfigUpdate("replace")
				RecordEvaluationSubmitted("HR")
				RecordEvaluationRejected("invalid_letter")
				UpdateRepositoryRecords("evaluations", 3)
				RecordRepositoryQueryLatency("org", 0.2)
				RecordRepositoryUpdateLatency("levels", 0.4)
				RecordSnapshotLoad(12)
				RecordHTTPRequest("/levels", "GET", "200")
				RecordHTTPRequestDuration("/levels", "GET", "200", 3)
				RecordErrorByComponent("api", "bad_request")
				RecordErrorByEndpoint("/evaluations", "POST", "conflict")
				UpdateSystemMemoryUsage(1024)
				UpdateSystemGoroutineCount(8)
				RecordSystemGCPauseTime(0.3)
			}, ShouldNotPanic)
			So(GetRegistry(), ShouldNotBeNil)
			So(Default(), ShouldEqual, globalManager)
		})
	})
}

func TestInit(t *testing.T) {
	Convey("Given a manager configured at startup", t, func() {
		m := Init(
			WithNamespace("wired"),
			WithSubsystem("api"),
			WithHistogramBuckets([]float64{1, 10, 100}),
			WithCustomLabels(map[string]string{"env": "test"}),
			WithRefreshInterval(3*time.Second),
		)
		defer Init()

		Convey("Then the global helpers record on the new registry", func() {
			So(Default(), ShouldEqual, m)
			So(Default().RefreshInterval(), ShouldEqual, 3*time.Second)
			RecordComputation("department")
			So(gathered(GetRegistry(), "wired_api_computations_total"), ShouldEqual, 1)
			So(gathered(GetRegistry(), "okrscore_engine_computations_total"), ShouldEqual, 0)
		})
	})

	Convey("Given metrics disabled at startup", t, func() {
		Init(WithMetricsEnabled(false))
		defer Init()

		Convey("Then helpers record nothing", func() {
			RecordFallback("unknown_grade")
			So(gathered(GetRegistry(), "okrscore_engine_fallbacks_total"), ShouldEqual, 0)
		})
	})
}
