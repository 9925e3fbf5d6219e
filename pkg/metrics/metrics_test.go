package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsOptions(t *testing.T) {
	Convey("Given metrics options", t, func() {
		Convey("When creating options", func() {
			namespaceOpt := WithNamespace("test-namespace")
			subsystemOpt := WithSubsystem("test-subsystem")
			metricPrefixOpt := WithMetricPrefix("test-prefix")
			histogramBucketsOpt := WithHistogramBuckets([]float64{0.1, 0.5, 1.0})
			metricsEnabledOpt := WithMetricsEnabled(true)
			refreshIntervalOpt := WithRefreshInterval(5 * time.Second)
			customLabelsOpt := WithCustomLabels(map[string]string{"env": "test"})

			Convey("Then they should be valid functions", func() {
				So(namespaceOpt, ShouldNotBeNil)
				So(subsystemOpt, ShouldNotBeNil)
				So(metricPrefixOpt, ShouldNotBeNil)
				So(histogramBucketsOpt, ShouldNotBeNil)
				So(metricsEnabledOpt, ShouldNotBeNil)
				So(refreshIntervalOpt, ShouldNotBeNil)
				So(customLabelsOpt, ShouldNotBeNil)
			})
		})
	})
}

func TestManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test-namespace"),
				WithSubsystem("test-subsystem"),
				WithMetricPrefix("test-prefix"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithMetricsEnabled(true),
				WithRefreshInterval(10*time.Second),
				WithCustomLabels(map[string]string{"env": "test", "version": "1.0"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the package-level recording functions", t, func() {
		Convey("When recording grading activity", func() {
			Convey("Then round counters should not panic", func() {
				So(func() {
					RecordRoundGraded()
					RecordRoundAlreadyGraded()
					RecordSelectionsGraded(12)
					RecordTicketScored()
				}, ShouldNotPanic)
			})

			Convey("Then grading latency and errors should not panic", func() {
				So(func() {
					RecordGradingLatency(100.0)
					RecordGradingLatency(250.0)
					RecordGradingError()
				}, ShouldNotPanic)
			})
		})

		Convey("When recording leaderboard activity", func() {
			Convey("Then fold and error counters should not panic", func() {
				So(func() {
					RecordLeaderboardFold()
					RecordLeaderboardFold()
					RecordLeaderboardError()
				}, ShouldNotPanic)
			})
		})

		Convey("When recording submissions", func() {
			Convey("Then ticket counters should not panic", func() {
				So(func() {
					RecordTicketSubmitted()
					RecordSubmissionError()
				}, ShouldNotPanic)
			})
		})

		Convey("When recording store latencies", func() {
			Convey("Then query and update histograms should not panic", func() {
				So(func() {
					RecordStoreQueryLatency(5.0)
					RecordStoreUpdateLatency(12.0)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording autograde activity", func() {
			Convey("Then queue and sweep metrics should not panic", func() {
				So(func() {
					UpdateAutogradeQueueSize(100)
					UpdateAutogradeQueueSize(0)
					RecordAutogradeRun()
					RecordAutogradeError()
				}, ShouldNotPanic)
			})
		})

		Convey("When updating totals", func() {
			Convey("Then gauges should not panic", func() {
				So(func() {
					UpdateTotalRounds(10)
					UpdateTotalTickets(250)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording HTTP activity", func() {
			Convey("Then request metrics should not panic", func() {
				So(func() {
					RecordHTTPRequest("/healthz", "GET", "200")
					RecordHTTPRequest("/rounds", "POST", "201")
					RecordHTTPRequestDuration("/leaderboard", "GET", "200", 15.0)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording component errors", func() {
			Convey("Then error counters should not panic", func() {
				So(func() {
					RecordErrorByComponent("grading", "timeout")
					RecordErrorByComponent("repository", "connection_failed")
					RecordErrorByComponent("autograde", "queue_full")
				}, ShouldNotPanic)
			})
		})

		Convey("When updating system metrics", func() {
			Convey("Then system gauges should not panic", func() {
				So(func() {
					UpdateSystemMemoryUsage(1024 * 1024)
					UpdateSystemGoroutineCount(42)
					RecordSystemGCPauseTime(1.5)
				}, ShouldNotPanic)
			})
		})

		Convey("When reading the registry", func() {
			registry := GetRegistry()

			Convey("Then it should be available", func() {
				So(registry, ShouldNotBeNil)
			})
		})
	})
}
