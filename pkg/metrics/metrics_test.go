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
			histogramBucketsOpt := WithHistogramBuckets([]float64{0.1, 0.5, 1.0})
			metricsEnabledOpt := WithMetricsEnabled(true)
			refreshIntervalOpt := WithRefreshInterval(5 * time.Second)

			Convey("Then they should be valid functions", func() {
				So(namespaceOpt, ShouldNotBeNil)
				So(subsystemOpt, ShouldNotBeNil)
				So(histogramBucketsOpt, ShouldNotBeNil)
				So(metricsEnabledOpt, ShouldNotBeNil)
				So(refreshIntervalOpt, ShouldNotBeNil)
			})
		})
	})
}

func TestManagerCreation(t *testing.T) {
	Convey("Given manager creation", t, func() {
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
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithMetricsEnabled(true),
				WithRefreshInterval(10*time.Second),
				WithPrometheusRegistry(registry),
			)

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given metrics recording", t, func() {
		Convey("When recording upload metrics", func() {
			Convey("Then it should record accepted uploads", func() {
				So(func() {
					RecordUploadAccepted()
					RecordUploadAccepted()
				}, ShouldNotPanic)
			})

			Convey("And it should record duplicate and rejected uploads", func() {
				So(func() {
					RecordUploadDuplicate()
					RecordUploadRejected()
				}, ShouldNotPanic)
			})

			Convey("And it should record extraction latency", func() {
				So(func() {
					RecordExtractionLatency(1.0)
					RecordExtractionLatency(12.5)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording pipeline metrics", func() {
			So(func() {
				RecordMetricsStored()
				RecordExtractionError()
				RecordStoreError()
				RecordQueueEnqueue()
				RecordQueueDequeue()
				RecordQueueError()
				RecordWorkerProcessingLatency(3.0)
				RecordWorkerError()
			}, ShouldNotPanic)
		})

		Convey("When updating gauges", func() {
			So(func() {
				UpdateQueueSize(5)
				UpdateQueueCapacity(100)
				UpdateQueueUtilization(0.05)
				UpdateWorkerCount(4)
				UpdateTotalPlayers(2)
				UpdateTotalMatches(10)
				UpdateBaselineEntries(8)
			}, ShouldNotPanic)
		})

		Convey("When recording baseline and repository metrics", func() {
			So(func() {
				RecordBaselineRefresh()
				RecordRepositoryWriteLatency(2.0)
				RecordRepositoryReadLatency(1.0)
			}, ShouldNotPanic)
		})

		Convey("When recording HTTP and error metrics", func() {
			So(func() {
				RecordHTTPRequest("profile", "GET", "200")
				RecordHTTPRequestDuration("profile", "GET", "200", 4.2)
				RecordErrorByComponent("worker", "store_error")
				RecordErrorByEndpoint("matches", "POST", "server_error")
			}, ShouldNotPanic)
		})

		Convey("When recording system metrics", func() {
			So(func() {
				UpdateSystemMemoryUsage(1024)
				UpdateSystemGoroutineCount(10)
				RecordSystemGCPauseTime(0.2)
			}, ShouldNotPanic)
		})
	})
}

func TestGetRegistry(t *testing.T) {
	Convey("Given the global registry", t, func() {
		Convey("When fetching it", func() {
			registry := GetRegistry()

			Convey("Then it should gather the registered metrics", func() {
				So(registry, ShouldNotBeNil)
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)
			})
		})
	})
}
