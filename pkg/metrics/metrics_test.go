package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

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
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithMetricsEnabled(true),
				WithPrometheusRegistry(registry),
			)

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})
	})
}

func TestRecordingHelpers(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording ingestion metrics", func() {
			So(func() {
				RecordObservationProcessed()
				RecordObservationDuplicate()
				RecordObservationDropped()
			}, ShouldNotPanic)
		})

		Convey("When recording queue metrics", func() {
			So(func() {
				UpdateQueueSize(10)
				UpdateQueueCapacity(100)
				UpdateQueueUtilization(0.1)
				RecordQueueEnqueue()
				RecordQueueDequeue()
				RecordQueueError()
			}, ShouldNotPanic)
		})

		Convey("When recording worker metrics", func() {
			So(func() {
				UpdateWorkerCount(4)
				RecordWorkerProcessingLatency(12.5)
				RecordWorkerError()
			}, ShouldNotPanic)
		})

		Convey("When recording cohort metrics", func() {
			So(func() {
				UpdateCohortBuckets(3)
				UpdateCohortMembers(42)
				RecordCohortUpdateLatency(1.5)
				RecordCohortRejection()
			}, ShouldNotPanic)
		})

		Convey("When recording engine metrics", func() {
			So(func() {
				RecordComparison("industry")
				RecordComparison("peer")
				RecordAssessment()
				RecordAssessmentLatency(55)
				RecordSkillSkipped()
				UpdateTrackedUsers(7)
			}, ShouldNotPanic)
		})

		Convey("When recording HTTP and error metrics", func() {
			So(func() {
				RecordHTTPRequest("readiness", "GET", "200")
				RecordHTTPRequestDuration("readiness", "GET", "200", 3.2)
				RecordErrorByComponent("queue", "capacity_exceeded")
			}, ShouldNotPanic)
		})

		Convey("When reading the registry", func() {
			So(GetRegistry(), ShouldNotBeNil)
		})
	})
}
