package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/skillbench/skillbench/internal/adapters/progress"
	service "github.com/skillbench/skillbench/internal/app"
	"github.com/skillbench/skillbench/internal/domain/model"
	"github.com/skillbench/skillbench/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/skillbench/skillbench/pkg/logger"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func startedService(t *testing.T, opts ...service.Option) *service.Service {
	t.Helper()
	s := service.New(opts...)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("start service: %v", err)
	}
	t.Cleanup(s.Stop)
	return s
}

// waitForMembers polls until the cohort membership reaches want or the
// deadline passes.
func waitForMembers(t *testing.T, s *service.Service, want int) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if members, ok := s.GetStats()["cohortMembers"].(int); ok && members >= want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("cohort never reached %d members", want)
}

func observation(userID string, xp int) model.Observation {
	return model.Observation{
		ObservationID:    fmt.Sprintf("obs-%s-%d", userID, xp),
		UserID:           userID,
		SkillID:          "go",
		Level:            3,
		ExperiencePoints: xp,
		TS:               time.Now(),
	}
}

func TestLifecycle(t *testing.T) {
	Convey("Given a new service", t, func() {
		s := service.New(service.WithWorkerCount(2))

		Convey("When started twice", func() {
			So(s.Start(context.Background()), ShouldBeNil)
			So(s.Start(context.Background()), ShouldBeNil)

			Convey("Then stats should report it running", func() {
				So(s.GetStats()["started"], ShouldBeTrue)
			})

			Convey("Then stopping twice should be safe", func() {
				s.Stop()
				s.Stop()
				So(s.GetStats()["started"], ShouldBeFalse)
			})
		})
	})

	Convey("Given a service pointed at a missing dataset", t, func() {
		s := service.New(service.WithBenchmarksPath("/nonexistent/benchmarks.yaml"))

		Convey("Then startup should fail", func() {
			So(s.Start(context.Background()), ShouldNotBeNil)
		})
	})
}

func TestSubmit(t *testing.T) {
	Convey("Given a running service", t, func() {
		s := startedService(t, service.WithWorkerCount(2), service.WithNoiseAmplitude(0))
		ctx := context.Background()

		Convey("When a valid observation is submitted", func() {
			err := s.Submit(ctx, observation("user-1", 300))

			Convey("Then it should be accepted", func() {
				So(err, ShouldBeNil)
			})

			Convey("Then resubmitting the same ID should be a duplicate", func() {
				So(errors.Is(s.Submit(ctx, observation("user-1", 300)), service.ErrDuplicate), ShouldBeTrue)
			})
		})

		Convey("When required fields are missing", func() {
			Convey("Then the submission should be rejected", func() {
				err := s.Submit(ctx, model.Observation{UserID: "user-1", SkillID: "go"})
				So(errors.Is(err, service.ErrInvalidObservation), ShouldBeTrue)

				err = s.Submit(ctx, model.Observation{ObservationID: "obs-1", SkillID: "go"})
				So(errors.Is(err, service.ErrInvalidObservation), ShouldBeTrue)

				err = s.Submit(ctx, model.Observation{ObservationID: "obs-2", UserID: "user-1"})
				So(errors.Is(err, service.ErrInvalidObservation), ShouldBeTrue)
			})
		})
	})
}

func TestComparisonsEndToEnd(t *testing.T) {
	Convey("Given a cohort of processed observations", t, func() {
		s := startedService(t,
			service.WithWorkerCount(4),
			service.WithNoiseAmplitude(0),
			service.WithMinGroupSize(10),
		)
		ctx := context.Background()

		const members = 12
		for i := 0; i < members; i++ {
			// level 3 with modest XP classifies everyone as junior
			So(s.Submit(ctx, observation(fmt.Sprintf("user-%d", i), 200+i*20)), ShouldBeNil)
		}
		waitForMembers(t, s, members)

		Convey("When comparing a user to the industry", func() {
			cmp, err := s.CompareToIndustry(ctx, "user-0", "go")

			Convey("Then the comparison should be complete", func() {
				So(err, ShouldBeNil)
				So(cmp.UserID, ShouldEqual, "user-0")
				So(cmp.SkillID, ShouldEqual, "go")
				So(cmp.PercentileRank, ShouldBeBetweenOrEqual, 0, 100)
				So(cmp.PerformanceLevel, ShouldNotBeEmpty)
				So(len(cmp.Recommendations), ShouldBeGreaterThan, 0)
			})
		})

		Convey("When comparing a user to the industry across all skills", func() {
			comparisons, err := s.CompareToIndustryAll(ctx, "user-0", "")

			Convey("Then each benchmarked skill should be compared", func() {
				So(err, ShouldBeNil)
				So(comparisons, ShouldHaveLength, 1)
				So(comparisons[0].SkillID, ShouldEqual, "go")
			})

			Convey("And a level override should change the curve", func() {
				overridden, oerr := s.CompareToIndustryAll(ctx, "user-0", types.LevelSenior)
				So(oerr, ShouldBeNil)
				So(overridden, ShouldHaveLength, 1)
			})

			Convey("And an unknown user should fail", func() {
				_, uerr := s.CompareToIndustryAll(ctx, "nobody", "")
				So(errors.Is(uerr, service.ErrUserNotFound), ShouldBeTrue)
			})
		})

		Convey("When comparing a user to peers across all skills", func() {
			comparisons, err := s.CompareToPeersAll(ctx, "user-0", "")

			Convey("Then the qualifying cohorts should be compared", func() {
				So(err, ShouldBeNil)
				So(comparisons, ShouldHaveLength, 1)
				So(comparisons[0].SkillID, ShouldEqual, "go")
				So(comparisons[0].UserPercentile, ShouldBeBetweenOrEqual, 0, 100)
			})

			Convey("And a level without a cohort should yield no comparisons", func() {
				empty, oerr := s.CompareToPeersAll(ctx, "user-0", types.LevelPrincipal)
				So(oerr, ShouldBeNil)
				So(empty, ShouldBeEmpty)
			})
		})

		Convey("When comparing a user to their peers", func() {
			cmp, err := s.CompareToPeers(ctx, "user-0", "go")

			Convey("Then the cohort aggregate should back the comparison", func() {
				So(err, ShouldBeNil)
				So(cmp.PeerGroupStats.GroupSize, ShouldEqual, members)
				So(cmp.UserPercentile, ShouldBeBetweenOrEqual, 0, 100)
			})

			Convey("Then no insight should name the subject", func() {
				for _, insight := range cmp.AnonymizedInsights {
					So(insight, ShouldNotContainSubstring, "user-0")
				}
			})
		})

		Convey("When reading cohort statistics", func() {
			gs, err := s.PeerGroupStats(ctx, "go", types.LevelJunior, "")

			Convey("Then aggregates should be available", func() {
				So(err, ShouldBeNil)
				So(gs.GroupSize, ShouldEqual, members)
				So(gs.AverageScore, ShouldBeBetweenOrEqual, 0, 100)
			})
		})

		Convey("When ranking a user within the cohort", func() {
			ranking, err := s.GenerateAnonymizedRanking(ctx, "user-0", "go")

			Convey("Then the interval should bracket the percentile", func() {
				So(err, ShouldBeNil)
				So(ranking.GroupSize, ShouldEqual, members)
				So(ranking.ConfidenceLower, ShouldBeLessThanOrEqualTo, ranking.Percentile)
				So(ranking.ConfidenceUpper, ShouldBeGreaterThanOrEqualTo, ranking.Percentile)
			})
		})

		Convey("When analyzing the cohort sample", func() {
			analysis, err := s.PerformStatisticalAnalysis(ctx, "go", types.LevelJunior, "")

			Convey("Then the descriptive statistics should be reported", func() {
				So(err, ShouldBeNil)
				So(analysis.SampleSize, ShouldEqual, members)
				So(analysis.Mean, ShouldBeBetweenOrEqual, 0, 100)
				So(analysis.StandardDeviation, ShouldBeGreaterThanOrEqualTo, 0)
			})
		})

		Convey("When assessing market readiness", func() {
			assessment, err := s.GenerateMarketReadinessAssessment(ctx, "user-0")

			Convey("Then the assessment should cover the tracked skill", func() {
				So(err, ShouldBeNil)
				So(assessment.UserID, ShouldEqual, "user-0")
				So(assessment.OverallReadiness, ShouldBeBetweenOrEqual, 0, 100)
				So(assessment.ExperienceLevel, ShouldEqual, types.LevelJunior)
			})
		})
	})
}

func TestComparisonErrors(t *testing.T) {
	Convey("Given a running service with little data", t, func() {
		s := startedService(t, service.WithWorkerCount(2), service.WithNoiseAmplitude(0))
		ctx := context.Background()

		Convey("When the user is unknown", func() {
			_, err := s.CompareToIndustry(ctx, "user-missing", "go")
			So(errors.Is(err, service.ErrUserNotFound), ShouldBeTrue)

			_, err = s.GenerateMarketReadinessAssessment(ctx, "user-missing")
			So(errors.Is(err, service.ErrUserNotFound), ShouldBeTrue)
			// The not-found sentinel is reserved for missing progress; the
			// underlying cause stays on the chain.
			So(errors.Is(err, progress.ErrNotFound), ShouldBeTrue)
		})

		Convey("When the skill is not tracked for the user", func() {
			So(s.Submit(ctx, observation("user-1", 300)), ShouldBeNil)
			waitForMembers(t, s, 1)

			_, err := s.CompareToIndustry(ctx, "user-1", "haskell")
			So(errors.Is(err, service.ErrSkillNotTracked), ShouldBeTrue)
		})

		Convey("When the cohort is below the minimum group size", func() {
			So(s.Submit(ctx, observation("user-1", 300)), ShouldBeNil)
			waitForMembers(t, s, 1)

			_, err := s.CompareToPeers(ctx, "user-1", "go")
			So(err, ShouldNotBeNil)
		})

		Convey("When a cohort does not exist at all", func() {
			_, err := s.PeerGroupStats(ctx, "cobol", types.LevelMid, "")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestAnalyzeSample(t *testing.T) {
	Convey("Given a running service", t, func() {
		s := startedService(t, service.WithWorkerCount(1))
		ctx := context.Background()

		Convey("When analyzing an ad-hoc sample", func() {
			analysis, err := s.AnalyzeSample(ctx, []float64{10, 20, 30, 40, 50})

			Convey("Then the statistics should match the sample", func() {
				So(err, ShouldBeNil)
				So(analysis.Mean, ShouldAlmostEqual, 30, 1e-9)
				So(analysis.Median, ShouldAlmostEqual, 30, 1e-9)
				So(analysis.Variance, ShouldAlmostEqual, 250, 1e-9)
			})
		})

		Convey("When the sample is too small", func() {
			_, err := s.AnalyzeSample(ctx, []float64{42})

			Convey("Then a sentinel error should be returned", func() {
				So(errors.Is(err, service.ErrSampleTooSmall), ShouldBeTrue)
			})
		})
	})
}
