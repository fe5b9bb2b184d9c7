package types_test

import (
	"testing"

	types "github.com/skillbench/skillbench/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParseExperienceLevel(t *testing.T) {
	Convey("Given experience level strings", t, func() {
		Convey("When parsing known levels", func() {
			for _, s := range []string{"entry", "junior", "mid", "senior", "principal"} {
				l, err := types.ParseExperienceLevel(s)
				So(err, ShouldBeNil)
				So(string(l), ShouldEqual, s)
			}
		})

		Convey("When parsing an unknown level", func() {
			_, err := types.ParseExperienceLevel("wizard")
			So(err, ShouldNotBeNil)
		})

		Convey("When comparing level ordering", func() {
			So(types.LevelEntry.Index(), ShouldEqual, 0)
			So(types.LevelPrincipal.Index(), ShouldEqual, 4)
			So(types.LevelSenior.Index(), ShouldBeGreaterThan, types.LevelMid.Index())
			So(types.ExperienceLevel("wizard").Index(), ShouldEqual, -1)
		})
	})
}

func TestPerformanceLevelForPercentile(t *testing.T) {
	Convey("Given percentile ranks", t, func() {
		Convey("Then they should map to the four-way split", func() {
			So(types.PerformanceLevelForPercentile(95), ShouldEqual, types.PerformanceExceptional)
			So(types.PerformanceLevelForPercentile(90), ShouldEqual, types.PerformanceExceptional)
			So(types.PerformanceLevelForPercentile(80), ShouldEqual, types.PerformanceAboveAverage)
			So(types.PerformanceLevelForPercentile(50), ShouldEqual, types.PerformanceAverage)
			So(types.PerformanceLevelForPercentile(25), ShouldEqual, types.PerformanceAverage)
			So(types.PerformanceLevelForPercentile(10), ShouldEqual, types.PerformanceBelowAverage)
		})
	})
}

func TestRelativePerformanceForPercentile(t *testing.T) {
	Convey("Given peer percentiles", t, func() {
		Convey("Then they should map to the five-way split", func() {
			So(types.RelativePerformanceForPercentile(95), ShouldEqual, types.RelativeWellAbove)
			So(types.RelativePerformanceForPercentile(80), ShouldEqual, types.RelativeAbove)
			So(types.RelativePerformanceForPercentile(50), ShouldEqual, types.RelativeAverage)
			So(types.RelativePerformanceForPercentile(15), ShouldEqual, types.RelativeBelow)
			So(types.RelativePerformanceForPercentile(5), ShouldEqual, types.RelativeWellBelow)
		})
	})
}

func TestBandingHelpers(t *testing.T) {
	Convey("Given banding helpers", t, func() {
		Convey("When banding percentile gaps into difficulty", func() {
			So(types.DifficultyForPercentileGap(40), ShouldEqual, types.DifficultyDifficult)
			So(types.DifficultyForPercentileGap(-40), ShouldEqual, types.DifficultyDifficult)
			So(types.DifficultyForPercentileGap(25), ShouldEqual, types.DifficultyChallenging)
			So(types.DifficultyForPercentileGap(15), ShouldEqual, types.DifficultyModerate)
			So(types.DifficultyForPercentileGap(5), ShouldEqual, types.DifficultyEasy)
		})

		Convey("When banding score gaps into priority", func() {
			So(types.GapPriorityForScoreGap(25), ShouldEqual, types.PriorityCritical)
			So(types.GapPriorityForScoreGap(15), ShouldEqual, types.PriorityHigh)
			So(types.GapPriorityForScoreGap(5), ShouldEqual, types.PriorityMedium)
		})

		Convey("When banding percentiles into market value", func() {
			So(types.MarketValueForPercentile(95), ShouldEqual, types.MarketValueExceptional)
			So(types.MarketValueForPercentile(80), ShouldEqual, types.MarketValueHigh)
			So(types.MarketValueForPercentile(60), ShouldEqual, types.MarketValueMedium)
			So(types.MarketValueForPercentile(40), ShouldEqual, types.MarketValueLow)
		})
	})
}
