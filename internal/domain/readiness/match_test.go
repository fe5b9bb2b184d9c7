package readiness_test

import (
	"testing"

	"github.com/skillbench/skillbench/internal/domain/model"
	readiness "github.com/skillbench/skillbench/internal/domain/readiness"
	"github.com/skillbench/skillbench/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func testSnapshot() map[string]model.SkillObservation {
	return map[string]model.SkillObservation{
		"javascript": {SkillID: "javascript", Level: 4, ExperiencePoints: 1200},
		"go":         {SkillID: "go", Level: 3, ExperiencePoints: 800},
		"sql":        {SkillID: "sql", Level: 2, ExperiencePoints: 300},
	}
}

func testCatalog() []model.JobOpportunity {
	return []model.JobOpportunity{
		{
			ID: "job-frontend", Title: "Frontend Engineer", ExperienceLevel: types.LevelMid,
			RequiredSkills: []model.SkillRequirement{
				{SkillID: "javascript", MinimumLevel: 3, Weight: 3},
			},
			OptionalSkills: []model.SkillRequirement{
				{SkillID: "sql", MinimumLevel: 2, Weight: 1},
			},
		},
		{
			ID: "job-backend", Title: "Backend Engineer", ExperienceLevel: types.LevelSenior,
			RequiredSkills: []model.SkillRequirement{
				{SkillID: "go", MinimumLevel: 3, Weight: 3},
				{SkillID: "sql", MinimumLevel: 3, Weight: 2},
			},
		},
		{
			ID: "job-ml", Title: "ML Engineer", ExperienceLevel: types.LevelSenior,
			RequiredSkills: []model.SkillRequirement{
				{SkillID: "python", MinimumLevel: 4, Weight: 3},
				{SkillID: "statistics", MinimumLevel: 3, Weight: 2},
			},
		},
	}
}

func TestMatch(t *testing.T) {
	Convey("Given a user snapshot and a job catalog", t, func() {
		m := readiness.NewMatcher()
		snapshot := testSnapshot()

		Convey("When matching against the catalog", func() {
			matches := m.Match(snapshot, types.LevelMid, testCatalog())

			Convey("Then every returned match should be at or above 60", func() {
				for _, job := range matches {
					So(job.MatchScore, ShouldBeGreaterThanOrEqualTo, 60)
				}
			})

			Convey("Then matches should be sorted descending by score", func() {
				for i := 1; i < len(matches); i++ {
					So(matches[i].MatchScore, ShouldBeLessThanOrEqualTo, matches[i-1].MatchScore)
				}
			})

			Convey("Then the frontend role should match fully", func() {
				So(len(matches), ShouldBeGreaterThan, 0)
				So(matches[0].ID, ShouldEqual, "job-frontend")
				So(matches[0].SkillsMatch, ShouldEqual, 100)
				So(matches[0].ExperienceMatch, ShouldEqual, 100)
				So(matches[0].MatchScore, ShouldEqual, 100)
			})

			Convey("Then the ML role with no matching skills should be filtered out", func() {
				for _, job := range matches {
					So(job.ID, ShouldNotEqual, "job-ml")
				}
			})
		})

		Convey("When the user is below the required experience level", func() {
			matches := m.Match(snapshot, types.LevelEntry, testCatalog()[:1])

			Convey("Then the experience match should lose 25 points per level", func() {
				// entry(0) vs mid(2): 100 - 25*2 = 50
				if len(matches) > 0 {
					So(matches[0].ExperienceMatch, ShouldEqual, 50)
				} else {
					// 0.7*100 + 0.3*50 = 85 >= 60, so it must not be filtered
					So(len(matches), ShouldEqual, 1)
				}
			})
		})

		Convey("When two jobs tie on match score", func() {
			twin := testCatalog()[0]
			twin.ID = "job-frontend-2"
			matches := m.Match(snapshot, types.LevelMid, []model.JobOpportunity{testCatalog()[0], twin})

			Convey("Then catalog order should be preserved", func() {
				So(len(matches), ShouldEqual, 2)
				So(matches[0].ID, ShouldEqual, "job-frontend")
				So(matches[1].ID, ShouldEqual, "job-frontend-2")
			})
		})

		Convey("When a requirement has no weight", func() {
			job := model.JobOpportunity{
				ID: "job-unweighted", Title: "Engineer", ExperienceLevel: types.LevelEntry,
				RequiredSkills: []model.SkillRequirement{
					{SkillID: "javascript", MinimumLevel: 3},
				},
			}
			matches := m.Match(snapshot, types.LevelMid, []model.JobOpportunity{job})

			Convey("Then it should default to weight 1", func() {
				So(len(matches), ShouldEqual, 1)
				So(matches[0].SkillsMatch, ShouldEqual, 100)
			})
		})
	})
}

func TestMatcherOptions(t *testing.T) {
	Convey("Given a matcher with a lowered threshold", t, func() {
		m := readiness.NewMatcher(readiness.WithMatchThreshold(10))
		matches := m.Match(testSnapshot(), types.LevelMid, testCatalog())

		Convey("Then weaker matches should be included", func() {
			So(len(matches), ShouldBeGreaterThanOrEqualTo, 2)
		})
	})

	Convey("Given a matcher weighted entirely toward experience", t, func() {
		m := readiness.NewMatcher(readiness.WithWeights(0.01, 0.99))
		matches := m.Match(testSnapshot(), types.LevelPrincipal, testCatalog())

		Convey("Then experience level should dominate the score", func() {
			for _, job := range matches {
				So(job.MatchScore, ShouldBeGreaterThan, 90)
			}
		})
	})
}
