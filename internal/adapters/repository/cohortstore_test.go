package repository_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/skillbench/skillbench/internal/adapters/repository"
	"github.com/skillbench/skillbench/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func testKey() repository.Key {
	return repository.Key{
		SkillID:         "go",
		ExperienceLevel: types.LevelMid,
		Region:          "eu",
	}
}

func fillBucket(ctx context.Context, s *repository.CohortStore, key repository.Key, n int) {
	for i := 0; i < n; i++ {
		score := float64((i * 7) % 101)
		_ = s.AddScore(ctx, key, fmt.Sprintf("member-%d", i), score)
	}
}

func TestAddScore(t *testing.T) {
	Convey("Given an empty cohort store", t, func() {
		s := repository.NewCohortStore()
		ctx := context.Background()
		key := testKey()

		Convey("When a score is added", func() {
			err := s.AddScore(ctx, key, "member-1", 72)

			Convey("Then the bucket should track the member", func() {
				So(err, ShouldBeNil)
				So(s.Members(ctx, key), ShouldEqual, 1)
				So(s.Buckets(ctx), ShouldEqual, 1)
				So(s.Count(ctx), ShouldEqual, 1)
			})
		})

		Convey("When the same member submits twice", func() {
			So(s.AddScore(ctx, key, "member-1", 40), ShouldBeNil)
			So(s.AddScore(ctx, key, "member-1", 80), ShouldBeNil)

			Convey("Then only the latest score should be kept", func() {
				So(s.Members(ctx, key), ShouldEqual, 1)
				So(s.Count(ctx), ShouldEqual, 1)
			})
		})

		Convey("When an out-of-range score is submitted", func() {
			Convey("Then it should be rejected", func() {
				So(s.AddScore(ctx, key, "member-1", -1), ShouldEqual, repository.ErrInvalidScore)
				So(s.AddScore(ctx, key, "member-1", 101), ShouldEqual, repository.ErrInvalidScore)
				So(s.Members(ctx, key), ShouldEqual, 0)
			})
		})

		Convey("When scores land in different buckets", func() {
			other := key
			other.Region = "us"
			So(s.AddScore(ctx, key, "member-1", 50), ShouldBeNil)
			So(s.AddScore(ctx, other, "member-1", 50), ShouldBeNil)

			Convey("Then each bucket should count separately", func() {
				So(s.Buckets(ctx), ShouldEqual, 2)
				So(s.Members(ctx, key), ShouldEqual, 1)
				So(s.Members(ctx, other), ShouldEqual, 1)
				So(s.Count(ctx), ShouldEqual, 2)
			})
		})
	})
}

func TestMinimumGroupSize(t *testing.T) {
	Convey("Given a store with the default minimum group size", t, func() {
		s := repository.NewCohortStore()
		ctx := context.Background()
		key := testKey()

		Convey("When a bucket is unknown", func() {
			_, err := s.Cohort(ctx, key)

			Convey("Then reads should report not found", func() {
				So(err, ShouldEqual, repository.ErrNotFound)
			})
		})

		Convey("When a bucket holds fewer members than the floor", func() {
			fillBucket(ctx, s, key, repository.DefaultMinGroupSize-1)

			Convey("Then aggregate reads should be refused", func() {
				_, err := s.Cohort(ctx, key)
				So(err, ShouldEqual, repository.ErrInsufficientData)

				_, err = s.GroupStats(ctx, key)
				So(err, ShouldEqual, repository.ErrInsufficientData)

				_, err = s.Sample(ctx, key)
				So(err, ShouldEqual, repository.ErrInsufficientData)
			})
		})

		Convey("When one more member joins", func() {
			fillBucket(ctx, s, key, repository.DefaultMinGroupSize)

			Convey("Then aggregate reads should succeed", func() {
				cohort, err := s.Cohort(ctx, key)
				So(err, ShouldBeNil)
				So(cohort.MemberCount, ShouldEqual, repository.DefaultMinGroupSize)
				So(cohort.SkillID, ShouldEqual, key.SkillID)
				So(cohort.ExperienceLevel, ShouldEqual, key.ExperienceLevel)
				So(cohort.Region, ShouldEqual, key.Region)
			})
		})
	})

	Convey("Given a store with a custom floor", t, func() {
		s := repository.NewCohortStore(repository.WithMinGroupSize(3))
		ctx := context.Background()
		key := testKey()
		fillBucket(ctx, s, key, 3)

		Convey("Then three members should be enough", func() {
			So(s.MinGroupSize(), ShouldEqual, 3)
			_, err := s.Cohort(ctx, key)
			So(err, ShouldBeNil)
		})
	})
}

func TestCohortAggregates(t *testing.T) {
	Convey("Given a bucket with a known sample", t, func() {
		s := repository.NewCohortStore(repository.WithMinGroupSize(5))
		ctx := context.Background()
		key := testKey()
		for i, score := range []float64{10, 20, 30, 40, 50} {
			So(s.AddScore(ctx, key, fmt.Sprintf("member-%d", i), score), ShouldBeNil)
		}

		Convey("When reading group stats", func() {
			gs, err := s.GroupStats(ctx, key)
			So(err, ShouldBeNil)

			Convey("Then the aggregates should match the sample", func() {
				So(gs.GroupSize, ShouldEqual, 5)
				So(gs.AverageScore, ShouldAlmostEqual, 30, 1e-9)
				So(gs.Distribution.P50, ShouldAlmostEqual, 30, 1e-9)
				So(gs.Distribution.P25, ShouldAlmostEqual, 20, 1e-9)
				So(gs.Distribution.P75, ShouldAlmostEqual, 40, 1e-9)
				So(gs.Distribution.Range.Min, ShouldEqual, 10)
				So(gs.Distribution.Range.Max, ShouldEqual, 50)
				So(gs.Distribution.StdDev, ShouldAlmostEqual, 15.8113883, 1e-6)
			})

			Convey("Then the percentiles should be ordered", func() {
				So(gs.Distribution.P25, ShouldBeLessThanOrEqualTo, gs.Distribution.P50)
				So(gs.Distribution.P50, ShouldBeLessThanOrEqualTo, gs.Distribution.P75)
				So(gs.Distribution.P75, ShouldBeLessThanOrEqualTo, gs.Distribution.P90)
			})
		})

		Convey("When sampling for analysis", func() {
			sample, err := s.Sample(ctx, key)
			So(err, ShouldBeNil)

			Convey("Then the copy should contain every score", func() {
				So(len(sample), ShouldEqual, 5)
				sum := 0.0
				for _, x := range sample {
					sum += x
				}
				So(sum, ShouldAlmostEqual, 150, 1e-9)
			})

			Convey("Then mutating the copy should not affect the store", func() {
				sample[0] = 9999
				again, err := s.Sample(ctx, key)
				So(err, ShouldBeNil)
				for _, x := range again {
					So(x, ShouldBeBetweenOrEqual, 0, 100)
				}
			})
		})
	})
}

func TestConcurrentAdds(t *testing.T) {
	Convey("Given concurrent writers across several buckets", t, func() {
		s := repository.NewCohortStore(repository.WithMinGroupSize(2))
		ctx := context.Background()

		const writers = 8
		const perWriter = 100

		var wg sync.WaitGroup
		for w := 0; w < writers; w++ {
			wg.Add(1)
			go func(w int) {
				defer wg.Done()
				key := repository.Key{
					SkillID:         fmt.Sprintf("skill-%d", w%4),
					ExperienceLevel: types.LevelMid,
				}
				for i := 0; i < perWriter; i++ {
					_ = s.AddScore(ctx, key, fmt.Sprintf("w%d-m%d", w, i), float64(i%101))
				}
			}(w)
		}
		wg.Wait()

		Convey("Then no write should be lost", func() {
			So(s.Count(ctx), ShouldEqual, writers*perWriter)
			So(s.Buckets(ctx), ShouldEqual, 4)
			total := 0
			for w := 0; w < 4; w++ {
				total += s.Members(ctx, repository.Key{
					SkillID:         fmt.Sprintf("skill-%d", w),
					ExperienceLevel: types.LevelMid,
				})
			}
			So(total, ShouldEqual, writers*perWriter)
		})
	})
}
