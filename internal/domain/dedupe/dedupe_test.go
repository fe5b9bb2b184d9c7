package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/skillbench/skillbench/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSeenAndRecord(t *testing.T) {
	Convey("Given a fresh deduper", t, func() {
		d := dedupe.NewInMemoryDeduper()
		ctx := context.Background()

		Convey("When an ID is recorded for the first time", func() {
			seen := d.SeenAndRecord(ctx, "obs-1")

			Convey("Then it should not be a duplicate", func() {
				So(seen, ShouldBeFalse)
				So(d.Size(), ShouldEqual, 1)
			})

			Convey("And the same ID should be a duplicate afterwards", func() {
				So(d.SeenAndRecord(ctx, "obs-1"), ShouldBeTrue)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When distinct IDs are recorded", func() {
			for i := 0; i < 100; i++ {
				So(d.SeenAndRecord(ctx, fmt.Sprintf("obs-%d", i)), ShouldBeFalse)
			}

			Convey("Then size should track every entry", func() {
				So(d.Size(), ShouldEqual, 100)
			})
		})
	})
}

func TestUnrecord(t *testing.T) {
	Convey("Given a deduper with a recorded ID", t, func() {
		d := dedupe.NewInMemoryDeduper()
		ctx := context.Background()
		d.SeenAndRecord(ctx, "obs-1")

		Convey("When the ID is unrecorded", func() {
			d.Unrecord(ctx, "obs-1")

			Convey("Then it should be accepted again", func() {
				So(d.Size(), ShouldEqual, 0)
				So(d.SeenAndRecord(ctx, "obs-1"), ShouldBeFalse)
			})
		})

		Convey("When an unknown ID is unrecorded", func() {
			d.Unrecord(ctx, "obs-unknown")

			Convey("Then nothing should change", func() {
				So(d.Size(), ShouldEqual, 1)
			})
		})
	})
}

func TestEviction(t *testing.T) {
	Convey("Given a deduper with a small window", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(3))
		ctx := context.Background()

		Convey("When more IDs arrive than the window holds", func() {
			for i := 0; i < 5; i++ {
				d.SeenAndRecord(ctx, fmt.Sprintf("obs-%d", i))
			}

			Convey("Then the oldest IDs should have been evicted", func() {
				So(d.Size(), ShouldEqual, 3)
				So(d.SeenAndRecord(ctx, "obs-0"), ShouldBeFalse)
			})

			Convey("Then the newest IDs should still be duplicates", func() {
				So(d.SeenAndRecord(ctx, "obs-4"), ShouldBeTrue)
				So(d.SeenAndRecord(ctx, "obs-3"), ShouldBeTrue)
			})
		})
	})

	Convey("Given an unbounded deduper", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(0))
		ctx := context.Background()

		Convey("When many IDs arrive", func() {
			for i := 0; i < 1000; i++ {
				d.SeenAndRecord(ctx, fmt.Sprintf("obs-%d", i))
			}

			Convey("Then nothing should be evicted", func() {
				So(d.Size(), ShouldEqual, 1000)
				So(d.SeenAndRecord(ctx, "obs-0"), ShouldBeTrue)
			})
		})
	})
}

func TestConcurrentRecording(t *testing.T) {
	Convey("Given concurrent producers sharing a deduper", t, func() {
		d := dedupe.NewInMemoryDeduper()
		ctx := context.Background()

		Convey("When every producer submits the same batch of IDs", func() {
			const producers = 8
			const ids = 200

			var wg sync.WaitGroup
			accepted := make([]int64, producers)
			for p := 0; p < producers; p++ {
				wg.Add(1)
				go func(p int) {
					defer wg.Done()
					for i := 0; i < ids; i++ {
						if !d.SeenAndRecord(ctx, fmt.Sprintf("obs-%d", i)) {
							accepted[p]++
						}
					}
				}(p)
			}
			wg.Wait()

			Convey("Then each ID should be accepted exactly once", func() {
				total := int64(0)
				for _, n := range accepted {
					total += n
				}
				So(total, ShouldEqual, ids)
				So(d.Size(), ShouldEqual, ids)
			})
		})
	})
}
