package queue_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/skillbench/skillbench/internal/adapters/mq/queue"
	. "github.com/smartystreets/goconvey/convey"
)

func TestEnqueueDequeue(t *testing.T) {
	Convey("Given an in-memory queue", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(8))
		ctx := context.Background()

		Convey("When observations are enqueued", func() {
			for i := 0; i < 3; i++ {
				ok := q.Enqueue(ctx, queue.Observation{
					ObservationID: fmt.Sprintf("obs-%d", i),
					UserID:        "user-1",
					SkillID:       "go",
				})
				So(ok, ShouldBeTrue)
			}

			Convey("Then the queue should report its length", func() {
				So(q.Len(ctx), ShouldEqual, 3)
			})

			Convey("Then dequeuing should yield them in order", func() {
				ch := q.Dequeue(ctx)
				for i := 0; i < 3; i++ {
					obs := <-ch
					So(obs.ObservationID, ShouldEqual, fmt.Sprintf("obs-%d", i))
				}
				So(q.Len(ctx), ShouldEqual, 0)
			})
		})
	})
}

func TestBackpressure(t *testing.T) {
	Convey("Given a queue at capacity", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(2))
		ctx := context.Background()
		So(q.Enqueue(ctx, queue.Observation{ObservationID: "obs-1"}), ShouldBeTrue)
		So(q.Enqueue(ctx, queue.Observation{ObservationID: "obs-2"}), ShouldBeTrue)

		Convey("When another observation arrives", func() {
			ok := q.Enqueue(ctx, queue.Observation{ObservationID: "obs-3"})

			Convey("Then it should be rejected without blocking", func() {
				So(ok, ShouldBeFalse)
				So(q.Len(ctx), ShouldEqual, 2)
			})
		})

		Convey("When a slot frees up", func() {
			<-q.Dequeue(ctx)

			Convey("Then enqueues should succeed again", func() {
				So(q.Enqueue(ctx, queue.Observation{ObservationID: "obs-3"}), ShouldBeTrue)
			})
		})
	})
}

func TestClose(t *testing.T) {
	Convey("Given an open queue with pending observations", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(4))
		ctx := context.Background()
		So(q.Enqueue(ctx, queue.Observation{ObservationID: "obs-1"}), ShouldBeTrue)

		Convey("When the queue is closed", func() {
			So(q.Close(), ShouldBeNil)

			Convey("Then it should report closed and reject enqueues", func() {
				So(q.IsClosed(), ShouldBeTrue)
				So(q.Enqueue(ctx, queue.Observation{ObservationID: "obs-2"}), ShouldBeFalse)
			})

			Convey("Then pending observations should drain before the channel closes", func() {
				ch := q.Dequeue(ctx)
				obs, open := <-ch
				So(open, ShouldBeTrue)
				So(obs.ObservationID, ShouldEqual, "obs-1")

				_, open = <-ch
				So(open, ShouldBeFalse)
			})

			Convey("Then closing again should be a no-op", func() {
				So(q.Close(), ShouldBeNil)
			})
		})
	})
}
