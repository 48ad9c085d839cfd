package queue_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	queue "github.com/okian/rlcoach/internal/adapters/mq/queue"
	. "github.com/smartystreets/goconvey/convey"
)

func makeJob(id string) queue.Job {
	return queue.Job{
		MatchID:    id,
		PlayerID:   "player-1",
		Raw:        []byte(`{}`),
		ReceivedAt: time.Now(),
	}
}

func TestInMemoryQueue(t *testing.T) {
	Convey("Given a new InMemoryQueue", t, func() {
		Convey("When creating a queue with default options", func() {
			q := queue.NewInMemoryQueue()

			Convey("Then it should start empty and open", func() {
				So(q, ShouldNotBeNil)
				So(q.Len(context.Background()), ShouldEqual, 0)
				So(q.IsClosed(), ShouldBeFalse)
			})
		})

		Convey("When enqueuing jobs", func() {
			q := queue.NewInMemoryQueue(queue.WithCapacity(2))

			Convey("And the queue has room", func() {
				ok := q.Enqueue(context.Background(), makeJob("m-1"))

				Convey("Then the job should be accepted", func() {
					So(ok, ShouldBeTrue)
					So(q.Len(context.Background()), ShouldEqual, 1)
				})
			})

			Convey("And the queue is full", func() {
				So(q.Enqueue(context.Background(), makeJob("m-1")), ShouldBeTrue)
				So(q.Enqueue(context.Background(), makeJob("m-2")), ShouldBeTrue)
				ok := q.Enqueue(context.Background(), makeJob("m-3"))

				Convey("Then the enqueue should be rejected without blocking", func() {
					So(ok, ShouldBeFalse)
					So(q.Len(context.Background()), ShouldEqual, 2)
				})
			})

			Convey("And the queue is closed", func() {
				So(q.Close(), ShouldBeNil)
				ok := q.Enqueue(context.Background(), makeJob("m-1"))

				Convey("Then the enqueue should be rejected", func() {
					So(ok, ShouldBeFalse)
					So(q.IsClosed(), ShouldBeTrue)
				})
			})
		})

		Convey("When dequeuing jobs", func() {
			q := queue.NewInMemoryQueue(queue.WithCapacity(10))

			for i := 0; i < 3; i++ {
				So(q.Enqueue(context.Background(), makeJob(fmt.Sprintf("m-%d", i))), ShouldBeTrue)
			}

			Convey("Then jobs arrive in FIFO order", func() {
				jobs := q.Dequeue(context.Background())
				for i := 0; i < 3; i++ {
					select {
					case job := <-jobs:
						So(job.MatchID, ShouldEqual, fmt.Sprintf("m-%d", i))
					case <-time.After(time.Second):
						t.Fatal("timed out waiting for job")
					}
				}
			})

			Convey("And closing the queue closes the dequeue channel", func() {
				jobs := q.Dequeue(context.Background())
				So(q.Close(), ShouldBeNil)

				received := 0
				for range jobs {
					received++
				}
				So(received, ShouldEqual, 3)
			})
		})

		Convey("When closing twice", func() {
			q := queue.NewInMemoryQueue()

			Convey("Then the second close is a no-op", func() {
				So(q.Close(), ShouldBeNil)
				So(q.Close(), ShouldBeNil)
			})
		})
	})
}
