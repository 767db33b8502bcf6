package dedupe_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	dedupe "github.com/okian/okrscore/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryDeduper(t *testing.T) {
	Convey("Given a new InMemoryDeduper", t, func() {
		ctx := context.Background()
		d := dedupe.NewInMemoryDeduper()
		key := dedupe.Key("u-1", "director", "department", "sales")

		Convey("When a key is claimed for the first time", func() {
			err := d.Claim(ctx, key)

			Convey("Then it is recorded", func() {
				So(err, ShouldBeNil)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When the same key is claimed twice", func() {
			_ = d.Claim(ctx, key)
			err := d.Claim(ctx, key)

			Convey("Then the second claim is rejected", func() {
				So(errors.Is(err, dedupe.ErrDuplicateEvaluation), ShouldBeTrue)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When a claimed key is released", func() {
			_ = d.Claim(ctx, key)
			d.Release(ctx, key)
			d.Release(ctx, key)

			Convey("Then it can be claimed again", func() {
				So(d.Size(), ShouldEqual, 0)
				So(d.Claim(ctx, key), ShouldBeNil)
			})
		})

		Convey("When the evaluator rates a different target", func() {
			_ = d.Claim(ctx, key)
			So(d.Claim(ctx, dedupe.Key("u-1", "DIRECTOR", "DIVISION", "sales")), ShouldBeNil)
		})

		Convey("When many goroutines race for one key", func() {
			var wg sync.WaitGroup
			var won atomic.Int32
			for i := 0; i < 50; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					if d.Claim(ctx, key) == nil {
						won.Add(1)
					}
				}()
			}
			wg.Wait()

			Convey("Then exactly one wins", func() {
				So(won.Load(), ShouldEqual, 1)
			})
		})
	})

	Convey("Given keys loaded at startup", t, func() {
		keys := make([]string, 0, 3)
		for i := 0; i < 3; i++ {
			keys = append(keys, dedupe.Key(fmt.Sprintf("u-%d", i), "HR", "DEPARTMENT", "ops"))
		}
		d := dedupe.NewInMemoryDeduper(dedupe.WithClaimed(append(keys, keys[0])...))

		Convey("Then they are already claimed", func() {
			So(d.Size(), ShouldEqual, 3)
			So(errors.Is(d.Claim(context.Background(), keys[1]), dedupe.ErrDuplicateEvaluation), ShouldBeTrue)
		})
	})

	Convey("Given key parts", t, func() {
		So(dedupe.Key("u", "hr", "division", "x"), ShouldEqual, "u|HR|DIVISION|x")
	})
}
