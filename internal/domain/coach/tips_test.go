package coach_test

import (
	"testing"

	coach "github.com/okian/rlcoach/internal/domain/coach"
	. "github.com/smartystreets/goconvey/convey"
)

func TestTips(t *testing.T) {
	Convey("Given comparison strengths and weaknesses", t, func() {
		Convey("When a single weakness exists", func() {
			shortTerm, longTerm := coach.Tips(nil, map[string]float64{"shots": 2})

			Convey("Then one fixed short-term tip is produced", func() {
				So(shortTerm, ShouldResemble, []string{
					"Focus on taking more shots during matches. Position yourself to create shooting opportunities.",
				})
				So(longTerm, ShouldBeEmpty)
			})
		})

		Convey("When a single strength exists", func() {
			shortTerm, longTerm := coach.Tips(map[string]float64{"boost_usage": 0.1}, nil)

			Convey("Then one fixed long-term tip is produced", func() {
				So(longTerm, ShouldResemble, []string{
					"Continue to refine your boost management. Use efficient routes to maintain high boost levels.",
				})
				So(shortTerm, ShouldBeEmpty)
			})
		})

		Convey("When multiple keys are present", func() {
			weaknesses := map[string]float64{"goals": 1, "boost_usage": 0.2}
			strengths := map[string]float64{"shots": 3, "flip_count": 2}
			shortTerm, longTerm := coach.Tips(strengths, weaknesses)

			Convey("Then tips follow the canonical key order", func() {
				So(shortTerm, ShouldHaveLength, 2)
				So(shortTerm[0], ShouldContainSubstring, "boost")
				So(shortTerm[1], ShouldContainSubstring, "finishing")
				So(longTerm, ShouldHaveLength, 2)
				So(longTerm[0], ShouldContainSubstring, "wave dashes")
				So(longTerm[1], ShouldContainSubstring, "shooting pace")
			})
		})

		Convey("When keys outside the canonical set appear", func() {
			shortTerm, longTerm := coach.Tips(
				map[string]float64{"saves": 5},
				map[string]float64{"assists": 2},
			)

			Convey("Then they produce no tips", func() {
				So(shortTerm, ShouldBeEmpty)
				So(longTerm, ShouldBeEmpty)
			})
		})

		Convey("When both maps are empty", func() {
			shortTerm, longTerm := coach.Tips(nil, nil)

			Convey("Then both lists are empty", func() {
				So(shortTerm, ShouldBeEmpty)
				So(longTerm, ShouldBeEmpty)
			})
		})
	})
}
