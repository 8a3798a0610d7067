package alias_test

import (
	"testing"

	"github.com/pugrank/pugrank/internal/domain/alias"
	. "github.com/smartystreets/goconvey/convey"
)

func TestResolver_Resolve(t *testing.T) {
	Convey("Given a resolver with an alias configuration", t, func() {
		r := alias.NewResolver(map[string][]string{
			"P": {"a", "b"},
			"Q": {"x"},
		})

		Convey("When resolving a secondary id", func() {
			So(r.Resolve("a"), ShouldEqual, "P")
			So(r.Resolve("b"), ShouldEqual, "P")
			So(r.Resolve("x"), ShouldEqual, "Q")
		})

		Convey("When resolving an unknown id", func() {
			Convey("Then it is its own canonical id", func() {
				So(r.Resolve("stranger"), ShouldEqual, "stranger")
			})
		})

		Convey("When resolving a canonical id directly", func() {
			// "P" is not in any secondary list, so it self-resolves.
			So(r.Resolve("P"), ShouldEqual, "P")
		})

		Convey("When resolving repeatedly in any order", func() {
			first := r.Resolve("b")
			_ = r.Resolve("x")
			_ = r.Resolve("stranger")
			second := r.Resolve("b")

			Convey("Then resolution is idempotent", func() {
				So(second, ShouldEqual, first)
				So(second, ShouldEqual, "P")
			})
		})
	})

	Convey("Given a resolver with no alias configuration", t, func() {
		r := alias.NewResolver(nil)

		Convey("Then every id self-resolves", func() {
			So(r.Resolve("anyone"), ShouldEqual, "anyone")
		})
	})
}

func TestResolver_ResolveSet(t *testing.T) {
	Convey("Given a resolver and a raw id set", t, func() {
		r := alias.NewResolver(map[string][]string{"P": {"a", "b"}})
		raws := map[string]struct{}{"a": {}, "b": {}, "c": {}}

		Convey("When resolving the set", func() {
			canonical := r.ResolveSet(raws)

			Convey("Then aliases collapse to one canonical id", func() {
				So(canonical, ShouldHaveLength, 2)
				So(canonical, ShouldContainKey, "P")
				So(canonical, ShouldContainKey, "c")
			})
		})
	})
}
