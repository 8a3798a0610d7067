package ledger_test

import (
	"testing"
	"time"

	"github.com/pugrank/pugrank/internal/domain/ledger"
	"github.com/pugrank/pugrank/pkg/timeutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLedger_GetOrCreate(t *testing.T) {
	Convey("Given an empty ledger", t, func() {
		l := ledger.New()

		Convey("When creating a record", func() {
			p := l.GetOrCreate("P", "Phteven", 25.0, 8.333)

			Convey("Then it carries the defaults and zeroed counters", func() {
				So(p.CanonicalID, ShouldEqual, "P")
				So(p.Name, ShouldEqual, "Phteven")
				So(p.Rating.Mu, ShouldEqual, 25.0)
				So(p.Rating.Sigma, ShouldEqual, 8.333)
				So(p.GamesPlayed, ShouldEqual, 0)
				So(p.Wins, ShouldEqual, 0)
				So(p.Losses, ShouldEqual, 0)
				So(p.LastPlayed.IsZero(), ShouldBeTrue)
			})
		})

		Convey("When asking again under a different display name", func() {
			first := l.GetOrCreate("P", "Phteven", 25.0, 8.333)
			second := l.GetOrCreate("P", "Steve", 25.0, 8.333)

			Convey("Then the same record comes back and the first name wins", func() {
				So(second, ShouldEqual, first)
				So(second.Name, ShouldEqual, "Phteven")
				So(l.Len(), ShouldEqual, 1)
			})
		})

		Convey("When several records are created", func() {
			l.GetOrCreate("c", "C", 25, 8)
			l.GetOrCreate("a", "A", 25, 8)
			l.GetOrCreate("b", "B", 25, 8)

			Convey("Then Records preserves insertion order", func() {
				recs := l.Records()
				So(recs, ShouldHaveLength, 3)
				So(recs[0].CanonicalID, ShouldEqual, "c")
				So(recs[1].CanonicalID, ShouldEqual, "a")
				So(recs[2].CanonicalID, ShouldEqual, "b")
			})
		})
	})
}

func TestPlayerRecord_AddGame(t *testing.T) {
	Convey("Given a player record", t, func() {
		l := ledger.New()
		p := l.GetOrCreate("P", "P", 25, 8)
		d1 := timeutil.Date(2024, time.March, 10)
		d2 := timeutil.Date(2024, time.March, 12)

		Convey("When games arrive out of date order", func() {
			p.AddGame(d2, false)
			p.AddGame(d1, false)

			Convey("Then last played is the maximum date seen", func() {
				So(p.GamesPlayed, ShouldEqual, 2)
				So(p.LastPlayed.Equal(d2), ShouldBeTrue)
			})
		})

		Convey("When a game is recent", func() {
			p.AddGame(d1, true)
			p.AddGame(d2, false)

			Convey("Then only recent games count toward the window", func() {
				So(p.RecentGames, ShouldEqual, 1)
			})
		})
	})
}

func TestPlayerRecord_PickOrderAndIDs(t *testing.T) {
	Convey("Given a player record", t, func() {
		l := ledger.New()
		p := l.GetOrCreate("P", "P", 25, 8)

		Convey("When pick orders are folded in one at a time", func() {
			p.AddPickOrder(2)
			p.AddPickOrder(4)
			p.AddPickOrder(0)

			Convey("Then the running average is incremental", func() {
				So(p.AvgPickOrder, ShouldAlmostEqual, 2.0)
			})
		})

		Convey("When secondary ids repeat", func() {
			p.AddSecondaryID("b")
			p.AddSecondaryID("a")
			p.AddSecondaryID("b")

			Convey("Then the set is deduplicated and sorted", func() {
				So(p.SecondaryIDs(), ShouldResemble, []string{"a", "b"})
			})
		})
	})
}
