package render_test

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pugrank/pugrank/internal/adapters/render"
	"github.com/pugrank/pugrank/internal/app"
	"github.com/pugrank/pugrank/internal/config"
	"github.com/pugrank/pugrank/internal/domain/leaderboard"
	"github.com/pugrank/pugrank/pkg/timeutil"
	. "github.com/smartystreets/goconvey/convey"
)

func sampleResult() *app.Result {
	return &app.Result{
		Rows: []leaderboard.Row{
			{
				Rank: 1, CanonicalID: "P", Name: "Alice",
				Conservative: 21.50, Mu: 27.5, Sigma: 2.0,
				GamesPlayed: 12, Wins: 8, Losses: 4,
				LastPlayed:   timeutil.Date(2024, time.May, 10),
				AvgPickOrder: 1.25,
				SecondaryIDs: []string{"a", "b"},
			},
			{
				Rank: 2, CanonicalID: "Q", Name: "Bob",
				Conservative: 18.00, Mu: 24.0, Sigma: 2.0,
				GamesPlayed: 10, Wins: 4, Losses: 6,
				LastPlayed:   timeutil.Date(2024, time.May, 9),
				AvgPickOrder: 2.0,
				SecondaryIDs: []string{"q"},
			},
		},
		Summary: app.Summary{
			GamesUsed:          15,
			TotalPlayers:       4,
			FilteredByMinGames: 2,
			PeriodStart:        "2024-01-01",
			PeriodEnd:          "2024-05-15 09:00 AM UTC",
		},
	}
}

func TestRenderer_Write(t *testing.T) {
	Convey("Given a renderer with default settings", t, func() {
		cfg := config.New()
		cfg.UserAliases = map[string][]string{"P": {"a", "b"}}
		r := render.New(cfg, "11111111-2222-3333-4444-555555555555")

		Convey("When the report is written", func() {
			var buf bytes.Buffer
			So(r.Write(&buf, sampleResult()), ShouldBeNil)
			out := buf.String()

			Convey("Then it carries the period, counters and rows", func() {
				So(out, ShouldContainSubstring, "Games period: From 2024-01-01 to 2024-05-15 09:00 AM UTC")
				So(out, ShouldContainSubstring, "Games used: 15")
				So(out, ShouldContainSubstring, "Alice")
				So(out, ShouldContainSubstring, "21.50")
				So(out, ShouldContainSubstring, "8/4")
				So(out, ShouldContainSubstring, "2024-05-10")
				So(out, ShouldContainSubstring, "Minimum games required: 0 (2 players filtered)")
				So(out, ShouldContainSubstring, "Sigma decay: Disabled")
				So(out, ShouldContainSubstring, "Ties discarded: false")
				So(out, ShouldContainSubstring, "Aliased player/s: P")
			})

			Convey("And secondary ids stay out of non-verbose output", func() {
				So(out, ShouldNotContainSubstring, "a,b")
			})
		})

		Convey("When decay is enabled", func() {
			cfg.DecayEnabled = true
			cfg.DecayAmount = 0.1
			cfg.GraceDays = 14
			cfg.MaxDecayProportion = 0.8

			var buf bytes.Buffer
			So(r.Write(&buf, sampleResult()), ShouldBeNil)

			Convey("Then the decay settings are spelled out", func() {
				So(buf.String(), ShouldContainSubstring, "decay_amount=0.1, grace_days=14, max_decay_proportion=0.8")
			})
		})
	})

	Convey("Given a verbose renderer with a source URL", t, func() {
		cfg := config.New()
		cfg.VerboseOutput = true
		cfg.ServerID = "srv-1"
		r := render.New(cfg, "run-id", render.WithSourceURL("https://pug.example.com/api/server/srv-1/games/1"))

		Convey("When the report is written", func() {
			var buf bytes.Buffer
			So(r.Write(&buf, sampleResult()), ShouldBeNil)
			out := buf.String()

			Convey("Then the source details and secondary ids appear", func() {
				So(out, ShouldContainSubstring, "Input URL: https://pug.example.com")
				So(out, ShouldContainSubstring, "Server ID: srv-1")
				So(out, ShouldContainSubstring, "a,b")
			})
		})
	})
}

func TestRenderer_WriteCSV(t *testing.T) {
	Convey("Given a renderer", t, func() {
		cfg := config.New()
		r := render.New(cfg, "run-id")

		Convey("When rows are written as CSV", func() {
			var buf bytes.Buffer
			So(r.WriteCSV(&buf, sampleResult()), ShouldBeNil)

			records, err := csv.NewReader(&buf).ReadAll()
			So(err, ShouldBeNil)

			Convey("Then there is a header plus one line per row", func() {
				So(records, ShouldHaveLength, 3)
				So(records[0][0], ShouldEqual, "Rank")
				So(records[1][1], ShouldEqual, "Alice")
				So(records[2][6], ShouldEqual, "4/6")
			})
		})

		Convey("When verbose output is on", func() {
			cfg.VerboseOutput = true
			var buf bytes.Buffer
			So(r.WriteCSV(&buf, sampleResult()), ShouldBeNil)

			records, err := csv.NewReader(&buf).ReadAll()
			So(err, ShouldBeNil)

			Convey("Then the ids column is appended", func() {
				So(records[0][len(records[0])-1], ShouldEqual, "IDs")
				So(records[1][len(records[1])-1], ShouldEqual, "a,b")
			})
		})
	})
}

func TestRenderer_WriteFiles(t *testing.T) {
	Convey("Given a renderer asked for file outputs", t, func() {
		dir := t.TempDir()
		wd, err := os.Getwd()
		So(err, ShouldBeNil)
		So(os.Chdir(dir), ShouldBeNil)
		defer func() { _ = os.Chdir(wd) }()

		cfg := config.New()
		cfg.WriteTxt = true
		cfg.WriteCSV = true
		fixed := time.Date(2024, time.May, 15, 9, 0, 0, 0, time.UTC)
		r := render.New(cfg, "11111111-2222-3333-4444-555555555555", render.WithClock(func() time.Time { return fixed }))

		Convey("When files are written", func() {
			paths, err := r.WriteFiles(sampleResult())
			So(err, ShouldBeNil)

			Convey("Then both files land under out/ with stamped names", func() {
				So(paths, ShouldHaveLength, 2)
				So(paths[0], ShouldEqual, filepath.Join("out", "player_ratings_20240515_090000_11111111.txt"))
				So(paths[1], ShouldEqual, filepath.Join("out", "player_ratings_20240515_090000_11111111.csv"))
				for _, p := range paths {
					_, err := os.Stat(p)
					So(err, ShouldBeNil)
				}
			})
		})
	})

	Convey("Given file outputs are disabled", t, func() {
		r := render.New(config.New(), "run-id")

		Convey("Then nothing is written", func() {
			paths, err := r.WriteFiles(sampleResult())
			So(err, ShouldBeNil)
			So(paths, ShouldBeEmpty)
		})
	})
}
