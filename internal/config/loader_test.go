package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"

	"github.com/pugrank/pugrank/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNew_Defaults(t *testing.T) {
	Convey("Given a default config", t, func() {
		cfg := config.New()

		Convey("Then it carries the standard rating scale", func() {
			So(cfg.DefaultMu, ShouldAlmostEqual, 25.0)
			So(cfg.DefaultSigma, ShouldAlmostEqual, 25.0/3.0)
			So(cfg.Timezone, ShouldEqual, "UTC")
			So(cfg.MaxDecayProportion, ShouldAlmostEqual, 1.0)
			So(cfg.TopX, ShouldEqual, 0)
		})
	})
}

func TestLoad_Layering(t *testing.T) {
	ctx := context.Background()

	Convey("Given a YAML settings file", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "settings.yaml")
		settings := []byte(`
json_file: history.json
min_games_required: 10
discard_ties: true
user_aliases:
  P:
    - a
    - b
`)
		So(os.WriteFile(path, settings, 0o600), ShouldBeNil)

		Convey("When loaded", func() {
			cfg, err := config.Load(ctx, path, nil)
			So(err, ShouldBeNil)

			Convey("Then file values override defaults", func() {
				So(cfg.MinGamesRequired, ShouldEqual, 10)
				So(cfg.DiscardTies, ShouldBeTrue)
				So(cfg.UserAliases, ShouldResemble, map[string][]string{"P": {"a", "b"}})
			})

			Convey("And untouched keys keep their defaults", func() {
				So(cfg.DefaultMu, ShouldAlmostEqual, 25.0)
			})
		})

		Convey("When an env var overrides the file", func() {
			t.Setenv("PUGRANK_MIN_GAMES_REQUIRED", "20")
			cfg, err := config.Load(ctx, path, nil)
			So(err, ShouldBeNil)

			Convey("Then env wins over file", func() {
				So(cfg.MinGamesRequired, ShouldEqual, 20)
			})
		})

		Convey("When a changed flag overrides both", func() {
			t.Setenv("PUGRANK_MIN_GAMES_REQUIRED", "20")
			fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
			fs.Int("min_games_required", 0, "")
			So(fs.Parse([]string{"--min_games_required", "30"}), ShouldBeNil)

			cfg, err := config.Load(ctx, path, fs)
			So(err, ShouldBeNil)

			Convey("Then the flag wins", func() {
				So(cfg.MinGamesRequired, ShouldEqual, 30)
			})
		})
	})

	Convey("Given a JSON settings file", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "settings.json")
		settings := []byte(`{"json_file": "history.json", "top_x": 5}`)
		So(os.WriteFile(path, settings, 0o600), ShouldBeNil)

		Convey("When loaded", func() {
			cfg, err := config.Load(ctx, path, nil)

			Convey("Then the parser is picked by extension", func() {
				So(err, ShouldBeNil)
				So(cfg.TopX, ShouldEqual, 5)
			})
		})
	})

	Convey("Given a missing settings file", t, func() {
		Convey("Then loading fails with the load sentinel", func() {
			_, err := config.Load(ctx, "/does/not/exist.yaml", nil)
			So(err, ShouldWrap, config.ErrLoadConfig)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *config.Config {
		cfg := config.New()
		cfg.JSONFile = "history.json"
		return cfg
	}

	Convey("Given a valid file-mode config", t, func() {
		So(valid().Validate(), ShouldBeNil)
	})

	Convey("Given invalid settings", t, func() {
		cases := map[string]func(*config.Config){
			"bad timezone":             func(c *config.Config) { c.Timezone = "Mars/Olympus" },
			"negative min games":       func(c *config.Config) { c.MinGamesRequired = -1 },
			"negative last days":       func(c *config.Config) { c.LastDaysThreshold = -1 },
			"negative recent games":    func(c *config.Config) { c.MinGamesLastDays = -3 },
			"negative grace days":      func(c *config.Config) { c.GraceDays = -1 },
			"negative top x":           func(c *config.Config) { c.TopX = -2 },
			"negative decay amount":    func(c *config.Config) { c.DecayAmount = -0.5 },
			"proportion above one":     func(c *config.Config) { c.MaxDecayProportion = 1.5 },
			"proportion below zero":    func(c *config.Config) { c.MaxDecayProportion = -0.1 },
			"non-positive default mu":  func(c *config.Config) { c.DefaultMu = 0 },
			"non-positive sigma":       func(c *config.Config) { c.DefaultSigma = -1 },
		}
		for name, mutate := range cases {
			Convey("Then "+name+" is rejected", func() {
				cfg := valid()
				mutate(cfg)
				So(cfg.Validate(), ShouldWrap, config.ErrInvalidConfig)
			})
		}
	})

	Convey("Given API mode without the required source fields", t, func() {
		cfg := config.New()
		cfg.JSONFile = ""
		cfg.Domain = "https://pug.example.com"
		// server_id and date_start missing

		Convey("Then validation fails before any match is processed", func() {
			So(cfg.Validate(), ShouldWrap, config.ErrInvalidConfig)
		})
	})

	Convey("Given a validated timezone", t, func() {
		cfg := valid()
		cfg.Timezone = "Australia/Sydney"
		So(cfg.Validate(), ShouldBeNil)

		Convey("Then Location returns the parsed zone", func() {
			So(cfg.Location().String(), ShouldEqual, "Australia/Sydney")
		})
	})
}
