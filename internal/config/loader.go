package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	kjson "github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Load builds a Config by layering defaults, optional settings file, env
// vars and command-line flags.
// Order of precedence (low -> high):.
//  1. defaults (New())
//  2. settings file (JSON or YAML by extension) if settingsPath or
//     PUGRANK_SETTINGS is set
//  3. env (prefix PUGRANK_)
//  4. flags (names match koanf keys)
//
// The returned Config is validated; a run never starts on a bad one.
func Load(ctx context.Context, settingsPath string, flags *pflag.FlagSet) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if settingsPath == "" {
		settingsPath = os.Getenv("PUGRANK_SETTINGS")
	}
	if settingsPath != "" {
		var parser koanf.Parser = yaml.Parser()
		if strings.EqualFold(filepath.Ext(settingsPath), ".json") {
			parser = kjson.Parser()
		}
		if err := k.Load(file.Provider(settingsPath), parser); err != nil {
			return nil, fmt.Errorf("%w: settings file %s: %v", ErrLoadConfig, settingsPath, err)
		}
	}

	// Environment variables: PUGRANK_DOMAIN, PUGRANK_MIN_GAMES_REQUIRED, ...
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("PUGRANK_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "pugrank_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: environment: %v", ErrLoadConfig, err)
	}

	// Flags win over everything. Passing k lets posflag keep file/env
	// values for flags the caller did not change.
	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return nil, fmt.Errorf("%w: flags: %v", ErrLoadConfig, err)
		}
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate enforces the configuration ranges before any match is
// processed. It also parses the timezone so later phases cannot fail on it.
func (c *Config) Validate() error {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("%w: timezone %q: %v", ErrInvalidConfig, c.Timezone, err)
	}
	c.loc = loc

	switch {
	case c.MinGamesRequired < 0:
		return fmt.Errorf("%w: min_games_required must be >= 0", ErrInvalidConfig)
	case c.LastDaysThreshold < 0:
		return fmt.Errorf("%w: last_days_threshold must be >= 0", ErrInvalidConfig)
	case c.MinGamesLastDays < 0:
		return fmt.Errorf("%w: min_games_last_days must be >= 0", ErrInvalidConfig)
	case c.GraceDays < 0:
		return fmt.Errorf("%w: grace_days must be >= 0", ErrInvalidConfig)
	case c.TopX < 0:
		return fmt.Errorf("%w: top_x must be >= 0", ErrInvalidConfig)
	case c.DecayAmount < 0:
		return fmt.Errorf("%w: decay_amount must be >= 0", ErrInvalidConfig)
	case c.MaxDecayProportion < 0 || c.MaxDecayProportion > 1:
		return fmt.Errorf("%w: max_decay_proportion must be in [0,1]", ErrInvalidConfig)
	case c.DefaultMu <= 0:
		return fmt.Errorf("%w: default_mu must be > 0", ErrInvalidConfig)
	case c.DefaultSigma <= 0:
		return fmt.Errorf("%w: default_sigma must be > 0", ErrInvalidConfig)
	}

	if c.JSONFile == "" {
		if c.Domain == "" || c.ServerID == "" || c.DateStart <= 0 {
			return fmt.Errorf("%w: domain, server_id and date_start are required without json_file", ErrInvalidConfig)
		}
	}
	return nil
}
