// Package config defines run configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers defaults, optional settings file, env vars and flags.
// - External errors must be wrapped via this package's error helpers.
package config

import "time"

// Config contains one run's configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Domain is the match API base URL, e.g. "https://pug.example.com".
	Domain string `koanf:"domain"`

	// ServerID selects the game server whose history is fetched.
	ServerID string `koanf:"server_id"`

	// DateStart is the history start, epoch milliseconds.
	DateStart int64 `koanf:"date_start"`

	// Timezone is the IANA zone matches are bucketed into, e.g. "Australia/Sydney".
	Timezone string `koanf:"timezone"`

	// UserAliases maps a canonical id to its secondary raw ids.
	UserAliases map[string][]string `koanf:"user_aliases"`

	// MinGamesRequired filters the leaderboard to players with at least
	// this many games.
	MinGamesRequired int `koanf:"min_games_required"`

	// LastDaysThreshold, when positive, drops players who have not played
	// within this many days.
	LastDaysThreshold int `koanf:"last_days_threshold"`

	// MinGamesLastDays, when positive, drops players with fewer recent games.
	MinGamesLastDays int `koanf:"min_games_last_days"`

	// DiscardTies skips matches with no winner entirely.
	DiscardTies bool `koanf:"discard_ties"`

	// DecayEnabled turns on the inactivity sigma decay pass.
	DecayEnabled bool `koanf:"decay_enabled"`

	// DecayAmount is the sigma increase per day of inactivity.
	DecayAmount float64 `koanf:"decay_amount"`

	// GraceDays is the inactivity allowance before decay starts.
	GraceDays int `koanf:"grace_days"`

	// MaxDecayProportion caps sigma at DefaultSigma * MaxDecayProportion.
	MaxDecayProportion float64 `koanf:"max_decay_proportion"`

	// DefaultMu and DefaultSigma seed new player skill distributions.
	DefaultMu    float64 `koanf:"default_mu"`
	DefaultSigma float64 `koanf:"default_sigma"`

	// VerboseOutput adds secondary ids and source details to the output.
	VerboseOutput bool `koanf:"verbose_output"`

	// TopX, when positive, truncates the leaderboard.
	TopX int `koanf:"top_x"`

	// WriteTxt and WriteCSV enable file outputs under out/.
	WriteTxt bool `koanf:"write_txt"`
	WriteCSV bool `koanf:"write_csv"`

	// JSONFile, when set, reads match history from a file instead of the API.
	JSONFile string `koanf:"json_file"`

	// MetricsPushURL, when set, pushes run metrics to a Pushgateway.
	MetricsPushURL string `koanf:"metrics_push_url"`

	loc *time.Location
}

// New creates a Config with defaults for the standard TrueSkill scale.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		Timezone:           "UTC",
		UserAliases:        map[string][]string{},
		MinGamesRequired:   0,
		LastDaysThreshold:  0,
		MinGamesLastDays:   0,
		DiscardTies:        false,
		DecayEnabled:       false,
		DecayAmount:        0.1,
		GraceDays:          14,
		MaxDecayProportion: 1.0,
		DefaultMu:          25.0,
		DefaultSigma:       25.0 / 3.0,
		TopX:               0,
	}
}

// Location returns the parsed timezone. Validate must have succeeded.
func (c *Config) Location() *time.Location {
	if c.loc == nil {
		return time.UTC
	}
	return c.loc
}
