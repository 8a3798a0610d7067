// Package app provides the rating engine that owns all per-run state:
// the alias resolver, the player ledger, the played-dates timeline and
// the run counters. An Engine is constructed per run and discarded.
//
// A run has three strictly sequential phases: match processing, the
// decay pass, and leaderboard construction. Phases never re-enter each
// other, so the engine needs no locking.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/pugrank/pugrank/internal/config"
	"github.com/pugrank/pugrank/internal/domain/alias"
	"github.com/pugrank/pugrank/internal/domain/decay"
	"github.com/pugrank/pugrank/internal/domain/leaderboard"
	"github.com/pugrank/pugrank/internal/domain/ledger"
	"github.com/pugrank/pugrank/internal/domain/model"
	"github.com/pugrank/pugrank/internal/domain/rating"
	"github.com/pugrank/pugrank/internal/domain/timeline"
	"github.com/pugrank/pugrank/pkg/logger"
	"github.com/pugrank/pugrank/pkg/metrics"
	"github.com/pugrank/pugrank/pkg/timeutil"
)

// Result is the output handed to the external formatter.
type Result struct {
	Rows    []leaderboard.Row
	Summary Summary
}

// Summary carries the run-level counters and period stamps.
type Summary struct {
	GamesUsed    int
	TotalPlayers int

	FilteredByMinGames    int
	FilteredByLastDays    int
	FilteredByRecentGames int
	CutoffCount           int

	PeriodStart string
	PeriodEnd   string
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithUpdater injects the rating update algorithm. Tests use this to
// replace the probabilistic default with a deterministic stub.
func WithUpdater(u rating.Updater) Option {
	return func(e *Engine) {
		if u != nil {
			e.updater = u
		}
	}
}

// WithClock injects the time source used for recency windows and period
// stamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithLogger sets a custom logger for the engine.
func WithLogger(log logger.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// Engine processes a chronological match history into a ranked leaderboard.
type Engine struct {
	cfg *config.Config
	loc *time.Location

	resolver *alias.Resolver
	ledger   *ledger.Ledger
	timeline *timeline.Timeline
	updater  rating.Updater
	now      func() time.Time
	log      logger.Logger

	gamesUsed int
}

// New constructs an Engine for one run. The config must be validated.
func New(cfg *config.Config, opts ...Option) *Engine {
	e := &Engine{
		cfg:      cfg,
		loc:      cfg.Location(),
		resolver: alias.NewResolver(cfg.UserAliases),
		ledger:   ledger.New(),
		timeline: timeline.New(),
		updater:  rating.NewTrueSkillUpdater(rating.WithBeta(cfg.DefaultSigma / 2)),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		e.log = logger.Get().Named("engine")
	}
	return e
}

// Run processes the full match list, applies decay if enabled and builds
// the leaderboard. Any per-match error aborts the run; no partial
// leaderboard is ever produced.
func (e *Engine) Run(ctx context.Context, matches []model.Match) (*Result, error) {
	started := e.now()
	today := timeutil.DateOf(started, e.loc)

	for i, m := range matches {
		if err := e.processMatch(ctx, m, today); err != nil {
			return nil, fmt.Errorf("match %d: %w", i, err)
		}
	}

	if e.cfg.DecayEnabled {
		decay.New(e.cfg.DecayAmount, e.cfg.GraceDays, e.cfg.MaxDecayProportion, e.cfg.DefaultSigma).
			Apply(e.ledger, e.timeline, e.resolver)
	}

	board := leaderboard.Build(e.ledger, leaderboard.Params{
		MinGamesRequired:  e.cfg.MinGamesRequired,
		LastDaysThreshold: e.cfg.LastDaysThreshold,
		MinGamesLastDays:  e.cfg.MinGamesLastDays,
		TopX:              e.cfg.TopX,
		Today:             today,
	})

	metrics.UpdatePlayersTracked(e.ledger.Len())
	metrics.RecordRunDuration(time.Since(started))

	e.log.Info(ctx, "run complete",
		logger.Int("matches", len(matches)),
		logger.Int("gamesUsed", e.gamesUsed),
		logger.Int("players", e.ledger.Len()),
		logger.Int("ranked", len(board.Rows)),
	)

	return &Result{
		Rows: board.Rows,
		Summary: Summary{
			GamesUsed:             e.gamesUsed,
			TotalPlayers:          e.ledger.Len(),
			FilteredByMinGames:    board.FilteredByMinGames,
			FilteredByLastDays:    board.FilteredByLastDays,
			FilteredByRecentGames: board.FilteredByRecentGames,
			CutoffCount:           board.CutoffCount,
			PeriodStart:           e.periodStart(),
			PeriodEnd:             started.In(e.loc).Format(timeutil.FormatDateTime),
		},
	}, nil
}

// processMatch applies one match to the ledger and timeline.
func (e *Engine) processMatch(ctx context.Context, m model.Match, today time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	metrics.RecordMatchIngested()

	when, err := m.Date(e.loc)
	if err != nil {
		return err
	}
	date := timeutil.DateOf(when, e.loc)

	// Every participant is registered in the played-dates timeline, even
	// when the match is discarded as a tie below.
	for _, p := range m.Players {
		if p.User.ID == "" {
			return fmt.Errorf("%w: participant without user id", model.ErrMalformedRecord)
		}
		e.timeline.Record(date, p.User.ID)
	}

	if m.WinningTeam == model.NoWinner && e.cfg.DiscardTies {
		metrics.RecordTieDiscarded()
		e.log.Debug(ctx, "discarded tie", logger.String("date", timeutil.FormatDateStr(date)))
		return nil
	}

	e.gamesUsed++
	metrics.RecordMatchUsed()

	recencyThreshold := today.AddDate(0, 0, -e.cfg.LastDaysThreshold)
	recent := !date.Before(recencyThreshold)

	var team1, team2 []rating.Rating
	var team1IDs, team2IDs []string

	for _, p := range m.Players {
		if err := p.Validate(); err != nil {
			return err
		}
		canonical := e.resolver.Resolve(p.User.ID)
		rec := e.ledger.GetOrCreate(canonical, p.User.Name, e.cfg.DefaultMu, e.cfg.DefaultSigma)

		rec.AddGame(date, recent)
		rec.AddSecondaryID(p.User.ID)
		// Captains do not pick themselves, so their slot says nothing
		// about perceived strength.
		if p.Captain == 0 {
			rec.AddPickOrder(p.EffectivePickOrder())
		}

		if p.Team == model.Team1 {
			team1 = append(team1, rec.Rating)
			team1IDs = append(team1IDs, canonical)
		} else {
			team2 = append(team2, rec.Rating)
			team2IDs = append(team2IDs, canonical)
		}
	}

	// A kept tie (winningTeam 0 with discard_ties off) runs through the
	// same branch as a team-2 win, so games == wins + losses always holds.
	winner := rating.TeamB
	if m.WinningTeam == model.Team1 {
		winner = rating.TeamA
	}

	newTeam1, newTeam2, err := e.updater.Rate(ctx, team1, team2, winner)
	if err != nil {
		return fmt.Errorf("rating update: %w", err)
	}
	if len(newTeam1) != len(team1) || len(newTeam2) != len(team2) {
		return fmt.Errorf("rating update: updater changed team cardinality")
	}

	e.writeBack(team1IDs, newTeam1, winner == rating.TeamA)
	e.writeBack(team2IDs, newTeam2, winner == rating.TeamB)
	metrics.RecordRatingUpdates(len(newTeam1) + len(newTeam2))

	return nil
}

// writeBack stores updated distributions in list order and settles the
// win/loss tallies. This is the only place those tallies change.
func (e *Engine) writeBack(ids []string, updated []rating.Rating, won bool) {
	for i, id := range ids {
		rec, ok := e.ledger.Get(id)
		if !ok {
			continue
		}
		rec.Rating = updated[i]
		if won {
			rec.AddWin()
		} else {
			rec.AddLoss()
		}
	}
}

// GamesUsed returns the number of matches that contributed a rating update.
func (e *Engine) GamesUsed() int { return e.gamesUsed }

// Ledger exposes the ledger for inspection after a run.
func (e *Engine) Ledger() *ledger.Ledger { return e.ledger }

// Timeline exposes the played-dates timeline after a run.
func (e *Engine) Timeline() *timeline.Timeline { return e.timeline }

func (e *Engine) periodStart() string {
	if e.cfg.DateStart <= 0 {
		return ""
	}
	return time.UnixMilli(e.cfg.DateStart).In(e.loc).Format(timeutil.FormatDate)
}
