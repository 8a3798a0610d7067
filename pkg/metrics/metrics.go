// Package metrics provides Prometheus metrics for a rating run.
//
// The tool is a one-shot batch job, so metrics are collected on a private
// registry during the run and, when a Pushgateway URL is configured,
// pushed once at the end with the run id as a grouping label.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Filter stage labels.
const (
	StageMinGames      = "min_games"
	StageLastDays      = "last_days"
	StageMinGamesLast  = "min_games_last_days"
	StageTopCutoff     = "top_cutoff"
	pushJobName        = "pugrank"
	pushTimeoutDefault = 10 * time.Second
)

var (
	registry = prometheus.NewRegistry()
	factory  = promauto.With(registry)

	matchesIngested = factory.NewCounter(prometheus.CounterOpts{
		Namespace: "pugrank",
		Name:      "matches_ingested_total",
		Help:      "Matches read from the source, including discarded ties.",
	})

	matchesUsed = factory.NewCounter(prometheus.CounterOpts{
		Namespace: "pugrank",
		Name:      "matches_used_total",
		Help:      "Matches that contributed a rating update.",
	})

	tiesDiscarded = factory.NewCounter(prometheus.CounterOpts{
		Namespace: "pugrank",
		Name:      "ties_discarded_total",
		Help:      "Matches discarded because no team won.",
	})

	ratingUpdates = factory.NewCounter(prometheus.CounterOpts{
		Namespace: "pugrank",
		Name:      "rating_updates_total",
		Help:      "Per-player rating distribution updates applied.",
	})

	decayAdjustments = factory.NewCounter(prometheus.CounterOpts{
		Namespace: "pugrank",
		Name:      "decay_adjustments_total",
		Help:      "Sigma increases applied by the inactivity decay pass.",
	})

	playersTracked = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: "pugrank",
		Name:      "players_tracked",
		Help:      "Distinct canonical players in the ledger after the run.",
	})

	playersFiltered = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pugrank",
		Name:      "players_filtered_total",
		Help:      "Players removed from the leaderboard, by filter stage.",
	}, []string{"stage"})

	runDuration = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: "pugrank",
		Name:      "run_duration_seconds",
		Help:      "Wall time of the full recompute run.",
	})
)

// RecordMatchIngested increments the ingested-match counter.
func RecordMatchIngested() { matchesIngested.Inc() }

// RecordMatchUsed increments the used-match counter.
func RecordMatchUsed() { matchesUsed.Inc() }

// RecordTieDiscarded increments the discarded-tie counter.
func RecordTieDiscarded() { tiesDiscarded.Inc() }

// RecordRatingUpdates adds n per-player rating updates.
func RecordRatingUpdates(n int) { ratingUpdates.Add(float64(n)) }

// RecordDecayAdjustment increments the decay-adjustment counter.
func RecordDecayAdjustment() { decayAdjustments.Inc() }

// UpdatePlayersTracked sets the distinct-player gauge.
func UpdatePlayersTracked(n int) { playersTracked.Set(float64(n)) }

// RecordPlayersFiltered adds n removed players for the given stage.
func RecordPlayersFiltered(stage string, n int) {
	playersFiltered.WithLabelValues(stage).Add(float64(n))
}

// RecordRunDuration sets the run-duration gauge.
func RecordRunDuration(d time.Duration) { runDuration.Set(d.Seconds()) }

// Push sends the run's metrics to a Pushgateway. The run id becomes a
// grouping label so successive runs do not overwrite each other.
func Push(ctx context.Context, url, runID string) error {
	ctx, cancel := context.WithTimeout(ctx, pushTimeoutDefault)
	defer cancel()

	return push.New(url, pushJobName).
		Gatherer(registry).
		Grouping("run_id", runID).
		PushContext(ctx)
}
