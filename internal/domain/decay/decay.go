// Package decay widens skill uncertainty for players inactive beyond a
// grace period.
//
// Checkpoints are the distinct dates on which any match occurred, not
// wall-clock calendar days, so a real-world gap with no recorded matches
// produces no decay evaluation.
package decay

import (
	"github.com/pugrank/pugrank/internal/domain/alias"
	"github.com/pugrank/pugrank/internal/domain/ledger"
	"github.com/pugrank/pugrank/internal/domain/timeline"
	"github.com/pugrank/pugrank/pkg/metrics"
	"github.com/pugrank/pugrank/pkg/timeutil"
)

// Engine applies inactivity sigma decay in a single post-pass.
type Engine struct {
	amount        float64
	graceDays     int
	maxProportion float64
	defaultSigma  float64
}

// New creates a decay engine.
//
// amount is the sigma increase per day of inactivity, graceDays the
// inactivity allowance before decay starts, and maxProportion caps sigma
// at defaultSigma * maxProportion.
func New(amount float64, graceDays int, maxProportion, defaultSigma float64) *Engine {
	return &Engine{
		amount:        amount,
		graceDays:     graceDays,
		maxProportion: maxProportion,
		defaultSigma:  defaultSigma,
	}
}

// Apply walks the played-dates timeline in ascending order and, at every
// checkpoint after the first, widens sigma for ledger players that did not
// participate on that date and have been inactive longer than the grace
// period. The mean is never touched and sigma never exceeds the cap.
func (e *Engine) Apply(led *ledger.Ledger, tl *timeline.Timeline, resolver *alias.Resolver) {
	dates := tl.Dates()
	for i, date := range dates {
		if i == 0 {
			// The first observed date has no predecessor.
			continue
		}
		played := resolver.ResolveSet(tl.Participants(date))
		for _, p := range led.Records() {
			if _, ok := played[p.CanonicalID]; ok {
				continue
			}
			if p.LastPlayed.IsZero() {
				continue
			}
			daysInactive := timeutil.DaysBetween(p.LastPlayed, date)
			if daysInactive <= e.graceDays {
				continue
			}
			e.widen(p, daysInactive)
		}
	}
}

// widen applies one capped sigma increase to p.
func (e *Engine) widen(p *ledger.PlayerRecord, daysInactive int) {
	maxIncrease := e.defaultSigma*e.maxProportion - p.Rating.Sigma
	if maxIncrease <= 0 {
		return
	}
	total := e.amount * float64(daysInactive)
	if total > maxIncrease {
		total = maxIncrease
	}
	p.Rating.Sigma += total
	metrics.RecordDecayAdjustment()
}
