// Two-team Gaussian skill update in the TrueSkill family.
//
// Variable names follow the conventions of Herbrich, Minka and Graepel's
// paper: beta is the per-player performance deviation, c the combined
// standard deviation of the match outcome, and v/w the additive and
// multiplicative truncated-Gaussian correction functions.

package rating

import (
	"context"
	"errors"
	"math"
)

// Default update parameters for a mu=25, sigma=25/3 rating scale.
const (
	defaultBeta = 25.0 / 6.0
	minVariance = 1e-9
	// Below this cumulative probability the ratio pdf/cdf is evaluated
	// by its asymptote to avoid dividing by zero.
	cdfFloor = 1e-12
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrEmptyTeam = errors.New("empty team")
)

// Option applies a configuration option to the TrueSkillUpdater.
type Option func(*TrueSkillUpdater)

// WithBeta sets the performance deviation. Conventionally half the
// default sigma of the rating scale.
func WithBeta(beta float64) Option {
	return func(u *TrueSkillUpdater) {
		if beta > 0 {
			u.beta = beta
		}
	}
}

// TrueSkillUpdater implements Updater with the two-team win/loss update.
type TrueSkillUpdater struct {
	beta float64
}

// NewTrueSkillUpdater creates an updater with configuration options.
func NewTrueSkillUpdater(opts ...Option) *TrueSkillUpdater {
	u := &TrueSkillUpdater{beta: defaultBeta}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Rate computes updated distributions for both teams given the winner.
// Output lists mirror the input lists in length and order.
func (u *TrueSkillUpdater) Rate(ctx context.Context, teamA, teamB []Rating, winner Winner) ([]Rating, []Rating, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	if len(teamA) == 0 || len(teamB) == 0 {
		return nil, nil, ErrEmptyTeam
	}

	win, lose := teamA, teamB
	if winner == TeamB {
		win, lose = teamB, teamA
	}

	// Team performance is the sum of member marginals.
	var muWin, muLose, sumVar float64
	for _, r := range win {
		muWin += r.Mu
		sumVar += r.Sigma * r.Sigma
	}
	for _, r := range lose {
		muLose += r.Mu
		sumVar += r.Sigma * r.Sigma
	}

	n := float64(len(win) + len(lose))
	c := math.Sqrt(n*u.beta*u.beta + sumVar)
	t := (muWin - muLose) / c
	v := vWin(t)
	w := v * (v + t)

	newWin := updateTeam(win, c, v, w, +1)
	newLose := updateTeam(lose, c, v, w, -1)

	if winner == TeamB {
		return newLose, newWin, nil
	}
	return newWin, newLose, nil
}

// updateTeam allocates the shared win-probability correction to each
// member in proportion to that member's variance. sign is +1 for the
// winning team and -1 for the losing team.
func updateTeam(team []Rating, c, v, w, sign float64) []Rating {
	updated := make([]Rating, len(team))
	for i, r := range team {
		variance := r.Sigma * r.Sigma
		mu := r.Mu + sign*(variance/c)*v
		shrunk := variance * (1 - (variance/(c*c))*w)
		if shrunk < minVariance {
			shrunk = minVariance
		}
		updated[i] = Rating{Mu: mu, Sigma: math.Sqrt(shrunk)}
	}
	return updated
}

// vWin is the additive correction pdf(t)/cdf(t) for a won comparison.
func vWin(t float64) float64 {
	denom := normCDF(t)
	if denom < cdfFloor {
		return -t
	}
	return normPDF(t) / denom
}

func normPDF(x float64) float64 {
	return math.Exp(-x*x/2) / math.Sqrt(2*math.Pi)
}

func normCDF(x float64) float64 {
	return 0.5 * math.Erfc(-x/math.Sqrt2)
}
