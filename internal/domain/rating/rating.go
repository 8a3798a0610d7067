// Package rating defines the skill-distribution type and the contract for
// the pairwise team rating update.
//
// The engine treats the update algorithm as an opaque capability: two
// ordered team distribution lists and a winner go in, two updated lists of
// the same length and order come out. The default implementation lives in
// trueskill.go; tests inject deterministic stubs.
package rating

import "context"

// Rating is a player's skill distribution.
type Rating struct {
	Mu    float64
	Sigma float64
}

// Conservative returns the lower-confidence-bound score mu - 3*sigma used
// for leaderboard ordering.
func (r Rating) Conservative() float64 {
	return r.Mu - 3*r.Sigma
}

// Winner indicates which side of a Rate call won. Draws never reach Rate.
type Winner int

const (
	// TeamA means the first team list won.
	TeamA Winner = iota
	// TeamB means the second team list won.
	TeamB
)

// Updater computes post-match skill distributions for two teams.
//
// Implementations must return lists matching the input lists in length and
// order, with the winning side trending toward higher mean and lower
// uncertainty and the losing side the opposite way.
type Updater interface {
	Rate(ctx context.Context, teamA, teamB []Rating, winner Winner) ([]Rating, []Rating, error)
}
