// Package leaderboard turns the final ledger into filtered, ranked rows.
package leaderboard

import (
	"sort"
	"time"

	"github.com/pugrank/pugrank/internal/domain/ledger"
	"github.com/pugrank/pugrank/pkg/metrics"
)

// Params controls the filter/sort/rank pipeline.
type Params struct {
	// MinGamesRequired keeps players with at least this many games.
	MinGamesRequired int
	// LastDaysThreshold, when positive, keeps players whose last game is
	// within this many days of Today.
	LastDaysThreshold int
	// MinGamesLastDays, when positive, keeps players with at least this
	// many games inside the recency window.
	MinGamesLastDays int
	// TopX, when positive, truncates the sorted board to the first TopX.
	TopX int
	// Today is the civil date the thresholds are measured against.
	Today time.Time
}

// Row is one ranked leaderboard entry.
type Row struct {
	Rank         int
	CanonicalID  string
	Name         string
	Conservative float64
	Mu           float64
	Sigma        float64
	GamesPlayed  int
	Wins         int
	Losses       int
	LastPlayed   time.Time
	AvgPickOrder float64
	SecondaryIDs []string
}

// Board is the ranked output plus per-stage filter accounting.
type Board struct {
	Rows []Row

	FilteredByMinGames    int
	FilteredByLastDays    int
	FilteredByRecentGames int
	CutoffCount           int
}

// Build runs the filter pipeline over the ledger, sorts survivors by
// conservative score descending and assigns 1-based ranks.
//
// Ties in conservative score are broken by the ledger's insertion order
// (first appearance in the match history) via a stable sort. That order is
// not a business rule; it is simply documented, deterministic behavior.
func Build(led *ledger.Ledger, params Params) *Board {
	b := &Board{}
	players := led.Records()

	kept := players[:0:0]
	for _, p := range players {
		if p.GamesPlayed >= params.MinGamesRequired {
			kept = append(kept, p)
		}
	}
	b.FilteredByMinGames = len(players) - len(kept)
	players = kept

	if params.LastDaysThreshold > 0 {
		threshold := params.Today.AddDate(0, 0, -params.LastDaysThreshold)
		kept = players[:0:0]
		for _, p := range players {
			if !p.LastPlayed.Before(threshold) {
				kept = append(kept, p)
			}
		}
		b.FilteredByLastDays = len(players) - len(kept)
		players = kept
	}

	if params.MinGamesLastDays > 0 {
		kept = players[:0:0]
		for _, p := range players {
			if p.RecentGames >= params.MinGamesLastDays {
				kept = append(kept, p)
			}
		}
		b.FilteredByRecentGames = len(players) - len(kept)
		players = kept
	}

	sort.SliceStable(players, func(i, j int) bool {
		return players[i].Rating.Conservative() > players[j].Rating.Conservative()
	})

	if params.TopX > 0 {
		if cutoff := len(players) - params.TopX; cutoff > 0 {
			b.CutoffCount = cutoff
			players = players[:params.TopX]
		}
	}

	b.Rows = make([]Row, len(players))
	for i, p := range players {
		b.Rows[i] = Row{
			Rank:         i + 1,
			CanonicalID:  p.CanonicalID,
			Name:         p.Name,
			Conservative: p.Rating.Conservative(),
			Mu:           p.Rating.Mu,
			Sigma:        p.Rating.Sigma,
			GamesPlayed:  p.GamesPlayed,
			Wins:         p.Wins,
			Losses:       p.Losses,
			LastPlayed:   p.LastPlayed,
			AvgPickOrder: p.AvgPickOrder,
			SecondaryIDs: p.SecondaryIDs(),
		}
	}

	metrics.RecordPlayersFiltered(metrics.StageMinGames, b.FilteredByMinGames)
	metrics.RecordPlayersFiltered(metrics.StageLastDays, b.FilteredByLastDays)
	metrics.RecordPlayersFiltered(metrics.StageMinGamesLast, b.FilteredByRecentGames)
	metrics.RecordPlayersFiltered(metrics.StageTopCutoff, b.CutoffCount)

	return b
}
