// Package ledger holds the per-player stateful records for one run.
package ledger

import (
	"sort"
	"time"

	"github.com/pugrank/pugrank/internal/domain/rating"
)

// PlayerRecord is the mutable per-player state accumulated over a run.
type PlayerRecord struct {
	CanonicalID string
	// Name is fixed at first creation and never overwritten, even when a
	// later appearance carries a different display name.
	Name   string
	Rating rating.Rating

	GamesPlayed int
	Wins        int
	Losses      int

	// LastPlayed is the zero time until the first counted match.
	LastPlayed  time.Time
	RecentGames int

	secondaryIDs   map[string]struct{}
	totalPickOrder int
	pickOrderCount int
	AvgPickOrder   float64
}

// AddGame records a counted appearance on the given civil date.
// Win/loss tallies are applied separately, after the rating update.
func (p *PlayerRecord) AddGame(date time.Time, recent bool) {
	p.GamesPlayed++
	if p.LastPlayed.IsZero() || date.After(p.LastPlayed) {
		p.LastPlayed = date
	}
	if recent {
		p.RecentGames++
	}
}

// AddWin increments the win tally.
func (p *PlayerRecord) AddWin() { p.Wins++ }

// AddLoss increments the loss tally.
func (p *PlayerRecord) AddLoss() { p.Losses++ }

// AddPickOrder folds one pick-order sample into the running average.
func (p *PlayerRecord) AddPickOrder(order int) {
	p.totalPickOrder += order
	p.pickOrderCount++
	p.AvgPickOrder = float64(p.totalPickOrder) / float64(p.pickOrderCount)
}

// AddSecondaryID records a raw id that resolved to this player.
func (p *PlayerRecord) AddSecondaryID(rawID string) {
	p.secondaryIDs[rawID] = struct{}{}
}

// SecondaryIDs returns the raw ids seen for this player, sorted.
func (p *PlayerRecord) SecondaryIDs() []string {
	ids := make([]string, 0, len(p.secondaryIDs))
	for id := range p.secondaryIDs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Ledger maps canonical ids to player records, creating them lazily.
// Insertion order is kept explicitly: leaderboard tie-breaks are defined
// on first-appearance order and must never depend on map iteration.
type Ledger struct {
	records map[string]*PlayerRecord
	order   []string
}

// New creates an empty Ledger.
func New() *Ledger {
	return &Ledger{records: make(map[string]*PlayerRecord)}
}

// GetOrCreate returns the record for canonicalID, creating it with the
// given display name and default skill distribution on first sight.
func (l *Ledger) GetOrCreate(canonicalID, name string, defaultMu, defaultSigma float64) *PlayerRecord {
	if p, ok := l.records[canonicalID]; ok {
		return p
	}
	p := &PlayerRecord{
		CanonicalID:  canonicalID,
		Name:         name,
		Rating:       rating.Rating{Mu: defaultMu, Sigma: defaultSigma},
		secondaryIDs: make(map[string]struct{}),
	}
	l.records[canonicalID] = p
	l.order = append(l.order, canonicalID)
	return p
}

// Get returns the record for canonicalID if it exists.
func (l *Ledger) Get(canonicalID string) (*PlayerRecord, bool) {
	p, ok := l.records[canonicalID]
	return p, ok
}

// Records returns all records in insertion order.
func (l *Ledger) Records() []*PlayerRecord {
	out := make([]*PlayerRecord, len(l.order))
	for i, id := range l.order {
		out[i] = l.records[id]
	}
	return out
}

// Len returns the number of records.
func (l *Ledger) Len() int { return len(l.records) }
