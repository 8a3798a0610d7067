// Package timeline tracks which raw participant ids were observed on each
// calendar date. The timeline is the sole input to decay-checkpoint
// selection: only dates on which some match occurred are checkpoints.
package timeline

import (
	"sort"
	"time"
)

// Timeline maps civil dates to the set of raw ids observed on that date.
type Timeline struct {
	dates map[time.Time]map[string]struct{}
}

// New creates an empty Timeline.
func New() *Timeline {
	return &Timeline{dates: make(map[time.Time]map[string]struct{})}
}

// Record registers rawID under date. Registration is unconditional: ids
// from matches later discarded as ties still count as observed.
func (t *Timeline) Record(date time.Time, rawID string) {
	set, ok := t.dates[date]
	if !ok {
		set = make(map[string]struct{})
		t.dates[date] = set
	}
	set[rawID] = struct{}{}
}

// Dates returns the distinct recorded dates in ascending order.
func (t *Timeline) Dates() []time.Time {
	dates := make([]time.Time, 0, len(t.dates))
	for d := range t.dates {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// Participants returns the raw ids observed on date. The returned set is
// the timeline's own; callers must not mutate it.
func (t *Timeline) Participants(date time.Time) map[string]struct{} {
	return t.dates[date]
}

// Len returns the number of distinct dates.
func (t *Timeline) Len() int { return len(t.dates) }
