// Package model contains the match wire schema shared across layers.
package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// Team numbers used on the wire. 0 means no winner (a tie).
const (
	NoWinner = 0
	Team1    = 1
	Team2    = 2
)

// Match represents one completed team match from the history feed.
type Match struct {
	// CompletionTimestamp is epoch milliseconds.
	CompletionTimestamp int64 `json:"completionTimestamp"`
	// WinningTeam is 0 (no winner), 1 or 2.
	WinningTeam int `json:"winningTeam"`
	// Players holds every participant across both teams.
	Players []Participant `json:"players"`
}

// Participant is a single player's appearance in a match.
type Participant struct {
	User      User `json:"user"`
	Team      int  `json:"team"`
	Captain   int  `json:"captain"`
	PickOrder *int `json:"pickOrder"`
}

// User identifies a participant on the wire.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// UnmarshalJSON accepts both string and numeric ids; some sources emit
// raw numeric snowflakes.
func (u *User) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID   any    `json:"id"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	u.Name = raw.Name
	switch id := raw.ID.(type) {
	case nil:
		u.ID = ""
	case string:
		u.ID = id
	case float64:
		u.ID = fmt.Sprintf("%.0f", id)
	default:
		return fmt.Errorf("%w: unsupported user id type %T", ErrMalformedRecord, raw.ID)
	}
	return nil
}

// Date converts the completion timestamp into a time in loc.
// A non-positive timestamp is rejected as unparseable.
func (m Match) Date(loc *time.Location) (time.Time, error) {
	if m.CompletionTimestamp <= 0 {
		return time.Time{}, fmt.Errorf("%w: completionTimestamp %d", ErrBadTimestamp, m.CompletionTimestamp)
	}
	return time.UnixMilli(m.CompletionTimestamp).In(loc), nil
}

// EffectivePickOrder returns the participant's pick order with null
// treated as 0.
func (p Participant) EffectivePickOrder() int {
	if p.PickOrder == nil {
		return 0
	}
	return *p.PickOrder
}

// Validate checks the fields the engine cannot work without.
func (p Participant) Validate() error {
	if p.User.ID == "" {
		return fmt.Errorf("%w: participant without user id", ErrMalformedRecord)
	}
	if p.Team != Team1 && p.Team != Team2 {
		return fmt.Errorf("%w: participant %q on team %d", ErrMalformedRecord, p.User.ID, p.Team)
	}
	return nil
}
