// Package source supplies the match history from outside the core: over
// HTTP from the match API, or from a local JSON file.
package source

import (
	"context"
	"errors"

	"github.com/pugrank/pugrank/internal/config"
	"github.com/pugrank/pugrank/internal/domain/model"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	// ErrFetch marks a network fetch failure.
	ErrFetch = errors.New("fetch match data failed")
	// ErrRead marks a local file read failure.
	ErrRead = errors.New("read match data failed")
)

// Source yields the full chronological match list for one run.
type Source interface {
	Matches(ctx context.Context) ([]model.Match, error)
}

// Select picks the source for a validated config: the JSON file when one
// is configured, the match API otherwise.
func Select(cfg *config.Config) Source {
	if cfg.JSONFile != "" {
		return NewFile(cfg.JSONFile)
	}
	return NewHTTP(cfg.Domain, cfg.ServerID, cfg.DateStart)
}
