// Package render formats a run's result as a text table, a summary block
// and optional txt/CSV files. It sits outside the core: rows come in
// already filtered, sorted and ranked.
package render

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/pugrank/pugrank/internal/app"
	"github.com/pugrank/pugrank/internal/config"
	"github.com/pugrank/pugrank/internal/domain/leaderboard"
	"github.com/pugrank/pugrank/pkg/timeutil"
)

// Option applies a configuration option to the Renderer.
type Option func(*Renderer)

// WithSourceURL records the fetch URL for verbose output.
func WithSourceURL(url string) Option {
	return func(r *Renderer) { r.sourceURL = url }
}

// WithClock injects the time source used for output file names.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) {
		if now != nil {
			r.now = now
		}
	}
}

// Renderer writes leaderboard output the way the settings ask for it.
type Renderer struct {
	cfg       *config.Config
	runID     string
	sourceURL string
	now       func() time.Time
}

// New creates a Renderer for one run.
func New(cfg *config.Config, runID string, opts ...Option) *Renderer {
	r := &Renderer{cfg: cfg, runID: runID, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Header returns the column set, with the secondary-ids column in verbose
// mode.
func (r *Renderer) Header() []string {
	header := []string{
		"Rank", "Name", "Rating (μ - 3σ)", "μ (mu)", "σ (sigma)",
		"Games Played", "Win/Loss", "Last Played", "Avg Pick Order",
	}
	if r.cfg.VerboseOutput {
		header = append(header, "IDs")
	}
	return header
}

// RowStrings formats one leaderboard row for table and CSV output.
func (r *Renderer) RowStrings(row leaderboard.Row) []string {
	out := []string{
		strconv.Itoa(row.Rank),
		row.Name,
		fmt.Sprintf("%.2f", row.Conservative),
		fmt.Sprintf("%.2f", row.Mu),
		fmt.Sprintf("%.2f", row.Sigma),
		strconv.Itoa(row.GamesPlayed),
		fmt.Sprintf("%d/%d", row.Wins, row.Losses),
		timeutil.FormatDateStr(row.LastPlayed),
		fmt.Sprintf("%.2f", row.AvgPickOrder),
	}
	if r.cfg.VerboseOutput {
		out = append(out, strings.Join(row.SecondaryIDs, ","))
	}
	return out
}

// Write renders the full report (header lines, table, summary) to w.
func (r *Renderer) Write(w io.Writer, res *app.Result) error {
	if r.cfg.VerboseOutput && r.sourceURL != "" {
		fmt.Fprintf(w, "Input URL: %s\n", r.sourceURL)
		fmt.Fprintf(w, "Server ID: %s\n", r.cfg.ServerID)
	}
	if res.Summary.PeriodStart != "" {
		fmt.Fprintf(w, "Games period: From %s to %s\n", res.Summary.PeriodStart, res.Summary.PeriodEnd)
	}
	fmt.Fprintf(w, "Games used: %d\n", res.Summary.GamesUsed)

	table := tablewriter.NewWriter(w)
	table.SetHeader(r.Header())
	table.SetAutoFormatHeaders(false)
	for _, row := range res.Rows {
		table.Append(r.RowStrings(row))
	}
	table.Render()

	r.writeSummary(w, res)
	return nil
}

// writeSummary prints the run-level counters under the table.
func (r *Renderer) writeSummary(w io.Writer, res *app.Result) {
	if r.cfg.DecayEnabled {
		fmt.Fprintf(w, "Sigma decay: decay_amount=%g, grace_days=%d, max_decay_proportion=%g\n",
			r.cfg.DecayAmount, r.cfg.GraceDays, r.cfg.MaxDecayProportion)
	} else {
		fmt.Fprintln(w, "Sigma decay: Disabled")
	}
	fmt.Fprintf(w, "Minimum games required: %d (%d players filtered)\n",
		r.cfg.MinGamesRequired, res.Summary.FilteredByMinGames)
	if r.cfg.LastDaysThreshold > 0 {
		fmt.Fprintf(w, "Last days threshold: %d (%d players filtered)\n",
			r.cfg.LastDaysThreshold, res.Summary.FilteredByLastDays)
	}
	if r.cfg.MinGamesLastDays > 0 {
		fmt.Fprintf(w, "Min games in last days threshold: %d (%d players filtered)\n",
			r.cfg.MinGamesLastDays, res.Summary.FilteredByRecentGames)
	}
	if r.cfg.TopX > 0 {
		fmt.Fprintf(w, "Showing top %d players (%d cutoff)\n", r.cfg.TopX, res.Summary.CutoffCount)
	}
	fmt.Fprintf(w, "Ties discarded: %t\n", r.cfg.DiscardTies)

	canonical := make([]string, 0, len(r.cfg.UserAliases))
	for id := range r.cfg.UserAliases {
		canonical = append(canonical, id)
	}
	sort.Strings(canonical)
	fmt.Fprintf(w, "Aliased player/s: %s\n", strings.Join(canonical, ", "))
}
