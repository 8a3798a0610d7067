package render

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/pugrank/pugrank/internal/app"
)

// WriteCSV writes the header and one line per leaderboard row to w.
func (r *Renderer) WriteCSV(w io.Writer, res *app.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(r.Header()); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range res.Rows {
		if err := cw.Write(r.RowStrings(row)); err != nil {
			return fmt.Errorf("write csv row %d: %w", row.Rank, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
