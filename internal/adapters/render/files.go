package render

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pugrank/pugrank/internal/app"
)

const (
	outputDir          = "out"
	outputDirPerm      = 0o755
	filenameTimeLayout = "20060102_150405"
)

// WriteFiles writes the txt and CSV outputs the settings ask for and
// returns the created paths. Filenames carry the run timestamp and a
// short run id so successive runs never collide.
func (r *Renderer) WriteFiles(res *app.Result) ([]string, error) {
	if !r.cfg.WriteTxt && !r.cfg.WriteCSV {
		return nil, nil
	}
	if err := os.MkdirAll(outputDir, outputDirPerm); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	stamp := r.now().In(r.cfg.Location()).Format(filenameTimeLayout)
	base := fmt.Sprintf("player_ratings_%s_%s", stamp, shortID(r.runID))

	var paths []string
	if r.cfg.WriteTxt {
		path := filepath.Join(outputDir, base+".txt")
		f, err := os.Create(path)
		if err != nil {
			return paths, fmt.Errorf("create txt output: %w", err)
		}
		err = r.Write(f, res)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return paths, fmt.Errorf("write txt output: %w", err)
		}
		paths = append(paths, path)
	}

	if r.cfg.WriteCSV {
		path := filepath.Join(outputDir, base+".csv")
		f, err := os.Create(path)
		if err != nil {
			return paths, fmt.Errorf("create csv output: %w", err)
		}
		err = r.WriteCSV(f, res)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return paths, fmt.Errorf("write csv output: %w", err)
		}
		paths = append(paths, path)
	}

	return paths, nil
}

// shortID keeps the first uuid group, enough to disambiguate filenames.
func shortID(runID string) string {
	if len(runID) > 8 {
		return runID[:8]
	}
	return runID
}
