package source

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/pugrank/pugrank/internal/domain/model"
)

// FileSource reads the match history from a local JSON file.
type FileSource struct {
	path string
}

// NewFile creates a source over the given file path.
func NewFile(path string) *FileSource {
	return &FileSource{path: path}
}

// Matches reads and decodes the match list.
func (s *FileSource) Matches(ctx context.Context) ([]model.Match, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRead, s.path, err)
	}
	var matches []model.Match
	if err := json.Unmarshal(data, &matches); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRead, s.path, err)
	}
	return matches, nil
}
