package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pugrank/pugrank/internal/domain/model"
)

const defaultTimeout = 30 * time.Second

// HTTPOption applies a configuration option to the HTTPSource.
type HTTPOption func(*HTTPSource)

// WithHTTPClient replaces the default timeout-wrapped client.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(s *HTTPSource) {
		if client != nil {
			s.client = client
		}
	}
}

// HTTPSource fetches the match history from the game API.
type HTTPSource struct {
	client *http.Client
	url    string
}

// NewHTTP creates a source for {domain}/api/server/{serverID}/games/{dateStart}.
func NewHTTP(domain, serverID string, dateStart int64, opts ...HTTPOption) *HTTPSource {
	s := &HTTPSource{
		client: &http.Client{Timeout: defaultTimeout},
		url:    fmt.Sprintf("%s/api/server/%s/games/%d", domain, serverID, dateStart),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// URL returns the request URL, e.g. for verbose output.
func (s *HTTPSource) URL() string { return s.url }

// Matches fetches and decodes the match list.
func (s *HTTPSource) Matches(ctx context.Context) ([]model.Match, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFetch, s.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s: unexpected status %s", ErrFetch, s.url, resp.Status)
	}

	var matches []model.Match
	if err := json.NewDecoder(resp.Body).Decode(&matches); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFetch, s.url, err)
	}
	return matches, nil
}
