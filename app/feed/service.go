package feed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"match-comb/app/match"
	"match-comb/app/sources"
)

const fetchTimeout = 30 * time.Second

// Service runs the full ingestion pipeline: fetch every configured upstream
// feed, normalize, group into matches, and assign identities. The result is
// deduplicated by identity with the later value replacing the earlier one in
// its original slot, so feed order is preserved for the scheduler.
type Service struct {
	sources    []sources.Source
	httpClient *http.Client
	normalizer *Normalizer
	grouper    *Grouper
	userAgent  string
}

func NewService(srcs []sources.Source, httpClient *http.Client, userAgent string) *Service {
	return &Service{
		sources:    srcs,
		httpClient: httpClient,
		normalizer: NewNormalizer(),
		grouper:    NewGrouper(),
		userAgent:  userAgent,
	}
}

// Load fetches and reduces all sources. A source that fails to fetch is
// logged and skipped; Load fails only when every source failed, which is
// fatal for the run.
func (s *Service) Load(ctx context.Context) ([]match.Match, error) {
	var streams []match.RawStream
	fetched := 0

	for _, src := range s.sources {
		data, err := s.fetch(ctx, src.URL)
		if err != nil {
			slog.Warn("Failed to fetch feed source", "source", src.Name, "error", err)
			continue
		}
		fetched++

		normalized := s.normalizer.Run(data)
		slog.Debug("Normalized feed source", "source", src.Name, "streams", len(normalized))
		streams = append(streams, normalized...)
	}

	if fetched == 0 {
		return nil, fmt.Errorf("all %d feed sources failed", len(s.sources))
	}

	matches := s.grouper.Run(streams)
	for i := range matches {
		matches[i].Identity = match.Identity(matches[i].Title, matches[i].Kickoff)
	}

	return dedupeByIdentity(matches), nil
}

func (s *Service) fetch(ctx context.Context, url string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}

// dedupeByIdentity collapses matches sharing an identity. Distinct titles can
// collide after slug truncation; the later match overwrites the earlier one
// but keeps its slot, preserving stable input order under the create cap.
func dedupeByIdentity(matches []match.Match) []match.Match {
	index := make(map[string]int, len(matches))
	out := make([]match.Match, 0, len(matches))

	for _, m := range matches {
		if i, ok := index[m.Identity]; ok {
			slog.Debug("Identity collision, later match wins", "identity", m.Identity, "title", m.Title)
			out[i] = m
			continue
		}
		index[m.Identity] = len(out)
		out = append(out, m)
	}

	return out
}
