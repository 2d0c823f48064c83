package feed

import (
	"fmt"

	"match-comb/app/match"
)

// Grouper merges raw streams that refer to the same match into a single
// Match carrying all of its channel streams. Grouping is by exact title;
// near-duplicate titles produce separate groups, which mirrors the upstream
// data and keeps group membership predictable.
type Grouper struct{}

func NewGrouper() *Grouper {
	return &Grouper{}
}

// Run groups streams by title, preserving first-seen order. The first group
// member's category, kickoff and poster win; later members only contribute
// their stream URL. Streams without a title cannot be grouped or identified
// later and are dropped.
func (g *Grouper) Run(streams []match.RawStream) []match.Match {
	index := make(map[string]int)
	matches := make([]match.Match, 0)

	for _, s := range streams {
		if s.Title == "" {
			continue
		}

		i, ok := index[s.Title]
		if !ok {
			i = len(matches)
			index[s.Title] = i
			matches = append(matches, match.Match{
				Title:     s.Title,
				Category:  s.Category,
				Kickoff:   s.Kickoff,
				PosterURL: s.PosterURL,
			})
		}

		if s.PlayerURL == "" {
			continue
		}

		name := s.ChannelName
		if name == "" {
			name = fmt.Sprintf("Stream %d", len(matches[i].Streams)+1)
		}
		matches[i].Streams = append(matches[i].Streams, match.Stream{
			Name: name,
			URL:  s.PlayerURL,
		})
	}

	return matches
}
