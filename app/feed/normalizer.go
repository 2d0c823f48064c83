package feed

import (
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"match-comb/app/match"
)

// Normalizer maps any of the known upstream JSON shapes into a uniform
// sequence of raw streams. The upstream feed has changed shape several times
// without versioning, so the formats are sniffed structurally, in priority
// order: array-of-events, nested categories, flat array. An unrecognized
// document yields an empty sequence, not an error.
type Normalizer struct {
	now func() time.Time
}

func NewNormalizer() *Normalizer {
	return &Normalizer{now: time.Now}
}

func (n *Normalizer) Run(data []byte) []match.RawStream {
	var doc document
	if err := json.Unmarshal(data, &doc); err == nil && len(doc.Events) > 0 {
		var events []json.RawMessage
		if err := json.Unmarshal(doc.Events, &events); err == nil {
			return n.normalizeEvents(events)
		}

		var nested struct {
			Streams []categoryJSON `json:"streams"`
		}
		if err := json.Unmarshal(doc.Events, &nested); err == nil && nested.Streams != nil {
			return n.normalizeCategories(nested.Streams)
		}

		slog.Debug("Unrecognized events shape in feed document")
		return nil
	}

	var flat []streamJSON
	if err := json.Unmarshal(data, &flat); err == nil {
		streams := make([]match.RawStream, 0, len(flat))
		for _, s := range flat {
			streams = append(streams, n.normalizeStream(s))
		}
		return streams
	}

	slog.Debug("Unrecognized feed document shape")
	return nil
}

// normalizeEvents handles the array-of-events format. Elements carrying an
// event_title are mapped; anything else is treated as a legacy stream object
// and passed through the flat-object mapping.
func (n *Normalizer) normalizeEvents(events []json.RawMessage) []match.RawStream {
	streams := make([]match.RawStream, 0, len(events))

	for _, raw := range events {
		var e eventJSON
		if err := json.Unmarshal(raw, &e); err == nil && e.EventTitle != "" {
			streams = append(streams, n.normalizeEvent(e))
			continue
		}

		var s streamJSON
		if err := json.Unmarshal(raw, &s); err != nil {
			continue
		}
		streams = append(streams, n.normalizeStream(s))
	}

	return streams
}

func (n *Normalizer) normalizeEvent(e eventJSON) match.RawStream {
	title := e.EventTitle
	category := e.Sport

	// Some upstream entries encode the league in the title as
	// "League: Home vs Away".
	if category == "" {
		if before, after, found := cutOnce(title, ":"); found {
			category = before
			title = after
		}
	}

	return match.RawStream{
		Title:       title,
		PlayerURL:   e.PlayerURL,
		Category:    category,
		ChannelName: e.CanalName,
		Kickoff:     n.parseEventTime(e.EventTime),
		PosterURL:   e.Poster,
	}
}

func (n *Normalizer) normalizeCategories(categories []categoryJSON) []match.RawStream {
	var streams []match.RawStream

	for _, cat := range categories {
		name := coalesce(cat.Category, cat.CategoryName)
		for _, s := range cat.Streams {
			rs := n.normalizeStream(s)
			rs.Category = name
			streams = append(streams, rs)
		}
	}

	return streams
}

func (n *Normalizer) normalizeStream(s streamJSON) match.RawStream {
	var kickoff int64
	if ts, err := s.StartsAt.Int64(); err == nil && ts > 0 {
		kickoff = ts
	}

	return match.RawStream{
		Title:       coalesce(s.Name, s.Title),
		PlayerURL:   s.Iframe,
		Category:    s.Category,
		ChannelName: s.CanalName,
		Kickoff:     kickoff,
		PosterURL:   s.Poster,
	}
}

// parseEventTime resolves an HH:MM:SS wall-clock time against the current
// UTC day. The source resolved it against the local clock; this
// implementation uses UTC throughout so that kickoff parsing and window math
// agree. Returns 0 when the time does not parse.
func (n *Normalizer) parseEventTime(value string) int64 {
	if value == "" {
		return 0
	}

	t, err := time.Parse("15:04:05", value)
	if err != nil {
		return 0
	}

	today := n.now().UTC()
	return time.Date(today.Year(), today.Month(), today.Day(),
		t.Hour(), t.Minute(), t.Second(), 0, time.UTC).Unix()
}

// cutOnce splits s on the first occurrence of sep, trimming both halves.
func cutOnce(s, sep string) (string, string, bool) {
	before, after, found := strings.Cut(s, sep)
	if !found {
		return s, "", false
	}
	return strings.TrimSpace(before), strings.TrimSpace(after), true
}

// coalesce returns the first non-empty string from the provided values.
func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
