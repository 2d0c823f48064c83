package feed

import "encoding/json"

// document is the sniffing envelope for the upstream JSON. Events stays raw
// because its shape varies between feed format generations.
type document struct {
	Events json.RawMessage `json:"events"`
}

// eventJSON is one element of the array-of-events format.
type eventJSON struct {
	EventTitle string `json:"event_title"`
	PlayerURL  string `json:"player_url"`
	Sport      string `json:"sport"`
	CanalName  string `json:"canal_name"`
	EventTime  string `json:"event_time"` // HH:MM:SS on the current day
	Poster     string `json:"poster"`
}

// streamJSON is a stream-like object as found in the flat-array and
// nested-category formats, and in legacy passthrough elements.
type streamJSON struct {
	Name      string      `json:"name"`
	Title     string      `json:"title"`
	Iframe    string      `json:"iframe"`
	CanalName string      `json:"canal_name"`
	Category  string      `json:"_category"`
	StartsAt  json.Number `json:"starts_at"`
	Poster    string      `json:"poster"`
}

// categoryJSON is one category block of the nested-category format.
type categoryJSON struct {
	Category     string       `json:"category"`
	CategoryName string       `json:"category_name"`
	Streams      []streamJSON `json:"streams"`
}
