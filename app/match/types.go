package match

// RawStream is one upstream feed entry after normalization. It is transient:
// streams are grouped into Match values and then discarded.
type RawStream struct {
	Title       string
	PlayerURL   string
	Category    string
	ChannelName string
	Kickoff     int64 // unix seconds, 0 when unknown
	PosterURL   string
}

// Stream is a single watchable channel attached to a match.
type Stream struct {
	Name string
	URL  string
}

// Match is the canonical, deduplicated unit of publication. Two Match values
// with equal Identity refer to the same real-world event.
type Match struct {
	Identity  string
	Title     string
	Category  string
	Kickoff   int64 // unix seconds, 0 when unknown
	Streams   []Stream
	PosterURL string
}
