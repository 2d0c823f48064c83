package render

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"match-comb/app/blogger"
	"match-comb/app/match"
)

// postTemplate is the reduced match-page layout: league tag, title, kickoff
// line, optional poster (the platform picks the first image as thumbnail),
// one button per channel stream, and the player iframe or a placeholder when
// no stream URL is live yet.
const postTemplate = `<div class="match-page">
  <div class="match-header">
    {{if .League}}<span class="league-tag">{{.League}}</span>{{end}}
    <h1 class="match-title">{{.Title}}</h1>
    <div class="match-meta">
      <span class="match-time-label">Kickoff:</span>
      <span class="match-time-value">{{.Kickoff}}</span>
    </div>
  </div>
{{if .Poster}}  <div class="match-featured-image"><img src="{{.Poster}}" alt="{{.Title}}" loading="lazy" /></div>
{{end}}  <div class="server-section">
    <h2>Select Server</h2>
    <p class="server-note">If one server doesn't work, try another one or refresh the page.</p>
    <div class="server-list">
{{range .Streams}}      <button class="server-button" data-src="{{.URL}}">{{.Name}}</button>
{{end}}    </div>
  </div>
  <div class="player-wrapper">
{{if .PrimaryURL}}    <div class="player-frame">
      <iframe src="{{.PrimaryURL}}" width="100%" height="100%" frameborder="0" allowfullscreen="true" allow="autoplay; encrypted-media"></iframe>
    </div>
{{else}}    <div class="player-placeholder">
      <p>No stream available for this match yet.</p>
    </div>
{{end}}  </div>
  <p class="match-disclaimer">Streams are embedded from external sources. If a stream does not load, please refresh or try again closer to kick-off.</p>
</div>
`

type postData struct {
	League     string
	Title      string
	Kickoff    string
	Poster     string
	Streams    []match.Stream
	PrimaryURL string
}

// Renderer builds the HTML body and label set for a match post.
type Renderer struct {
	tmpl *template.Template
}

func NewRenderer() *Renderer {
	return &Renderer{
		tmpl: template.Must(template.New("post").Parse(postTemplate)),
	}
}

// PostContent renders the post body for a match.
func (r *Renderer) PostContent(m match.Match) (string, error) {
	data := postData{
		League:  m.Category,
		Title:   m.Title,
		Kickoff: formatKickoff(m.Kickoff),
		Poster:  m.PosterURL,
		Streams: m.Streams,
	}
	if len(m.Streams) > 0 {
		data.PrimaryURL = m.Streams[0].URL
	}

	var b strings.Builder
	if err := r.tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render post for %s: %w", m.Identity, err)
	}

	return b.String(), nil
}

// PostLabels builds the label set for a match post. The match:<identity>
// label is the dedupe key; kickoff:<epoch> enables finished detection and is
// only attached when the kickoff is known.
func (r *Renderer) PostLabels(m match.Match) []string {
	category := m.Category
	if category == "" {
		category = "sport"
	}

	labels := []string{
		blogger.IdentityPrefix + m.Identity,
		blogger.MatchLabel,
		category,
	}

	if m.Kickoff > 0 {
		labels = append(labels, fmt.Sprintf("%s%d", blogger.KickoffPrefix, m.Kickoff))
	}

	return labels
}

func formatKickoff(kickoff int64) string {
	if kickoff <= 0 {
		return "TBA"
	}
	return time.Unix(kickoff, 0).UTC().Format("Mon, 02 Jan 2006 15:04 MST")
}
