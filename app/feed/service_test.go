package feed

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"match-comb/app/sources"
)

func serveJSON(t *testing.T, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, body)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestService_Load_EventFeed(t *testing.T) {
	server := serveJSON(t, `{"events":[
		{"event_title":"Arsenal vs Chelsea","sport":"Football","event_time":"15:00:00","player_url":"https://x/a"}
	]}`)

	s := NewService([]sources.Source{{Name: "events", URL: server.URL}}, server.Client(), "test-agent")

	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	s.normalizer.now = func() time.Time { return now }

	matches, err := s.Load(t.Context())
	if err != nil {
		t.Fatalf("Expected load to succeed, got: %v", err)
	}

	if len(matches) != 1 {
		t.Fatalf("Expected 1 match, got %d", len(matches))
	}

	m := matches[0]
	if m.Identity != "arsenal-vs-chelsea-20260314" {
		t.Errorf("Expected identity 'arsenal-vs-chelsea-20260314', got '%s'", m.Identity)
	}
	if m.Title != "Arsenal vs Chelsea" {
		t.Errorf("Expected title 'Arsenal vs Chelsea', got '%s'", m.Title)
	}
	if len(m.Streams) != 1 || m.Streams[0].URL != "https://x/a" {
		t.Errorf("Expected a single stream with the player URL, got %v", m.Streams)
	}

	wantKickoff := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC).Unix()
	if m.Kickoff != wantKickoff {
		t.Errorf("Expected kickoff %d, got %d", wantKickoff, m.Kickoff)
	}
}

func TestService_Load_MergesSources(t *testing.T) {
	a := serveJSON(t, `[{"name":"A vs B","iframe":"https://x/a"}]`)
	b := serveJSON(t, `[{"name":"C vs D","iframe":"https://x/b"}]`)

	s := NewService([]sources.Source{
		{Name: "one", URL: a.URL},
		{Name: "two", URL: b.URL},
	}, http.DefaultClient, "test-agent")

	matches, err := s.Load(t.Context())
	if err != nil {
		t.Fatalf("Expected load to succeed, got: %v", err)
	}

	if len(matches) != 2 {
		t.Errorf("Expected matches from both sources, got %d", len(matches))
	}
}

func TestService_Load_SkipsFailingSource(t *testing.T) {
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(down.Close)
	up := serveJSON(t, `[{"name":"A vs B","iframe":"https://x/a"}]`)

	s := NewService([]sources.Source{
		{Name: "down", URL: down.URL},
		{Name: "up", URL: up.URL},
	}, http.DefaultClient, "test-agent")

	matches, err := s.Load(t.Context())
	if err != nil {
		t.Fatalf("One live source should be enough, got: %v", err)
	}
	if len(matches) != 1 {
		t.Errorf("Expected 1 match from the live source, got %d", len(matches))
	}
}

func TestService_Load_AllSourcesFailing(t *testing.T) {
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(down.Close)

	s := NewService([]sources.Source{{Name: "down", URL: down.URL}}, http.DefaultClient, "test-agent")

	if _, err := s.Load(t.Context()); err == nil {
		t.Error("Expected error when every source fails")
	}
}

func TestService_Load_IdentityCollision(t *testing.T) {
	// Two distinct same-day titles can collapse to the same identity after
	// slug truncation; the later one wins but keeps the earlier slot.
	server := serveJSON(t, `[
		{"name":"Championship Playoff Final Second Leg A","iframe":"https://x/a","starts_at":1773500400},
		{"name":"Middle","iframe":"https://x/m","starts_at":1773500400},
		{"name":"Championship Playoff Final Second Leg B","iframe":"https://x/b","starts_at":1773500400}
	]`)

	s := NewService([]sources.Source{{Name: "events", URL: server.URL}}, server.Client(), "test-agent")

	matches, err := s.Load(t.Context())
	if err != nil {
		t.Fatalf("Expected load to succeed, got: %v", err)
	}

	if len(matches) != 2 {
		t.Fatalf("Expected collision to collapse to 2 matches, got %d", len(matches))
	}
	if matches[0].Title != "Championship Playoff Final Second Leg B" {
		t.Errorf("Later match should win the slot, got '%s'", matches[0].Title)
	}
	if matches[1].Title != "Middle" {
		t.Errorf("Expected stable order for other matches, got '%s'", matches[1].Title)
	}
}
