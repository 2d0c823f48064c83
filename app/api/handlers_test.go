package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"match-comb/app/database"
	"match-comb/app/metrics"
)

type fakeScheduler struct {
	triggerErr error
	triggered  int
}

func (s *fakeScheduler) Start()            {}
func (s *fakeScheduler) Stop()             {}
func (s *fakeScheduler) TriggerRun() error { s.triggered++; return s.triggerErr }

func testRepo(t *testing.T) *database.RunRepository {
	t.Helper()

	db, err := database.NewConnection(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewConnection() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, _, err := database.RunMigrations(db); err != nil {
		t.Fatalf("RunMigrations() error = %v", err)
	}

	return database.NewRunRepository(db)
}

func testServer(t *testing.T, repo *database.RunRepository, scheduler *fakeScheduler, apiAccessKey string) http.Handler {
	t.Helper()
	handler := NewHandler(repo, scheduler, metrics.New())
	return NewServer(handler, apiAccessKey)
}

func TestGetHealth(t *testing.T) {
	repo := testRepo(t)
	server := testServer(t, repo, &fakeScheduler{}, "")

	w := httptest.NewRecorder()
	server.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("GET /health status = %d, want 200", w.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if _, ok := body["timestamp"]; !ok {
		t.Error("health response missing timestamp")
	}
	if body["runs"] != float64(0) {
		t.Errorf("health runs = %v, want 0", body["runs"])
	}
}

func TestGetStats(t *testing.T) {
	repo := testRepo(t)

	base := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	for _, run := range []database.Run{
		{StartedAt: base, Created: 2, Deleted: 1, Outcome: "more_remaining"},
		{StartedAt: base.Add(5 * time.Minute), Created: 1, Outcome: "up_to_date"},
	} {
		if err := repo.RecordRun(run); err != nil {
			t.Fatalf("RecordRun() error = %v", err)
		}
	}

	server := testServer(t, repo, &fakeScheduler{}, "")

	w := httptest.NewRecorder()
	server.ServeHTTP(w, httptest.NewRequest("GET", "/stats", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("GET /stats status = %d, want 200", w.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if body["total_runs"] != float64(2) {
		t.Errorf("total_runs = %v, want 2", body["total_runs"])
	}
	if body["total_created"] != float64(3) {
		t.Errorf("total_created = %v, want 3", body["total_created"])
	}
	if body["last_outcome"] != "up_to_date" {
		t.Errorf("last_outcome = %v, want up_to_date", body["last_outcome"])
	}

	recent, ok := body["recent_runs"].([]interface{})
	if !ok || len(recent) != 2 {
		t.Fatalf("recent_runs = %v, want 2 entries", body["recent_runs"])
	}
	newest := recent[0].(map[string]interface{})
	if newest["outcome"] != "up_to_date" {
		t.Errorf("newest run outcome = %v, want up_to_date", newest["outcome"])
	}
}

func TestGetStatsInvalidLimit(t *testing.T) {
	server := testServer(t, testRepo(t), &fakeScheduler{}, "")

	w := httptest.NewRecorder()
	server.ServeHTTP(w, httptest.NewRequest("GET", "/stats?limit=banana", nil))

	if w.Code != http.StatusBadRequest {
		t.Errorf("GET /stats?limit=banana status = %d, want 400", w.Code)
	}
}

func TestTriggerRunRequiresAPIKey(t *testing.T) {
	scheduler := &fakeScheduler{}
	server := testServer(t, testRepo(t), scheduler, "secret")

	w := httptest.NewRecorder()
	server.ServeHTTP(w, httptest.NewRequest("POST", "/api/run", nil))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("POST /api/run without key status = %d, want 401", w.Code)
	}
	if scheduler.triggered != 0 {
		t.Errorf("scheduler triggered %d times without auth, want 0", scheduler.triggered)
	}
}

func TestTriggerRunWithAPIKey(t *testing.T) {
	scheduler := &fakeScheduler{}
	server := testServer(t, testRepo(t), scheduler, "secret")

	req := httptest.NewRequest("POST", "/api/run", nil)
	req.Header.Set("X-API-Key", "secret")
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)

	if w.Code != http.StatusAccepted {
		t.Errorf("POST /api/run status = %d, want 202", w.Code)
	}
	if scheduler.triggered != 1 {
		t.Errorf("scheduler triggered %d times, want 1", scheduler.triggered)
	}
}

func TestTriggerRunBearerToken(t *testing.T) {
	scheduler := &fakeScheduler{}
	server := testServer(t, testRepo(t), scheduler, "secret")

	req := httptest.NewRequest("POST", "/api/run", nil)
	req.Header.Set("Authorization", "Bearer secret")
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)

	if w.Code != http.StatusAccepted {
		t.Errorf("POST /api/run with bearer token status = %d, want 202", w.Code)
	}
}

func TestTriggerRunConflict(t *testing.T) {
	scheduler := &fakeScheduler{triggerErr: errors.New("a run is already pending")}
	server := testServer(t, testRepo(t), scheduler, "secret")

	req := httptest.NewRequest("POST", "/api/run", nil)
	req.Header.Set("X-API-Key", "secret")
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("POST /api/run while pending status = %d, want 409", w.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	server := testServer(t, testRepo(t), &fakeScheduler{}, "")

	w := httptest.NewRecorder()
	server.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("GET /metrics status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "matchcomb_posts_created_total") {
		t.Error("metrics response missing matchcomb_posts_created_total")
	}
}
