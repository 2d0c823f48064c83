package tasks

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"match-comb/app/database"
	"match-comb/app/lifecycle"
)

type fakeRunner struct {
	report *lifecycle.Report
	err    error
	calls  int
}

func (r *fakeRunner) Run(ctx context.Context) (*lifecycle.Report, error) {
	r.calls++
	return r.report, r.err
}

func testScheduler(t *testing.T, runner RunnerInterface) (*Scheduler, *database.RunRepository) {
	t.Helper()

	db, err := database.NewConnection(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewConnection() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, _, err := database.RunMigrations(db); err != nil {
		t.Fatalf("RunMigrations() error = %v", err)
	}

	repo := database.NewRunRepository(db)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	return &Scheduler{
		runner:   runner,
		runRepo:  repo,
		interval: time.Hour,
		trigger:  make(chan struct{}, 1),
		ctx:      ctx,
		cancel:   cancel,
	}, repo
}

func TestExecuteRunRecordsReport(t *testing.T) {
	runner := &fakeRunner{report: &lifecycle.Report{
		StartedAt: time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC),
		Duration:  2 * time.Second,
		Upcoming:  5,
		Created:   3,
		Deleted:   1,
		Remaining: 2,
		Outcome:   lifecycle.OutcomeMoreRemaining,
	}}
	s, repo := testScheduler(t, runner)

	s.executeRun()

	if runner.calls != 1 {
		t.Fatalf("runner called %d times, want 1", runner.calls)
	}

	runs, err := repo.GetRecentRuns(10)
	if err != nil {
		t.Fatalf("GetRecentRuns() error = %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("recorded %d runs, want 1", len(runs))
	}
	if runs[0].Outcome != "more_remaining" {
		t.Errorf("recorded outcome = %q, want %q", runs[0].Outcome, "more_remaining")
	}
	if runs[0].Created != 3 || runs[0].Deleted != 1 || runs[0].Remaining != 2 {
		t.Errorf("recorded counts = %+v, want created 3, deleted 1, remaining 2", runs[0])
	}
	if runs[0].DurationMs != 2000 {
		t.Errorf("recorded duration = %d ms, want 2000", runs[0].DurationMs)
	}
}

func TestExecuteRunSkipsRecordOnFatalError(t *testing.T) {
	runner := &fakeRunner{err: errors.New("authorization failed")}
	s, repo := testScheduler(t, runner)

	s.executeRun()

	runs, err := repo.GetRecentRuns(10)
	if err != nil {
		t.Fatalf("GetRecentRuns() error = %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("recorded %d runs after fatal error, want 0", len(runs))
	}
}

func TestTriggerRunCoalesces(t *testing.T) {
	s, _ := testScheduler(t, &fakeRunner{report: &lifecycle.Report{Outcome: lifecycle.OutcomeUpToDate}})

	if err := s.TriggerRun(); err != nil {
		t.Fatalf("first TriggerRun() error = %v", err)
	}
	if err := s.TriggerRun(); err == nil {
		t.Error("second TriggerRun() succeeded, want pending-run error")
	}
}

func TestTriggerRunAfterStop(t *testing.T) {
	s, _ := testScheduler(t, &fakeRunner{report: &lifecycle.Report{Outcome: lifecycle.OutcomeUpToDate}})
	s.cancel()

	if err := s.TriggerRun(); err == nil {
		t.Error("TriggerRun() after stop succeeded, want context error")
	}
}
