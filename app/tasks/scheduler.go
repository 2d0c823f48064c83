package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"match-comb/app/cfg"
	"match-comb/app/database"
	"match-comb/app/lifecycle"
	"match-comb/app/metrics"
)

var _ SchedulerInterface = (*Scheduler)(nil)

// Scheduler drives the lifecycle runner on a fixed interval. Runs are strictly
// sequential: the create/delete pacing delays are the rate-limit protection,
// so concurrent runs would defeat them.
type Scheduler struct {
	runner   RunnerInterface
	runRepo  *database.RunRepository
	metrics  *metrics.Metrics
	interval time.Duration
	trigger  chan struct{}
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

func NewScheduler(runner RunnerInterface, runRepo *database.RunRepository, m *metrics.Metrics) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := cfg.Get()

	return &Scheduler{
		runner:   runner,
		runRepo:  runRepo,
		metrics:  m,
		interval: time.Duration(cfg.SchedulerInterval) * time.Second,
		trigger:  make(chan struct{}, 1),
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (s *Scheduler) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.executeRun()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.executeRun()
			case <-s.trigger:
				s.executeRun()
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}

// TriggerRun requests an immediate run. The pending trigger is coalesced: if a
// manual run is already queued behind the one in flight, another request is
// rejected rather than stacked.
func (s *Scheduler) TriggerRun() error {
	select {
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
	}

	select {
	case s.trigger <- struct{}{}:
		return nil
	default:
		return fmt.Errorf("a run is already pending")
	}
}

func (s *Scheduler) executeRun() {
	runCtx, cancel := context.WithTimeout(s.ctx, 5*time.Minute)
	defer cancel()

	report, err := s.runner.Run(runCtx)
	if err != nil {
		slog.Error("Run failed", "error", err)
		return
	}

	if s.metrics != nil {
		s.metrics.ObserveRun(report)
	}

	if s.runRepo != nil {
		run := database.Run{
			StartedAt:      report.StartedAt,
			DurationMs:     report.Duration.Milliseconds(),
			Upcoming:       report.Upcoming,
			Created:        report.Created,
			Deleted:        report.Deleted,
			Remaining:      report.Remaining,
			CreateFailures: report.CreateFailures,
			DeleteFailures: report.DeleteFailures,
			Outcome:        string(report.Outcome),
		}
		if err := s.runRepo.RecordRun(run); err != nil {
			slog.Warn("Failed to record run", "error", err)
		}
	}

	if report.Outcome == lifecycle.OutcomeRateLimited {
		slog.Warn("Run halted by rate limit, waiting for next interval")
	}
}
