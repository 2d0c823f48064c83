package tasks

import (
	"context"

	"match-comb/app/lifecycle"
)

type RunnerInterface interface {
	Run(ctx context.Context) (*lifecycle.Report, error)
}

type SchedulerInterface interface {
	Start()
	Stop()
	TriggerRun() error
}
