package api

import (
	"match-comb/app/database"
	"match-comb/app/metrics"
	"match-comb/app/tasks"
)

type Handler struct {
	runRepo   *database.RunRepository
	scheduler tasks.SchedulerInterface
	metrics   *metrics.Metrics
}
