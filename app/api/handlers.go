package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"match-comb/app/database"
	"match-comb/app/metrics"
	"match-comb/app/tasks"
)

func NewHandler(runRepo *database.RunRepository, scheduler tasks.SchedulerInterface, m *metrics.Metrics) *Handler {
	return &Handler{
		runRepo:   runRepo,
		scheduler: scheduler,
		metrics:   m,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if stats, err := h.runRepo.GetStats(); err == nil {
		health["runs"] = stats.TotalRuns
		if stats.LastRunAt != nil {
			health["last_run_at"] = stats.LastRunAt.Format(time.RFC3339)
			health["last_outcome"] = stats.LastOutcome
		}
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.runRepo.GetStats()
	if err != nil {
		slog.Error("Database error", "operation", "get_stats", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 500 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
			return
		}
		limit = parsed
	}

	recent, err := h.runRepo.GetRecentRuns(limit)
	if err != nil {
		slog.Error("Database error", "operation", "get_recent_runs", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	runs := make([]map[string]interface{}, 0, len(recent))
	for _, run := range recent {
		runs = append(runs, map[string]interface{}{
			"started_at":      run.StartedAt.Format(time.RFC3339),
			"duration_ms":     run.DurationMs,
			"upcoming":        run.Upcoming,
			"created":         run.Created,
			"deleted":         run.Deleted,
			"remaining":       run.Remaining,
			"create_failures": run.CreateFailures,
			"delete_failures": run.DeleteFailures,
			"outcome":         run.Outcome,
		})
	}

	response := map[string]interface{}{
		"total_runs":    stats.TotalRuns,
		"total_created": stats.TotalCreated,
		"total_deleted": stats.TotalDeleted,
		"recent_runs":   runs,
	}
	if stats.LastRunAt != nil {
		response["last_run_at"] = stats.LastRunAt.Format(time.RFC3339)
		response["last_outcome"] = stats.LastOutcome
	}

	c.JSON(http.StatusOK, response)
}

func (h *Handler) APITriggerRun(c *gin.Context) {
	if h.scheduler == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Scheduler not running"})
		return
	}

	if err := h.scheduler.TriggerRun(); err != nil {
		c.JSON(http.StatusConflict, gin.H{
			"error":   "Failed to trigger run",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"message": "Run triggered",
	})
}

func (h *Handler) GetMetrics(c *gin.Context) {
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}
