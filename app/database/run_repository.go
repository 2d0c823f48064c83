package database

import (
	"database/sql"
	"fmt"
)

// RunRepository handles database operations for run history
type RunRepository struct {
	db *DB
}

// NewRunRepository creates a new run repository
func NewRunRepository(db *DB) *RunRepository {
	return &RunRepository{db: db}
}

// RecordRun persists a finished run
func (r *RunRepository) RecordRun(run Run) error {
	_, err := r.db.Exec(`
		INSERT INTO runs (started_at, duration_ms, upcoming, created, deleted, remaining, create_failures, delete_failures, outcome)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.StartedAt.UTC(), run.DurationMs, run.Upcoming, run.Created, run.Deleted,
		run.Remaining, run.CreateFailures, run.DeleteFailures, run.Outcome)

	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}

	return nil
}

// GetRecentRuns returns the most recent runs, newest first
func (r *RunRepository) GetRecentRuns(limit int) ([]Run, error) {
	rows, err := r.db.Query(`
		SELECT id, started_at, duration_ms, upcoming, created, deleted, remaining, create_failures, delete_failures, outcome
		FROM runs
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		err := rows.Scan(
			&run.ID, &run.StartedAt, &run.DurationMs, &run.Upcoming, &run.Created,
			&run.Deleted, &run.Remaining, &run.CreateFailures, &run.DeleteFailures, &run.Outcome,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating run rows: %w", err)
	}

	return runs, nil
}

// GetStats returns aggregate counters over the full run history
func (r *RunRepository) GetStats() (*Stats, error) {
	var stats Stats
	err := r.db.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(created), 0), COALESCE(SUM(deleted), 0)
		FROM runs
	`).Scan(&stats.TotalRuns, &stats.TotalCreated, &stats.TotalDeleted)
	if err != nil {
		return nil, fmt.Errorf("failed to get run stats: %w", err)
	}

	var last Run
	err = r.db.QueryRow(`
		SELECT started_at, outcome
		FROM runs
		ORDER BY started_at DESC
		LIMIT 1
	`).Scan(&last.StartedAt, &last.Outcome)

	if err == sql.ErrNoRows {
		return &stats, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get last run: %w", err)
	}

	stats.LastOutcome = last.Outcome
	stats.LastRunAt = &last.StartedAt

	return &stats, nil
}
