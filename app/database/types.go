package database

import "time"

// Run is one recorded lifecycle run.
type Run struct {
	ID             int64
	StartedAt      time.Time
	DurationMs     int64
	Upcoming       int
	Created        int
	Deleted        int
	Remaining      int
	CreateFailures int
	DeleteFailures int
	Outcome        string
}

// Stats aggregates the run history for the stats endpoint.
type Stats struct {
	TotalRuns    int
	TotalCreated int
	TotalDeleted int
	LastOutcome  string
	LastRunAt    *time.Time
}
