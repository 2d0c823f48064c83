package lifecycle

import "time"

// Outcome is the terminal signal of one run. An external scheduler relies on
// these being distinguishable: nothing left to do, cap reached with eligible
// matches remaining, or the platform demanded backoff. Fatal configuration,
// auth and feed errors never produce a Report at all.
type Outcome string

const (
	OutcomeUpToDate      Outcome = "up_to_date"
	OutcomeMoreRemaining Outcome = "more_remaining"
	OutcomeRateLimited   Outcome = "rate_limited"
)

// Report summarizes a completed run.
type Report struct {
	StartedAt      time.Time
	Duration       time.Duration
	Upcoming       int // matches in the publish window this run
	Created        int
	Deleted        int
	Remaining      int // eligible matches left without a post
	CreateFailures int
	DeleteFailures int
	Outcome        Outcome
}

// ExitCode maps the outcome to the one-shot process exit code contract.
func (r Report) ExitCode() int {
	switch r.Outcome {
	case OutcomeMoreRemaining:
		return 3
	case OutcomeRateLimited:
		return 4
	default:
		return 0
	}
}
