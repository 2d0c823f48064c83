package match

import "time"

// publishWindowDays is the rolling window in which a match may receive a
// post: today and tomorrow, measured from UTC midnight.
const publishWindowDays = 2

// StartOfDayUTC returns the UTC midnight preceding the given instant,
// as unix seconds.
func StartOfDayUTC(now int64) int64 {
	t := time.Unix(now, 0).UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).Unix()
}

// InPublishWindow reports whether a match with the given kickoff should
// receive a post at instant now: the kickoff falls on today or tomorrow
// (UTC) and has not yet passed. Matches with an unknown kickoff are never
// eligible.
func InPublishWindow(kickoff, now int64) bool {
	if kickoff <= 0 {
		return false
	}

	start := StartOfDayUTC(now)
	end := start + publishWindowDays*24*3600

	return kickoff >= start && kickoff < end && kickoff >= now
}

// IsFinished reports whether a match that kicked off at the given time is
// past the finished offset at instant now. Unknown kickoffs are never
// finished by time.
func IsFinished(kickoff, now, offsetSeconds int64) bool {
	if kickoff <= 0 {
		return false
	}
	return now-kickoff >= offsetSeconds
}
