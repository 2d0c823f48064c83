package lifecycle

import (
	"match-comb/app/blogger"
	"match-comb/app/match"
)

// ExistingIdentities reduces the published state to the set of identities
// that already have a post.
func ExistingIdentities(refs []blogger.PostRef) map[string]struct{} {
	existing := make(map[string]struct{}, len(refs))
	for _, ref := range refs {
		if ref.Identity != "" {
			existing[ref.Identity] = struct{}{}
		}
	}
	return existing
}

// PlanCreates selects the matches that should receive a post at instant now:
// in the publish window and not already published. Feed order is preserved;
// there is deliberately no secondary sort, upstream order is the priority
// policy under the per-run cap.
func PlanCreates(matches []match.Match, existing map[string]struct{}, now int64) []match.Match {
	var toCreate []match.Match

	for _, m := range matches {
		if !match.InPublishWindow(m.Kickoff, now) {
			continue
		}
		if _, ok := existing[m.Identity]; ok {
			continue
		}
		toCreate = append(toCreate, m)
	}

	return toCreate
}

// PlanDeletes selects posts whose effective kickoff places them past the
// finished offset. Iteration follows the platform's listing order; oldest
// first is not guaranteed, matching the order the posts were fetched in.
func PlanDeletes(refs []blogger.PostRef, now, offsetSeconds int64) []blogger.PostRef {
	var toDelete []blogger.PostRef

	for _, ref := range refs {
		if match.IsFinished(ref.Kickoff, now, offsetSeconds) {
			toDelete = append(toDelete, ref)
		}
	}

	return toDelete
}
