package lifecycle

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"match-comb/app/blogger"
	"match-comb/app/feed"
	"match-comb/app/match"
	"match-comb/app/render"
)

// Publisher is the post-platform collaborator the runner drives. Satisfied
// by blogger.Client.
type Publisher interface {
	Authorize(ctx context.Context) error
	ListMatchPosts(ctx context.Context) []blogger.PostRef
	CreatePost(ctx context.Context, title, content string, labels []string) (string, error)
	DeletePost(ctx context.Context, postID string) error
}

// Runner executes one full lifecycle run: authorize, ingest the feed, read
// the published state, create posts for new in-window matches, then reclaim
// finished posts. Execution is strictly sequential with a politeness delay
// after every mutating call; the platform's rate limit forbids fan-out.
type Runner struct {
	feeds          *feed.Service
	publisher      Publisher
	renderer       *render.Renderer
	maxCreates     int
	maxDeletes     int
	createDelay    time.Duration
	deleteDelay    time.Duration
	finishedOffset int64
	now            func() time.Time
}

func NewRunner(feeds *feed.Service, publisher Publisher, maxCreates, maxDeletes int,
	createDelay, deleteDelay time.Duration, finishedOffsetSeconds int64) *Runner {
	return &Runner{
		feeds:          feeds,
		publisher:      publisher,
		renderer:       render.NewRenderer(),
		maxCreates:     maxCreates,
		maxDeletes:     maxDeletes,
		createDelay:    createDelay,
		deleteDelay:    deleteDelay,
		finishedOffset: finishedOffsetSeconds,
		now:            time.Now,
	}
}

// Run executes one run. A returned error is fatal (auth or feed); every
// other condition completes with a Report carrying the terminal signal.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	report := &Report{StartedAt: r.now().UTC()}

	if err := r.publisher.Authorize(ctx); err != nil {
		return nil, fmt.Errorf("authorization failed: %w", err)
	}

	matches, err := r.feeds.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("feed ingestion failed: %w", err)
	}

	refs := r.publisher.ListMatchPosts(ctx)
	existing := ExistingIdentities(refs)
	slog.Info("Published state loaded", "posts", len(refs), "identities", len(existing))

	now := r.now().UTC().Unix()
	toCreate := PlanCreates(matches, existing, now)
	report.Upcoming = len(toCreate)
	slog.Info("Run planned", "matches", len(matches), "upcoming", len(toCreate))

	rateLimited := r.createPosts(ctx, toCreate, report)

	// Deletion is an independent phase: it still runs after a rate-limited
	// create loop, only a fatal error above skips it.
	r.deleteFinished(ctx, PlanDeletes(refs, now, r.finishedOffset), report)

	report.Remaining = len(toCreate) - report.Created
	switch {
	case rateLimited:
		report.Outcome = OutcomeRateLimited
	case report.Remaining > 0:
		report.Outcome = OutcomeMoreRemaining
	default:
		report.Outcome = OutcomeUpToDate
	}

	report.Duration = time.Since(report.StartedAt)
	slog.Info("Run completed",
		"outcome", string(report.Outcome),
		"duration", report.Duration,
		"upcoming", report.Upcoming,
		"created", report.Created,
		"deleted", report.Deleted,
		"remaining", report.Remaining,
		"create_failures", report.CreateFailures,
		"delete_failures", report.DeleteFailures)

	return report, nil
}

// createPosts emits create intents in feed order up to the per-run cap.
// Returns true when the platform rate-limited the run: that halts further
// creates entirely instead of skipping to the next match.
func (r *Runner) createPosts(ctx context.Context, toCreate []match.Match, report *Report) bool {
	for _, m := range toCreate {
		if report.Created >= r.maxCreates {
			slog.Info("Create cap reached", "cap", r.maxCreates)
			break
		}

		content, err := r.renderer.PostContent(m)
		if err != nil {
			slog.Error("Failed to render post, skipping", "identity", m.Identity, "error", err)
			report.CreateFailures++
			continue
		}

		postID, err := r.publisher.CreatePost(ctx, m.Title, content, r.renderer.PostLabels(m))
		if err != nil {
			if blogger.IsRateLimited(err) {
				slog.Error("Rate limited, halting create loop for this run", "identity", m.Identity)
				return true
			}
			slog.Error("Failed to create post, skipping", "identity", m.Identity, "error", err)
			report.CreateFailures++
			continue
		}

		report.Created++
		slog.Info("Created post", "identity", m.Identity, "post_id", postID, "title", m.Title)

		if err := pause(ctx, r.createDelay); err != nil {
			return false
		}
	}

	return false
}

func (r *Runner) deleteFinished(ctx context.Context, toDelete []blogger.PostRef, report *Report) {
	for _, ref := range toDelete {
		if report.Deleted >= r.maxDeletes {
			slog.Info("Delete cap reached", "cap", r.maxDeletes)
			return
		}

		if err := r.publisher.DeletePost(ctx, ref.PostID); err != nil {
			slog.Error("Failed to delete post, skipping", "post_id", ref.PostID, "error", err)
			report.DeleteFailures++
			continue
		}

		report.Deleted++
		slog.Info("Deleted finished post", "post_id", ref.PostID, "identity", ref.Identity, "kickoff", ref.Kickoff)

		if err := pause(ctx, r.deleteDelay); err != nil {
			return
		}
	}
}

// pause waits out the inter-call delay, respecting cancellation.
func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
