// Package application contains use-case orchestration services.
package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lightningnetwork/lnd/fn/v2"

	"github.com/ericfisherdev/prtrack/internal/domain/model"
	"github.com/ericfisherdev/prtrack/internal/domain/port/driven"
)

// SyncService reconciles the local comment cache against GitHub. One call to
// Sync is one full, sequential cycle; there is no background polling.
type SyncService struct {
	ghClient     driven.GitHubClient
	store        driven.CommentStore
	repoFullName string
	now          func() time.Time
}

// NewSyncService creates a new SyncService with all required dependencies.
func NewSyncService(ghClient driven.GitHubClient, store driven.CommentStore, repoFullName string) *SyncService {
	return &SyncService{
		ghClient:     ghClient,
		store:        store,
		repoFullName: repoFullName,
		now:          time.Now,
	}
}

// WithClock overrides the clock used for first_seen. Intended for tests.
func (s *SyncService) WithClock(now func() time.Time) *SyncService {
	s.now = now
	return s
}

// Sync fetches comments, replies and thread metadata for the PR and merges
// them into the store. A fetch failure aborts the cycle before any write.
// Store writes are per row; a failure mid-merge leaves earlier rows applied,
// and re-running Sync converges.
func (s *SyncService) Sync(ctx context.Context, prNumber int) (*model.SyncSummary, error) {
	start := time.Now()

	fetched, err := s.ghClient.FetchComments(ctx, s.repoFullName, prNumber)
	if err != nil {
		return nil, fmt.Errorf("fetch comments: %w", err)
	}

	threads, err := s.ghClient.FetchThreadMetadata(ctx, s.repoFullName, prNumber)
	if err != nil {
		return nil, fmt.Errorf("fetch thread metadata: %w", err)
	}

	summary := &model.SyncSummary{PRNumber: prNumber}
	now := s.now()
	known := make(map[int64]bool, len(fetched.Comments))

	for _, c := range fetched.Comments {
		known[c.ID] = true
		c.Priority, c.Severity = model.ParseMarkers(c.Body)
		thread := threadFor(threads, c.ID).UnwrapOr(model.UnknownThread)

		s.logClassificationDrift(ctx, c)

		isNew, err := s.store.Upsert(ctx, c, thread, now)
		if err != nil {
			return nil, err
		}
		if isNew {
			summary.New++
		} else {
			summary.Updated++
		}
	}

	for _, reply := range fetched.Replies {
		ok, err := s.parentStored(ctx, known, reply.InReplyToID)
		if err != nil {
			return nil, err
		}
		if !ok {
			// The replies table references comments, so a reply whose parent
			// was never stored cannot be kept.
			slog.Warn("skipping reply with unknown parent",
				"reply", reply.ID,
				"in_reply_to", reply.InReplyToID,
			)
			continue
		}
		if err := s.store.UpsertReply(ctx, reply); err != nil {
			return nil, err
		}
		summary.Replies++
	}

	summary.AutoUnsnoozed, err = s.AutoUnsnooze(ctx)
	if err != nil {
		return nil, err
	}

	summary.ThreadsResolved, summary.ThreadsOutdated = countThreads(threads)

	if err := s.fillCriticalPreview(ctx, summary); err != nil {
		return nil, err
	}

	slog.Info("sync complete",
		"repo", s.repoFullName,
		"pr", prNumber,
		"new", summary.New,
		"updated", summary.Updated,
		"replies", summary.Replies,
		"auto_unsnoozed", summary.AutoUnsnoozed,
		"duration", time.Since(start).Round(time.Millisecond),
	)

	return summary, nil
}

// AutoUnsnooze wakes every snoozed comment whose reply count has grown past
// the snapshot taken at snooze time. Counts are compared instead of
// timestamps, so the pass is idempotent and immune to clock skew.
func (s *SyncService) AutoUnsnooze(ctx context.Context) (int, error) {
	snoozed, err := s.store.ListSnoozed(ctx)
	if err != nil {
		return 0, err
	}

	var woken int
	for _, c := range snoozed {
		count, err := s.store.ReplyCount(ctx, c.ID)
		if err != nil {
			return woken, err
		}
		if count <= c.SnoozedReplyCount {
			continue
		}

		if err := s.store.SetSnooze(ctx, c.ID, false, 0); err != nil {
			return woken, err
		}
		woken++

		slog.Info("auto-unsnoozed comment",
			"comment", c.ID,
			"replies_at_snooze", c.SnoozedReplyCount,
			"replies_now", count,
		)
	}

	return woken, nil
}

// fillCriticalPreview lists up to CriticalPreviewLimit pending critical comments.
func (s *SyncService) fillCriticalPreview(ctx context.Context, summary *model.SyncSummary) error {
	critical, err := s.store.List(ctx, model.CommentFilter{Severity: model.SeverityCritical})
	if err != nil {
		return err
	}

	if len(critical) > model.CriticalPreviewLimit {
		summary.CriticalMore = len(critical) - model.CriticalPreviewLimit
		critical = critical[:model.CriticalPreviewLimit]
	}
	summary.CriticalPreview = critical

	return nil
}

// parentStored reports whether a reply's parent exists locally, either from
// this cycle's listing or from an earlier sync.
func (s *SyncService) parentStored(ctx context.Context, known map[int64]bool, parentID int64) (bool, error) {
	if known[parentID] {
		return true, nil
	}

	parent, err := s.store.GetByID(ctx, parentID)
	if err != nil {
		return false, err
	}
	if parent == nil {
		return false, nil
	}

	known[parentID] = true
	return true, nil
}

// logClassificationDrift notes when a re-fetched body classifies differently
// from the stored row.
func (s *SyncService) logClassificationDrift(ctx context.Context, c model.Comment) {
	stored, err := s.store.GetByID(ctx, c.ID)
	if err != nil || stored == nil {
		return
	}
	if stored.Priority != c.Priority || stored.Severity != c.Severity {
		slog.Debug("comment classification changed",
			"comment", c.ID,
			"priority_was", stored.Priority,
			"priority_now", c.Priority,
			"severity_was", stored.Severity,
			"severity_now", c.Severity,
		)
	}
}

// threadFor looks up the thread metadata for a comment id.
func threadFor(threads map[int64]model.ThreadInfo, id int64) fn.Option[model.ThreadInfo] {
	info, ok := threads[id]
	if !ok {
		return fn.None[model.ThreadInfo]()
	}
	return fn.Some(info)
}

// countThreads counts distinct resolved and outdated threads.
func countThreads(threads map[int64]model.ThreadInfo) (resolved, outdated int) {
	seenResolved := make(map[string]bool)
	seenOutdated := make(map[string]bool)

	for _, info := range threads {
		if info.ThreadID == "" {
			continue
		}
		if info.IsResolved && !seenResolved[info.ThreadID] {
			seenResolved[info.ThreadID] = true
			resolved++
		}
		if info.IsOutdated && !seenOutdated[info.ThreadID] {
			seenOutdated[info.ThreadID] = true
			outdated++
		}
	}

	return resolved, outdated
}
