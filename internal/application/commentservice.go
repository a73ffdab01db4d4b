package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ericfisherdev/prtrack/internal/domain/model"
	"github.com/ericfisherdev/prtrack/internal/domain/port/driven"
)

// CommentDetail is a comment together with its mirrored replies.
type CommentDetail struct {
	Comment model.Comment
	Replies []model.Reply // Ordered by CreatedAt.
}

// CommentService handles local annotations and the provider-side actions
// (resolve, unresolve, reply) for individual comments.
type CommentService struct {
	store        driven.CommentStore
	writer       driven.GitHubWriter
	repoFullName string
	now          func() time.Time
}

// NewCommentService creates a new CommentService. writer may be nil for
// commands that never touch the network.
func NewCommentService(store driven.CommentStore, writer driven.GitHubWriter, repoFullName string) *CommentService {
	return &CommentService{
		store:        store,
		writer:       writer,
		repoFullName: repoFullName,
		now:          time.Now,
	}
}

// WithClock overrides the clock used for note timestamps. Intended for tests.
func (s *CommentService) WithClock(now func() time.Time) *CommentService {
	s.now = now
	return s
}

// Get returns the comment and its replies.
func (s *CommentService) Get(ctx context.Context, id int64) (*CommentDetail, error) {
	c, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}

	replies, err := s.store.RepliesFor(ctx, id)
	if err != nil {
		return nil, err
	}

	return &CommentDetail{Comment: *c, Replies: replies}, nil
}

// List returns comments matching the filter.
func (s *CommentService) List(ctx context.Context, filter model.CommentFilter) ([]model.Comment, error) {
	return s.store.List(ctx, filter)
}

// Search matches text case-insensitively against body and path.
func (s *CommentService) Search(ctx context.Context, text string) ([]model.Comment, error) {
	return s.store.Search(ctx, text)
}

// Stats aggregates counts across the whole cache.
func (s *CommentService) Stats(ctx context.Context) (model.CommentStats, error) {
	return s.store.Stats(ctx)
}

// AddNote appends a timestamped entry to the comment's local notes.
func (s *CommentService) AddNote(ctx context.Context, id int64, note string) error {
	return s.store.AppendNote(ctx, id, note, s.now())
}

// Snooze hides the comment from pending views until its reply count grows
// past the current value, which is returned.
func (s *CommentService) Snooze(ctx context.Context, id int64) (int, error) {
	if _, err := s.lookup(ctx, id); err != nil {
		return 0, err
	}

	count, err := s.store.ReplyCount(ctx, id)
	if err != nil {
		return 0, err
	}

	if err := s.store.SetSnooze(ctx, id, true, count); err != nil {
		return 0, err
	}

	return count, nil
}

// Unsnooze returns the comment to pending views immediately.
func (s *CommentService) Unsnooze(ctx context.Context, id int64) error {
	return s.store.SetSnooze(ctx, id, false, 0)
}

// Resolve marks the comment's thread resolved on GitHub and mirrors the
// result locally. A non-empty commit is recorded as resolved_commit.
//
// A stale thread reference is cleared locally and reported as OutcomeStale
// with a nil error. Any other provider error yields OutcomeFailed and leaves
// the thread reference untouched.
func (s *CommentService) Resolve(ctx context.Context, id int64, commit string) (model.ResolveOutcome, error) {
	c, err := s.threadedComment(ctx, id)
	if err != nil {
		return model.OutcomeFailed, err
	}

	resolved, err := s.writer.ResolveThread(ctx, c.ThreadID)
	if err != nil {
		return s.mutationFailure(ctx, c, err)
	}

	if err := s.store.SetGitHubResolved(ctx, id, resolved); err != nil {
		return model.OutcomeFailed, err
	}
	if commit != "" {
		if err := s.store.SetResolvedCommit(ctx, id, commit); err != nil {
			return model.OutcomeFailed, err
		}
	}

	slog.Info("resolved thread", "comment", id, "thread", c.ThreadID, "commit", commit)
	return model.OutcomeResolved, nil
}

// Unresolve reopens the comment's thread on GitHub. Stale handling matches Resolve.
func (s *CommentService) Unresolve(ctx context.Context, id int64) (model.ResolveOutcome, error) {
	c, err := s.threadedComment(ctx, id)
	if err != nil {
		return model.OutcomeFailed, err
	}

	resolved, err := s.writer.UnresolveThread(ctx, c.ThreadID)
	if err != nil {
		return s.mutationFailure(ctx, c, err)
	}

	if err := s.store.SetGitHubResolved(ctx, id, resolved); err != nil {
		return model.OutcomeFailed, err
	}

	slog.Info("unresolved thread", "comment", id, "thread", c.ThreadID)
	return model.OutcomeUnresolved, nil
}

// Reply posts a reply under the comment. The new reply is only visible
// locally after the next sync.
func (s *CommentService) Reply(ctx context.Context, prNumber int, id int64, body string) error {
	if _, err := s.lookup(ctx, id); err != nil {
		return err
	}

	if err := s.writer.ReplyToComment(ctx, s.repoFullName, prNumber, id, body); err != nil {
		return fmt.Errorf("reply to comment %d: %w", id, err)
	}

	return nil
}

// mutationFailure classifies a thread mutation error as stale or failed.
func (s *CommentService) mutationFailure(ctx context.Context, c *model.Comment, err error) (model.ResolveOutcome, error) {
	if !errors.Is(err, driven.ErrThreadNotFound) {
		return model.OutcomeFailed, fmt.Errorf("comment %d: %w", c.ID, err)
	}

	if clearErr := s.store.ClearThreadID(ctx, c.ID); clearErr != nil {
		return model.OutcomeFailed, clearErr
	}

	slog.Warn("thread no longer exists on GitHub, cleared local thread id",
		"comment", c.ID,
		"thread", c.ThreadID,
	)
	return model.OutcomeStale, nil
}

func (s *CommentService) threadedComment(ctx context.Context, id int64) (*model.Comment, error) {
	c, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	if !c.HasThread() {
		return nil, fmt.Errorf("comment %d: %w", id, ErrMissingThreadID)
	}
	return c, nil
}

func (s *CommentService) lookup(ctx context.Context, id int64) (*model.Comment, error) {
	c, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("comment %d: %w", id, ErrCommentNotFound)
	}
	return c, nil
}
