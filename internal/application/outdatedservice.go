package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lightningnetwork/lnd/fn/v2"

	"github.com/ericfisherdev/prtrack/internal/domain/model"
	"github.com/ericfisherdev/prtrack/internal/domain/port/driven"
)

// recentCommitLimit is how many commits Verify lists for a file.
const recentCommitLimit = 5

// Resolver resolves a single comment's thread. CommentService satisfies it.
type Resolver interface {
	Resolve(ctx context.Context, id int64, commit string) (model.ResolveOutcome, error)
}

// OutdatedService classifies outdated, unresolved comments against the local
// working tree and drives bulk resolution.
type OutdatedService struct {
	store    driven.CommentStore
	tree     driven.WorkTree
	resolver Resolver
}

// NewOutdatedService creates a new OutdatedService.
func NewOutdatedService(store driven.CommentStore, tree driven.WorkTree, resolver Resolver) *OutdatedService {
	return &OutdatedService{
		store:    store,
		tree:     tree,
		resolver: resolver,
	}
}

// Groups partitions outdated-pending comments by path and flags paths that
// no longer exist in the working tree.
func (s *OutdatedService) Groups(ctx context.Context) ([]model.OutdatedGroup, error) {
	comments, err := s.store.ListOutdatedPending(ctx)
	if err != nil {
		return nil, err
	}

	groups := model.GroupByPath(comments)
	for i := range groups {
		groups[i].Deleted = !s.tree.Stat(groups[i].Path).Exists
	}

	return groups, nil
}

// ForFile returns the outdated-pending comments targeting path.
func (s *OutdatedService) ForFile(ctx context.Context, path string) ([]model.Comment, error) {
	comments, err := s.store.ListOutdatedPending(ctx)
	if err != nil {
		return nil, err
	}

	var matched []model.Comment
	for _, c := range comments {
		if c.Path == path {
			matched = append(matched, c)
		}
	}
	return matched, nil
}

// ForDeletedFiles returns the outdated-pending comments whose target path
// no longer exists.
func (s *OutdatedService) ForDeletedFiles(ctx context.Context) ([]model.Comment, error) {
	groups, err := s.Groups(ctx)
	if err != nil {
		return nil, err
	}

	var matched []model.Comment
	for _, g := range groups {
		if g.Deleted {
			matched = append(matched, g.Comments...)
		}
	}
	return matched, nil
}

// Verify applies the modification heuristic to one comment: the file counts
// as likely addressed when it was modified strictly after the comment was
// first seen. The most recent commit touching the file is suggested as the
// resolving commit; nothing is applied.
func (s *OutdatedService) Verify(ctx context.Context, id int64) (*model.Verification, error) {
	c, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("comment %d: %w", id, ErrCommentNotFound)
	}

	v := &model.Verification{
		Comment:         *c,
		File:            s.tree.Stat(c.Path),
		SuggestedCommit: fn.None[string](),
	}

	if !v.File.Exists {
		return v, nil
	}

	if v.File.ModTime.After(c.FirstSeen) {
		v.LikelyAddressed = true
		v.Gap = v.File.ModTime.Sub(c.FirstSeen)
	}

	commits, err := s.tree.RecentCommits(ctx, c.Path, recentCommitLimit)
	if err != nil {
		slog.Warn("could not read commit history", "path", c.Path, "error", err)
		return v, nil
	}

	v.RecentCommits = commits
	if len(commits) > 0 {
		if sha, _, _ := strings.Cut(commits[0], " "); sha != "" {
			v.SuggestedCommit = fn.Some(sha)
		}
	}

	return v, nil
}

// ResolveFile resolves every outdated-pending comment on path with commit.
func (s *OutdatedService) ResolveFile(ctx context.Context, path, commit string) (*model.BatchResult, error) {
	comments, err := s.ForFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return s.resolveAll(ctx, comments, commit)
}

// ResolveDeleted resolves every outdated-pending comment on a deleted path.
func (s *OutdatedService) ResolveDeleted(ctx context.Context, commit string) (*model.BatchResult, error) {
	comments, err := s.ForDeletedFiles(ctx)
	if err != nil {
		return nil, err
	}
	return s.resolveAll(ctx, comments, commit)
}

// resolveAll resolves sequentially and stops on the first failure. Stale
// outcomes are recorded and skipped since their local invalidation already
// happened.
func (s *OutdatedService) resolveAll(ctx context.Context, comments []model.Comment, commit string) (*model.BatchResult, error) {
	result := &model.BatchResult{}

	for _, c := range comments {
		outcome, err := s.resolver.Resolve(ctx, c.ID, commit)
		if err != nil {
			return result, &BatchResolveError{
				Completed: result.Resolved,
				FailedID:  c.ID,
				Err:       err,
			}
		}

		switch outcome {
		case model.OutcomeStale:
			result.Stale = append(result.Stale, c.ID)
		default:
			result.Resolved = append(result.Resolved, c.ID)
		}
	}

	return result, nil
}
