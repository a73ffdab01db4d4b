package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/prtrack/internal/domain/model"
)

// ErrThreadNotFound is wrapped by thread mutations when GitHub reports the
// thread ID as NOT_FOUND, meaning the cached reference is stale.
var ErrThreadNotFound = errors.New("review thread not found")

// FetchedComments is the partitioned result of the review comment listing.
type FetchedComments struct {
	Comments []model.Comment // Top-level comments (no reply parent).
	Replies  []model.Reply
}

// GitHubClient defines the driven port for reading review data from GitHub.
type GitHubClient interface {
	// FetchComments lists every review comment on the PR and partitions them
	// into top-level comments and replies.
	FetchComments(ctx context.Context, repoFullName string, prNumber int) (FetchedComments, error)
	// FetchThreadMetadata walks all review threads and returns thread info
	// keyed by comment database ID.
	FetchThreadMetadata(ctx context.Context, repoFullName string, prNumber int) (map[int64]model.ThreadInfo, error)
}
