package driven

import "context"

// GitHubWriter defines the driven port for GitHub write operations.
// It is kept separate from GitHubClient (read operations).
type GitHubWriter interface {
	// ResolveThread marks the thread resolved and returns its post-mutation
	// isResolved flag. Wraps ErrThreadNotFound for stale thread IDs.
	ResolveThread(ctx context.Context, threadID string) (bool, error)
	// UnresolveThread reopens the thread. Wraps ErrThreadNotFound for stale thread IDs.
	UnresolveThread(ctx context.Context, threadID string) (bool, error)
	// ReplyToComment posts a reply under the given top-level comment.
	ReplyToComment(ctx context.Context, repoFullName string, prNumber int, commentID int64, body string) error
}
