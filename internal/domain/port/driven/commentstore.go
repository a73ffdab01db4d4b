package driven

import (
	"context"
	"errors"
	"time"

	"github.com/ericfisherdev/prtrack/internal/domain/model"
)

// ErrCommentNotFound is returned by single-row mutations when no comment
// with the given ID exists.
var ErrCommentNotFound = errors.New("comment not found")

// CommentStore defines the driven port for the local comment cache.
type CommentStore interface {
	// Upsert inserts the comment or overwrites its provider fields, merging in
	// thread metadata. Local annotations and FirstSeen are carried forward
	// from an existing row. Returns true when the row did not exist before.
	Upsert(ctx context.Context, comment model.Comment, thread model.ThreadInfo, now time.Time) (bool, error)
	UpsertReply(ctx context.Context, reply model.Reply) error

	// GetByID returns nil, nil if the comment does not exist.
	GetByID(ctx context.Context, id int64) (*model.Comment, error)
	List(ctx context.Context, filter model.CommentFilter) ([]model.Comment, error)
	// Search matches text case-insensitively against body and path.
	Search(ctx context.Context, text string) ([]model.Comment, error)
	ListSnoozed(ctx context.Context) ([]model.Comment, error)
	// ListOutdatedPending returns outdated, unresolved comments ordered by path.
	ListOutdatedPending(ctx context.Context) ([]model.Comment, error)
	RepliesFor(ctx context.Context, commentID int64) ([]model.Reply, error)
	ReplyCount(ctx context.Context, commentID int64) (int, error)
	Stats(ctx context.Context) (model.CommentStats, error)

	// Single-field mutations. Each returns ErrCommentNotFound when no row matched.

	AppendNote(ctx context.Context, id int64, note string, now time.Time) error
	ClearThreadID(ctx context.Context, id int64) error
	SetResolvedCommit(ctx context.Context, id int64, commit string) error
	SetGitHubResolved(ctx context.Context, id int64, resolved bool) error
	SetSnooze(ctx context.Context, id int64, waiting bool, replyCount int) error
}
