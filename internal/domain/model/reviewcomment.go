package model

import "time"

// Comment is a top-level review comment as cached locally. Provider fields are
// overwritten on every sync; FirstSeen, ResolvedCommit, WaitingReply,
// SnoozedReplyCount and Notes are local annotations that survive resyncs.
type Comment struct {
	ID       int64
	Path     string
	Line     *int // nil for file-level comments.
	Body     string
	Priority Priority
	Severity Severity
	Outdated bool
	User     string

	CreatedAt time.Time
	UpdatedAt time.Time
	FirstSeen time.Time

	ThreadID       string // Empty until the thread lookup resolves it, or after invalidation.
	GitHubResolved bool

	ResolvedCommit    string
	WaitingReply      bool
	SnoozedReplyCount int
	Notes             string
}

// HasThread reports whether the comment carries a provider thread reference.
func (c Comment) HasThread() bool {
	return c.ThreadID != ""
}

// IsPending reports whether the comment belongs in the default pending view.
func (c Comment) IsPending() bool {
	return !c.GitHubResolved && !c.WaitingReply
}

// Reply is a review comment posted in reply to a top-level Comment.
type Reply struct {
	ID          int64
	InReplyToID int64
	Body        string
	User        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ThreadInfo is the per-comment thread metadata returned by the GraphQL
// thread walk. It is merged into Comment rows and never stored on its own.
type ThreadInfo struct {
	ThreadID   string
	IsResolved bool
	IsOutdated bool
}

// UnknownThread is used for comments absent from the thread metadata map.
var UnknownThread = ThreadInfo{}
