package github

import (
	"context"
	"fmt"

	"github.com/ericfisherdev/prtrack/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.GitHubWriter = (*Client)(nil)

const resolveThreadMutation = `mutation($threadId: ID!) {
	resolveReviewThread(input: {threadId: $threadId}) {
		thread { id isResolved }
	}
}`

const unresolveThreadMutation = `mutation($threadId: ID!) {
	unresolveReviewThread(input: {threadId: $threadId}) {
		thread { id isResolved }
	}
}`

// threadPayload is the post-mutation thread state shared by both mutations.
type threadPayload struct {
	Thread struct {
		ID         string `json:"id"`
		IsResolved bool   `json:"isResolved"`
	} `json:"thread"`
}

// ResolveThread marks a review thread resolved via the GraphQL API.
func (c *Client) ResolveThread(ctx context.Context, threadID string) (bool, error) {
	var resp graphqlEnvelope[struct {
		ResolveReviewThread *threadPayload `json:"resolveReviewThread"`
	}]

	if err := c.postGraphQL(ctx, resolveThreadMutation, map[string]any{"threadId": threadID}, &resp); err != nil {
		return false, fmt.Errorf("resolve thread %s: %w", threadID, err)
	}
	if err := classifyMutationErrors("resolve thread", threadID, resp.Errors); err != nil {
		return false, err
	}
	if resp.Data.ResolveReviewThread == nil {
		return false, fmt.Errorf("resolve thread %s: empty mutation payload", threadID)
	}

	return resp.Data.ResolveReviewThread.Thread.IsResolved, nil
}

// UnresolveThread reopens a review thread via the GraphQL API.
func (c *Client) UnresolveThread(ctx context.Context, threadID string) (bool, error) {
	var resp graphqlEnvelope[struct {
		UnresolveReviewThread *threadPayload `json:"unresolveReviewThread"`
	}]

	if err := c.postGraphQL(ctx, unresolveThreadMutation, map[string]any{"threadId": threadID}, &resp); err != nil {
		return false, fmt.Errorf("unresolve thread %s: %w", threadID, err)
	}
	if err := classifyMutationErrors("unresolve thread", threadID, resp.Errors); err != nil {
		return false, err
	}
	if resp.Data.UnresolveReviewThread == nil {
		return false, fmt.Errorf("unresolve thread %s: empty mutation payload", threadID)
	}

	return resp.Data.UnresolveReviewThread.Thread.IsResolved, nil
}

// ReplyToComment replies to an existing review comment thread.
// commentID must be the root comment ID of the thread.
func (c *Client) ReplyToComment(ctx context.Context, repoFullName string, prNumber int, commentID int64, body string) error {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return err
	}

	_, resp, err := c.gh.PullRequests.CreateCommentInReplyTo(ctx, owner, repo, prNumber, body, commentID)
	if err != nil {
		return fmt.Errorf("replying to comment %d on %s#%d: %w", commentID, repoFullName, prNumber, err)
	}

	logRateLimit(resp, repoFullName+"/reply-comment", 0, 1)
	return nil
}
