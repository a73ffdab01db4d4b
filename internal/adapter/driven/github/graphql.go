package github

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ericfisherdev/prtrack/internal/domain/model"
	"github.com/ericfisherdev/prtrack/internal/domain/port/driven"
)

// threadPageSize is the number of review threads requested per page.
const threadPageSize = 100

const reviewThreadsQuery = `query($owner: String!, $repo: String!, $pr: Int!, $first: Int!, $after: String) {
	repository(owner: $owner, name: $repo) {
		pullRequest(number: $pr) {
			reviewThreads(first: $first, after: $after) {
				pageInfo {
					hasNextPage
					endCursor
				}
				nodes {
					id
					isResolved
					isOutdated
					comments(first: 100) {
						nodes {
							databaseId
							outdated
						}
					}
				}
			}
		}
	}
}`

// graphqlRequest is the JSON body sent to the GitHub GraphQL API.
type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// graphqlError is a single entry of a GraphQL "errors" array.
type graphqlError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// isNotFound reports whether GitHub classified the error as NOT_FOUND.
// Older API responses only carry the message text.
func (e graphqlError) isNotFound() bool {
	return e.Type == "NOT_FOUND" || strings.Contains(e.Message, "Could not resolve to a node")
}

// graphqlEnvelope wraps the typed data payload of a GraphQL response.
type graphqlEnvelope[T any] struct {
	Data   T              `json:"data"`
	Errors []graphqlError `json:"errors"`
}

// reviewThreadsData is the data shape of reviewThreadsQuery.
type reviewThreadsData struct {
	Repository struct {
		PullRequest struct {
			ReviewThreads struct {
				PageInfo struct {
					HasNextPage bool   `json:"hasNextPage"`
					EndCursor   string `json:"endCursor"`
				} `json:"pageInfo"`
				Nodes []struct {
					ID         string `json:"id"`
					IsResolved bool   `json:"isResolved"`
					IsOutdated bool   `json:"isOutdated"`
					Comments   struct {
						Nodes []struct {
							DatabaseID int64 `json:"databaseId"`
							Outdated   bool  `json:"outdated"`
						} `json:"nodes"`
					} `json:"comments"`
				} `json:"nodes"`
			} `json:"reviewThreads"`
		} `json:"pullRequest"`
	} `json:"repository"`
}

// FetchThreadMetadata walks every review thread of the PR, one cursor page at
// a time, and returns thread info keyed by review comment database ID.
func (c *Client) FetchThreadMetadata(ctx context.Context, repoFullName string, prNumber int) (map[int64]model.ThreadInfo, error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return nil, err
	}

	result := make(map[int64]model.ThreadInfo)
	var after any // nil on the first page so the variable is sent as null.

	for page := 1; ; page++ {
		vars := map[string]any{
			"owner": owner,
			"repo":  repo,
			"pr":    prNumber,
			"first": threadPageSize,
			"after": after,
		}

		var resp graphqlEnvelope[reviewThreadsData]
		if err := c.postGraphQL(ctx, reviewThreadsQuery, vars, &resp); err != nil {
			return nil, fmt.Errorf("fetching review threads for %s#%d (page %d): %w", repoFullName, prNumber, page, err)
		}
		if len(resp.Errors) > 0 {
			return nil, fmt.Errorf("fetching review threads for %s#%d (page %d): %s", repoFullName, prNumber, page, resp.Errors[0].Message)
		}

		threads := resp.Data.Repository.PullRequest.ReviewThreads
		for _, thread := range threads.Nodes {
			for _, comment := range thread.Comments.Nodes {
				if comment.DatabaseID == 0 {
					continue
				}
				// GitHub sets comment.outdated on the individual comment, but only
				// the thread flag flips once the anchored lines change in a later
				// push. Either one marks the comment as outdated.
				result[comment.DatabaseID] = model.ThreadInfo{
					ThreadID:   thread.ID,
					IsResolved: thread.IsResolved,
					IsOutdated: thread.IsOutdated || comment.Outdated,
				}
			}
		}

		slog.Debug("github graphql page",
			"endpoint", repoFullName+"/reviewThreads",
			"page", page,
			"threads", len(threads.Nodes),
			"has_next", threads.PageInfo.HasNextPage,
		)

		if !threads.PageInfo.HasNextPage || threads.PageInfo.EndCursor == "" {
			break
		}
		after = threads.PageInfo.EndCursor
	}

	return result, nil
}

// postGraphQL sends one GraphQL request and decodes the response envelope into out.
// GraphQL-level errors are left in the envelope for the caller to classify.
func (c *Client) postGraphQL(ctx context.Context, query string, vars map[string]any, out any) error {
	if c.token == "" {
		return fmt.Errorf("GitHub GraphQL requires a token")
	}

	bodyBytes, err := json.Marshal(graphqlRequest{Query: query, Variables: vars})
	if err != nil {
		return fmt.Errorf("marshaling graphql request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.graphqlURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("creating graphql request: %w", err)
	}
	httpReq.Header.Set("Authorization", fmt.Sprintf("bearer %s", c.token))
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("graphql request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		// Keep a bounded slice of the body for the error message.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("graphql: HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding graphql response: %w", err)
	}

	return nil
}

// classifyMutationErrors turns GraphQL errors from a thread mutation into a
// Go error, wrapping driven.ErrThreadNotFound for stale thread IDs.
func classifyMutationErrors(op, threadID string, errs []graphqlError) error {
	if len(errs) == 0 {
		return nil
	}
	for _, e := range errs {
		if e.isNotFound() {
			return fmt.Errorf("%s %s: %s: %w", op, threadID, e.Message, driven.ErrThreadNotFound)
		}
	}
	return errors.New(op + " " + threadID + ": " + errs[0].Message)
}
