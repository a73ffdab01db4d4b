// Package github implements the GitHubClient and GitHubWriter ports using the go-github library.
package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v82/github"
	"github.com/gregjones/httpcache"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"

	"github.com/ericfisherdev/prtrack/internal/domain/model"
	"github.com/ericfisherdev/prtrack/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.GitHubClient = (*Client)(nil)

// Client implements the driven.GitHubClient port using the go-github library.
type Client struct {
	gh         *gh.Client
	httpClient *http.Client // Used for GraphQL requests.
	token      string       // Stored for GraphQL Authorization header.
	graphqlURL string       // "https://api.github.com/graphql" in production; derived from baseURL in tests.
}

// NewClient creates a new GitHub API client with the following transport stack:
//  1. httpcache (ETag-based conditional request caching)
//  2. go-github-ratelimit (secondary rate limit middleware, sleeps on 429)
//  3. go-github (GitHub REST API client with PAT auth)
func NewClient(token string) *Client {
	cacheTransport := httpcache.NewMemoryCacheTransport()
	rateLimitClient := github_ratelimit.NewClient(cacheTransport)
	client := gh.NewClient(rateLimitClient).WithAuthToken(token)

	return &Client{
		gh:         client,
		httpClient: &http.Client{},
		token:      token,
		graphqlURL: "https://api.github.com/graphql",
	}
}

// NewClientWithHTTPClient creates a Client with a custom http.Client and base URL.
// This constructor is intended for testing, allowing injection of an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL, token string) (*Client, error) {
	client := gh.NewClient(httpClient)

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	client.BaseURL = u

	// Derive graphqlURL from baseURL so httptest servers can intercept GraphQL requests.
	graphqlU := *u
	graphqlU.Path = "/graphql"

	return &Client{
		gh:         client,
		httpClient: httpClient,
		token:      token,
		graphqlURL: graphqlU.String(),
	}, nil
}

// FetchComments retrieves every review comment on a pull request and splits
// them into top-level comments and replies by the presence of in_reply_to_id.
// There is no since filter; each call is a full pull.
func (c *Client) FetchComments(ctx context.Context, repoFullName string, prNumber int) (driven.FetchedComments, error) {
	var out driven.FetchedComments

	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return out, err
	}

	opts := &gh.PullRequestListCommentsOptions{
		ListOptions: gh.ListOptions{PerPage: 100},
	}

	for {
		comments, resp, err := c.gh.PullRequests.ListComments(ctx, owner, repo, prNumber, opts)
		if err != nil {
			return driven.FetchedComments{}, fmt.Errorf("listing review comments for %s#%d (page %d): %w", repoFullName, prNumber, opts.Page, err)
		}

		logRateLimit(resp, repoFullName+"/pulls/comments", opts.Page, len(comments))

		for _, comment := range comments {
			if comment.InReplyTo != nil {
				out.Replies = append(out.Replies, mapReply(comment))
				continue
			}
			out.Comments = append(out.Comments, mapComment(comment))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return out, nil
}

// mapComment converts a go-github PullRequestComment to a domain model Comment.
// Priority and severity are derived by the sync service, not the adapter.
func mapComment(c *gh.PullRequestComment) model.Comment {
	var line *int
	if c.Line != nil {
		l := c.GetLine()
		line = &l
	}

	return model.Comment{
		ID:        c.GetID(),
		Path:      c.GetPath(),
		Line:      line,
		Body:      c.GetBody(),
		User:      c.GetUser().GetLogin(),
		CreatedAt: c.GetCreatedAt().Time,
		UpdatedAt: c.GetUpdatedAt().Time,
	}
}

// mapReply converts a go-github PullRequestComment carrying in_reply_to_id to a Reply.
func mapReply(c *gh.PullRequestComment) model.Reply {
	return model.Reply{
		ID:          c.GetID(),
		InReplyToID: c.GetInReplyTo(),
		Body:        c.GetBody(),
		User:        c.GetUser().GetLogin(),
		CreatedAt:   c.GetCreatedAt().Time,
		UpdatedAt:   c.GetUpdatedAt().Time,
	}
}

// logRateLimit logs the GitHub API rate limit status after each call.
func logRateLimit(resp *gh.Response, endpoint string, page, count int) {
	if resp == nil {
		return
	}

	slog.Debug("github api call",
		"endpoint", endpoint,
		"page", page,
		"count", count,
		"rate_remaining", resp.Rate.Remaining,
		"rate_limit", resp.Rate.Limit,
	)

	if resp.Rate.Limit > 0 && resp.Rate.Remaining < 100 {
		slog.Warn("github rate limit low",
			"remaining", resp.Rate.Remaining,
			"reset_in", time.Until(resp.Rate.Reset.Time).Round(time.Second),
		)
	}
}

// splitRepo splits a "owner/repo" string into its two components.
func splitRepo(fullName string) (string, string, error) {
	parts := strings.SplitN(fullName, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repo name %q: expected owner/repo", fullName)
	}
	return parts[0], parts[1], nil
}
