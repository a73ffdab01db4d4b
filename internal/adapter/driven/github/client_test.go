package github_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ghAdapter "github.com/ericfisherdev/prtrack/internal/adapter/driven/github"
)

// newTestServer starts an httptest server that is closed with the test.
func newTestServer(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

// newTestClient creates a Client backed by the given httptest handler.
func newTestClient(t *testing.T, handler http.Handler) *ghAdapter.Client {
	t.Helper()

	server := newTestServer(t, handler)

	client, err := ghAdapter.NewClientWithHTTPClient(
		server.Client(),
		server.URL+"/",
		"test-token",
	)
	require.NoError(t, err)

	return client
}

type userJSON struct {
	Login string `json:"login"`
}

// commentJSON is a helper struct for building review comment responses.
type commentJSON struct {
	ID        int64    `json:"id"`
	Path      string   `json:"path,omitempty"`
	Line      *int     `json:"line,omitempty"`
	Body      string   `json:"body"`
	User      userJSON `json:"user"`
	InReplyTo *int64   `json:"in_reply_to_id,omitempty"`
	Created   string   `json:"created_at,omitempty"`
	Updated   string   `json:"updated_at,omitempty"`
}

func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }

func TestFetchComments_PartitionsRepliesAcrossPages(t *testing.T) {
	page1 := []commentJSON{
		{
			ID:      100,
			Path:    "a.ts",
			Line:    intPtr(7),
			Body:    "_⚠️ Potential issue_ | _🔴 Critical_\nfix this",
			User:    userJSON{Login: "coderabbitai[bot]"},
			Created: "2026-03-01T10:00:00Z",
			Updated: "2026-03-01T10:00:00Z",
		},
		{
			ID:      101,
			Path:    "README.md",
			Body:    "file-level note",
			User:    userJSON{Login: "coderabbitai[bot]"},
			Created: "2026-03-01T10:01:00Z",
			Updated: "2026-03-01T10:01:00Z",
		},
	}
	page2 := []commentJSON{
		{
			ID:        150,
			Path:      "a.ts",
			Body:      "done in abc123",
			User:      userJSON{Login: "octocat"},
			InReplyTo: int64Ptr(100),
			Created:   "2026-03-01T11:00:00Z",
			Updated:   "2026-03-01T11:00:00Z",
		},
	}

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/owner/repo/pulls/42/comments", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")

		if r.URL.Query().Get("page") == "2" {
			json.NewEncoder(w).Encode(page2)
			return
		}
		w.Header().Set("Link", fmt.Sprintf(`<%s?page=2>; rel="next"`, "http://"+r.Host+r.URL.Path))
		json.NewEncoder(w).Encode(page1)
	}))

	got, err := client.FetchComments(context.Background(), "owner/repo", 42)
	require.NoError(t, err)

	require.Len(t, got.Comments, 2)
	require.Len(t, got.Replies, 1)

	assert.Equal(t, int64(100), got.Comments[0].ID)
	assert.Equal(t, "a.ts", got.Comments[0].Path)
	require.NotNil(t, got.Comments[0].Line)
	assert.Equal(t, 7, *got.Comments[0].Line)
	assert.Equal(t, "coderabbitai[bot]", got.Comments[0].User)
	assert.Empty(t, got.Comments[0].Priority, "classification belongs to the sync service")

	assert.Nil(t, got.Comments[1].Line, "file-level comments carry no line")

	assert.Equal(t, int64(150), got.Replies[0].ID)
	assert.Equal(t, int64(100), got.Replies[0].InReplyToID)
	assert.Equal(t, "octocat", got.Replies[0].User)
}

func TestFetchComments_HTTPError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := client.FetchComments(context.Background(), "owner/repo", 42)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "owner/repo#42")
}

func TestFetchComments_InvalidRepo(t *testing.T) {
	client := newTestClient(t, http.NotFoundHandler())

	_, err := client.FetchComments(context.Background(), "not-a-repo", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected owner/repo")
}

func TestReplyToComment(t *testing.T) {
	var gotBody map[string]any

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/repos/owner/repo/pulls/42/comments", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(commentJSON{
			ID:        160,
			Body:      "thanks",
			InReplyTo: int64Ptr(100),
			Created:   "2026-03-02T10:00:00Z",
			Updated:   "2026-03-02T10:00:00Z",
		})
	}))

	err := client.ReplyToComment(context.Background(), "owner/repo", 42, 100, "thanks")
	require.NoError(t, err)
	assert.Equal(t, "thanks", gotBody["body"])
	assert.EqualValues(t, 100, gotBody["in_reply_to"])
}

func TestReplyToComment_ResponseWithoutTimestamps(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(commentJSON{ID: 161, Body: "ok"})
	}))

	err := client.ReplyToComment(context.Background(), "owner/repo", 42, 100, "ok")
	require.NoError(t, err)
}
