package application_test

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/ericfisherdev/prtrack/internal/domain/model"
	"github.com/ericfisherdev/prtrack/internal/domain/port/driven"
)

// --- Mock implementations ---

type mockGitHubClient struct {
	fetched    driven.FetchedComments
	threads    map[int64]model.ThreadInfo
	fetchErr   error
	threadsErr error
}

func (m *mockGitHubClient) FetchComments(_ context.Context, _ string, _ int) (driven.FetchedComments, error) {
	return m.fetched, m.fetchErr
}

func (m *mockGitHubClient) FetchThreadMetadata(_ context.Context, _ string, _ int) (map[int64]model.ThreadInfo, error) {
	return m.threads, m.threadsErr
}

type replyCall struct {
	Repo      string
	PR        int
	CommentID int64
	Body      string
}

type mockGitHubWriter struct {
	resolveErr map[string]error
	resolved   []string
	unresolved []string
	replies    []replyCall
	replyErr   error
}

func (m *mockGitHubWriter) ResolveThread(_ context.Context, threadID string) (bool, error) {
	if err := m.resolveErr[threadID]; err != nil {
		return false, err
	}
	m.resolved = append(m.resolved, threadID)
	return true, nil
}

func (m *mockGitHubWriter) UnresolveThread(_ context.Context, threadID string) (bool, error) {
	if err := m.resolveErr[threadID]; err != nil {
		return false, err
	}
	m.unresolved = append(m.unresolved, threadID)
	return false, nil
}

func (m *mockGitHubWriter) ReplyToComment(_ context.Context, repo string, pr int, commentID int64, body string) error {
	if m.replyErr != nil {
		return m.replyErr
	}
	m.replies = append(m.replies, replyCall{Repo: repo, PR: pr, CommentID: commentID, Body: body})
	return nil
}

type mockWorkTree struct {
	files   map[string]time.Time
	commits map[string][]string
	logErr  error
}

func (m *mockWorkTree) Stat(path string) model.FileState {
	mod, ok := m.files[path]
	if !ok {
		return model.FileState{}
	}
	return model.FileState{Exists: true, ModTime: mod}
}

func (m *mockWorkTree) RecentCommits(_ context.Context, path string, limit int) ([]string, error) {
	if m.logErr != nil {
		return nil, m.logErr
	}
	commits := m.commits[path]
	if len(commits) > limit {
		commits = commits[:limit]
	}
	return commits, nil
}

// fakeStore is an in-memory CommentStore with the same merge rules as the
// sqlite repository.
type fakeStore struct {
	comments map[int64]*model.Comment
	replies  map[int64]model.Reply
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		comments: make(map[int64]*model.Comment),
		replies:  make(map[int64]model.Reply),
	}
}

func (f *fakeStore) Upsert(_ context.Context, c model.Comment, thread model.ThreadInfo, now time.Time) (bool, error) {
	c.ThreadID = thread.ThreadID
	c.GitHubResolved = thread.IsResolved
	c.Outdated = thread.IsOutdated

	existing, ok := f.comments[c.ID]
	if !ok {
		c.FirstSeen = now
		f.comments[c.ID] = &c
		return true, nil
	}

	c.FirstSeen = existing.FirstSeen
	c.ResolvedCommit = existing.ResolvedCommit
	c.WaitingReply = existing.WaitingReply
	c.SnoozedReplyCount = existing.SnoozedReplyCount
	c.Notes = existing.Notes
	f.comments[c.ID] = &c
	return false, nil
}

func (f *fakeStore) UpsertReply(_ context.Context, r model.Reply) error {
	f.replies[r.ID] = r
	return nil
}

func (f *fakeStore) GetByID(_ context.Context, id int64) (*model.Comment, error) {
	c, ok := f.comments[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (f *fakeStore) List(_ context.Context, filter model.CommentFilter) ([]model.Comment, error) {
	var out []model.Comment
	for _, c := range f.sorted() {
		if !filter.IncludeResolved && c.GitHubResolved {
			continue
		}
		if filter.OnlySnoozed && !c.WaitingReply {
			continue
		}
		if !filter.IncludeSnoozed && !filter.OnlySnoozed && c.WaitingReply {
			continue
		}
		if filter.OutdatedOnly && !c.Outdated {
			continue
		}
		if filter.Priority != "" && c.Priority != filter.Priority {
			continue
		}
		if filter.Severity != "" && c.Severity != filter.Severity {
			continue
		}
		if filter.Path != "" && !strings.Contains(c.Path, filter.Path) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeStore) Search(_ context.Context, text string) ([]model.Comment, error) {
	var out []model.Comment
	needle := strings.ToLower(text)
	for _, c := range f.sorted() {
		if strings.Contains(strings.ToLower(c.Body), needle) || strings.Contains(strings.ToLower(c.Path), needle) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeStore) ListSnoozed(_ context.Context) ([]model.Comment, error) {
	var out []model.Comment
	for _, c := range f.sorted() {
		if c.WaitingReply {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeStore) ListOutdatedPending(_ context.Context) ([]model.Comment, error) {
	var out []model.Comment
	for _, c := range f.sorted() {
		if c.Outdated && !c.GitHubResolved {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

func (f *fakeStore) RepliesFor(_ context.Context, commentID int64) ([]model.Reply, error) {
	var out []model.Reply
	for _, r := range f.replies {
		if r.InReplyToID == commentID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) ReplyCount(ctx context.Context, commentID int64) (int, error) {
	replies, err := f.RepliesFor(ctx, commentID)
	return len(replies), err
}

func (f *fakeStore) Stats(_ context.Context) (model.CommentStats, error) {
	stats := model.CommentStats{
		ByPriority: make(map[model.Priority]int),
		BySeverity: make(map[model.Severity]int),
	}
	for _, c := range f.comments {
		stats.Total++
		stats.ByPriority[c.Priority]++
		stats.BySeverity[c.Severity]++
	}
	return stats, nil
}

func (f *fakeStore) AppendNote(_ context.Context, id int64, note string, now time.Time) error {
	c, ok := f.comments[id]
	if !ok {
		return driven.ErrCommentNotFound
	}
	entry := "[" + now.Format("2006-01-02 15:04") + "] " + note
	if c.Notes == "" {
		c.Notes = entry
	} else {
		c.Notes += "\n" + entry
	}
	return nil
}

func (f *fakeStore) ClearThreadID(_ context.Context, id int64) error {
	return f.mutate(id, func(c *model.Comment) { c.ThreadID = "" })
}

func (f *fakeStore) SetResolvedCommit(_ context.Context, id int64, commit string) error {
	return f.mutate(id, func(c *model.Comment) { c.ResolvedCommit = commit })
}

func (f *fakeStore) SetGitHubResolved(_ context.Context, id int64, resolved bool) error {
	return f.mutate(id, func(c *model.Comment) { c.GitHubResolved = resolved })
}

func (f *fakeStore) SetSnooze(_ context.Context, id int64, waiting bool, replyCount int) error {
	return f.mutate(id, func(c *model.Comment) {
		c.WaitingReply = waiting
		c.SnoozedReplyCount = replyCount
	})
}

func (f *fakeStore) mutate(id int64, apply func(*model.Comment)) error {
	c, ok := f.comments[id]
	if !ok {
		return driven.ErrCommentNotFound
	}
	apply(c)
	return nil
}

func (f *fakeStore) sorted() []model.Comment {
	out := make([]model.Comment, 0, len(f.comments))
	for _, c := range f.comments {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// seed inserts comments directly, bypassing Upsert.
func (f *fakeStore) seed(comments ...model.Comment) {
	for _, c := range comments {
		cp := c
		f.comments[c.ID] = &cp
	}
}

// Compile-time interface checks.
var (
	_ driven.CommentStore = (*fakeStore)(nil)
	_ driven.GitHubClient = (*mockGitHubClient)(nil)
	_ driven.GitHubWriter = (*mockGitHubWriter)(nil)
	_ driven.WorkTree     = (*mockWorkTree)(nil)
)
