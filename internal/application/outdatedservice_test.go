package application_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/prtrack/internal/application"
	"github.com/ericfisherdev/prtrack/internal/domain/model"
)

var firstSeen = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func outdatedFixture() *fakeStore {
	store := newFakeStore()
	store.seed(
		model.Comment{ID: 1, Path: "src/a.go", Outdated: true, ThreadID: "T1", FirstSeen: firstSeen},
		model.Comment{ID: 2, Path: "src/gone.go", Outdated: true, ThreadID: "T2", FirstSeen: firstSeen},
		model.Comment{ID: 3, Path: "src/a.go", Outdated: true, ThreadID: "T3", FirstSeen: firstSeen},
		model.Comment{ID: 4, Path: "src/a.go", Outdated: true, ThreadID: "T4", GitHubResolved: true},
		model.Comment{ID: 5, Path: "src/b.go", ThreadID: "T5"},
		model.Comment{ID: 6, Path: "src/gone.go", Outdated: true, ThreadID: "T6", FirstSeen: firstSeen},
	)
	return store
}

func newOutdatedService(store *fakeStore, tree *mockWorkTree, writer *mockGitHubWriter) *application.OutdatedService {
	comments := application.NewCommentService(store, writer, testRepo)
	return application.NewOutdatedService(store, tree, comments)
}

func TestGroups_MarksDeletedPaths(t *testing.T) {
	tree := &mockWorkTree{files: map[string]time.Time{"src/a.go": firstSeen}}
	svc := newOutdatedService(outdatedFixture(), tree, &mockGitHubWriter{})

	groups, err := svc.Groups(context.Background())
	require.NoError(t, err)

	require.Len(t, groups, 2)
	assert.Equal(t, "src/a.go", groups[0].Path)
	assert.False(t, groups[0].Deleted)
	assert.Len(t, groups[0].Comments, 2)

	assert.Equal(t, "src/gone.go", groups[1].Path)
	assert.True(t, groups[1].Deleted)
	assert.Len(t, groups[1].Comments, 2)
}

func TestVerify_ModifiedAfterFirstSeen(t *testing.T) {
	tree := &mockWorkTree{
		files: map[string]time.Time{"src/a.go": firstSeen.Add(90 * time.Minute)},
		commits: map[string][]string{
			"src/a.go": {"abc1234 Handle empty input", "def5678 Initial version"},
		},
	}
	svc := newOutdatedService(outdatedFixture(), tree, &mockGitHubWriter{})

	v, err := svc.Verify(context.Background(), 1)
	require.NoError(t, err)

	assert.True(t, v.File.Exists)
	assert.True(t, v.LikelyAddressed)
	assert.Equal(t, 90*time.Minute, v.Gap)
	assert.Len(t, v.RecentCommits, 2)
	assert.Equal(t, "abc1234", v.SuggestedCommit.UnwrapOr(""))
}

func TestVerify_NotModifiedSinceFirstSeen(t *testing.T) {
	tree := &mockWorkTree{files: map[string]time.Time{"src/a.go": firstSeen}}
	svc := newOutdatedService(outdatedFixture(), tree, &mockGitHubWriter{})

	v, err := svc.Verify(context.Background(), 1)
	require.NoError(t, err)

	assert.False(t, v.LikelyAddressed)
	assert.Zero(t, v.Gap)
	assert.True(t, v.SuggestedCommit.IsNone())
}

func TestVerify_DeletedFile(t *testing.T) {
	svc := newOutdatedService(outdatedFixture(), &mockWorkTree{}, &mockGitHubWriter{})

	v, err := svc.Verify(context.Background(), 2)
	require.NoError(t, err)

	assert.False(t, v.File.Exists)
	assert.False(t, v.LikelyAddressed)
	assert.Empty(t, v.RecentCommits)
}

func TestVerify_HistoryErrorIsNotFatal(t *testing.T) {
	tree := &mockWorkTree{
		files:  map[string]time.Time{"src/a.go": firstSeen.Add(time.Minute)},
		logErr: errors.New("not a git repository"),
	}
	svc := newOutdatedService(outdatedFixture(), tree, &mockGitHubWriter{})

	v, err := svc.Verify(context.Background(), 1)
	require.NoError(t, err)

	assert.True(t, v.LikelyAddressed)
	assert.True(t, v.SuggestedCommit.IsNone())
}

func TestVerify_UnknownComment(t *testing.T) {
	svc := newOutdatedService(newFakeStore(), &mockWorkTree{}, &mockGitHubWriter{})

	_, err := svc.Verify(context.Background(), 99)
	require.ErrorIs(t, err, application.ErrCommentNotFound)
}

func TestResolveFile(t *testing.T) {
	store := outdatedFixture()
	writer := &mockGitHubWriter{}
	svc := newOutdatedService(store, &mockWorkTree{}, writer)

	result, err := svc.ResolveFile(context.Background(), "src/a.go", "abc1234")
	require.NoError(t, err)

	assert.Equal(t, []int64{1, 3}, result.Resolved)
	assert.Empty(t, result.Stale)
	assert.Equal(t, []string{"T1", "T3"}, writer.resolved)
	assert.Equal(t, "abc1234", store.comments[1].ResolvedCommit)
	assert.Equal(t, "abc1234", store.comments[3].ResolvedCommit)
	assert.False(t, store.comments[2].GitHubResolved)
}

func TestResolveDeleted_RecordsStaleAndContinues(t *testing.T) {
	store := outdatedFixture()
	writer := &mockGitHubWriter{resolveErr: map[string]error{"T2": staleErr("T2")}}
	tree := &mockWorkTree{files: map[string]time.Time{"src/a.go": firstSeen}}
	svc := newOutdatedService(store, tree, writer)

	result, err := svc.ResolveDeleted(context.Background(), "abc1234")
	require.NoError(t, err)

	assert.Equal(t, []int64{6}, result.Resolved)
	assert.Equal(t, []int64{2}, result.Stale)
	assert.Empty(t, store.comments[2].ThreadID)
	assert.False(t, store.comments[1].GitHubResolved)
}

func TestResolveFile_StopsOnFirstFailure(t *testing.T) {
	store := outdatedFixture()
	writer := &mockGitHubWriter{resolveErr: map[string]error{"T3": errors.New("HTTP 502")}}
	svc := newOutdatedService(store, &mockWorkTree{}, writer)

	result, err := svc.ResolveFile(context.Background(), "src/a.go", "abc1234")
	require.Error(t, err)

	var batchErr *application.BatchResolveError
	require.ErrorAs(t, err, &batchErr)
	assert.Equal(t, []int64{1}, batchErr.Completed)
	assert.Equal(t, int64(3), batchErr.FailedID)
	assert.Equal(t, []int64{1}, result.Resolved)
	assert.Equal(t, "T3", store.comments[3].ThreadID)
	assert.False(t, store.comments[3].GitHubResolved)
}

func TestResolveFile_NoMatches(t *testing.T) {
	svc := newOutdatedService(outdatedFixture(), &mockWorkTree{}, &mockGitHubWriter{})

	result, err := svc.ResolveFile(context.Background(), "src/none.go", "abc1234")
	require.NoError(t, err)

	assert.Empty(t, result.Resolved)
	assert.Empty(t, result.Stale)
}
