package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestGroupByPath_OrderOfFirstOccurrence(t *testing.T) {
	comments := []Comment{
		{ID: 1, Path: "b.go"},
		{ID: 2, Path: "a.go"},
		{ID: 3, Path: "b.go"},
	}

	groups := GroupByPath(comments)

	assert.Len(t, groups, 2)
	assert.Equal(t, "b.go", groups[0].Path)
	assert.Equal(t, []int64{1, 3}, ids(groups[0].Comments))
	assert.Equal(t, "a.go", groups[1].Path)
	assert.Equal(t, []int64{2}, ids(groups[1].Comments))
}

func TestGroupByPath_Empty(t *testing.T) {
	assert.Empty(t, GroupByPath(nil))
}

func TestGroupByPath_Partitions(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		paths := rapid.SliceOfN(rapid.SampledFrom([]string{"a.go", "b.go", "dir/c.ts", ""}), 0, 40).Draw(t, "paths")

		comments := make([]Comment, len(paths))
		for i, p := range paths {
			comments[i] = Comment{ID: int64(i + 1), Path: p}
		}

		groups := GroupByPath(comments)

		seen := make(map[int64]int)
		groupPaths := make(map[string]bool)
		for _, g := range groups {
			if groupPaths[g.Path] {
				t.Fatalf("path %q appears in two groups", g.Path)
			}
			groupPaths[g.Path] = true

			for _, c := range g.Comments {
				if c.Path != g.Path {
					t.Fatalf("comment %d with path %q in group %q", c.ID, c.Path, g.Path)
				}
				seen[c.ID]++
			}
		}

		if len(seen) != len(comments) {
			t.Fatalf("grouped %d comments, want %d", len(seen), len(comments))
		}
		for id, n := range seen {
			if n != 1 {
				t.Fatalf("comment %d grouped %d times", id, n)
			}
		}
	})
}

func ids(comments []Comment) []int64 {
	out := make([]int64, len(comments))
	for i, c := range comments {
		out[i] = c.ID
	}
	return out
}
