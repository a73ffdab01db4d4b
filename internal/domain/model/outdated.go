package model

import (
	"fmt"
	"time"

	"github.com/lightningnetwork/lnd/fn/v2"
)

// FileState describes a repo-relative path in the current working tree.
type FileState struct {
	Exists  bool
	ModTime time.Time
}

// OutdatedGroup holds the outdated, unresolved comments targeting one path.
type OutdatedGroup struct {
	Path     string
	Deleted  bool
	Comments []Comment
}

// Verification is the modification heuristic for a single outdated comment.
// LikelyAddressed is a hint for a human, never an automatic resolution.
type Verification struct {
	Comment         Comment
	File            FileState
	LikelyAddressed bool
	Gap             time.Duration // ModTime - FirstSeen when LikelyAddressed.
	RecentCommits   []string
	SuggestedCommit fn.Option[string]
}

// BatchResult reports the per-id outcome of a bulk resolve.
type BatchResult struct {
	Resolved []int64
	Stale    []int64
}

// FormatGap renders a duration as whole minutes below an hour, otherwise hours.
func FormatGap(d time.Duration) string {
	if d < time.Hour {
		return fmt.Sprintf("%d minutes", int(d.Minutes()))
	}
	return fmt.Sprintf("%.1f hours", d.Hours())
}

// GroupByPath partitions comments by Path. Groups appear in order of first
// occurrence and keep the input order within each group.
func GroupByPath(comments []Comment) []OutdatedGroup {
	index := make(map[string]int)
	var groups []OutdatedGroup

	for _, c := range comments {
		i, ok := index[c.Path]
		if !ok {
			i = len(groups)
			index[c.Path] = i
			groups = append(groups, OutdatedGroup{Path: c.Path})
		}
		groups[i].Comments = append(groups[i].Comments, c)
	}

	return groups
}
