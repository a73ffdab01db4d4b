package driven

import (
	"context"

	"github.com/ericfisherdev/prtrack/internal/domain/model"
)

// WorkTree defines the driven port for the local checkout.
type WorkTree interface {
	// Stat reports existence and modification time for a repo-relative path.
	// A path that cannot be stat'd is reported as not existing.
	Stat(path string) model.FileState
	// RecentCommits returns up to limit one-line commit summaries touching
	// path, newest first.
	RecentCommits(ctx context.Context, path string, limit int) ([]string, error)
}
