// Package worktree implements the WorkTree port against a local git checkout.
package worktree

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ericfisherdev/prtrack/internal/domain/model"
	"github.com/ericfisherdev/prtrack/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.WorkTree = (*Repo)(nil)

// Repo resolves repo-relative paths against a checkout root.
type Repo struct {
	root string
}

// New creates a Repo rooted at root. An empty root means the current directory.
func New(root string) *Repo {
	if root == "" {
		root = "."
	}
	return &Repo{root: root}
}

// Stat reports whether path exists and when it was last modified. Any stat
// failure counts as deleted; git history is not consulted.
func (r *Repo) Stat(path string) model.FileState {
	info, err := os.Stat(filepath.Join(r.root, filepath.FromSlash(path)))
	if err != nil {
		slog.Debug("stat failed, treating file as deleted", "path", path, "error", err)
		return model.FileState{}
	}
	return model.FileState{Exists: true, ModTime: info.ModTime()}
}

// RecentCommits runs git log for path and returns "<sha> <subject>" lines, newest first.
func (r *Repo) RecentCommits(ctx context.Context, path string, limit int) ([]string, error) {
	args := []string{"-C", r.root, "log", "--oneline", "-n", strconv.Itoa(limit), "--", path}

	cmd := exec.CommandContext(ctx, "git", args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("git log %s: %w: %s", path, err, strings.TrimSpace(stderr.String()))
	}

	var commits []string
	for _, line := range strings.Split(stdout.String(), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			commits = append(commits, line)
		}
	}
	return commits, nil
}
