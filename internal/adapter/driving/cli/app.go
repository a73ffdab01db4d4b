package cli

import (
	"io"
	"log/slog"

	githubadapter "github.com/ericfisherdev/prtrack/internal/adapter/driven/github"
	sqliteadapter "github.com/ericfisherdev/prtrack/internal/adapter/driven/sqlite"
	"github.com/ericfisherdev/prtrack/internal/adapter/driven/worktree"
	"github.com/ericfisherdev/prtrack/internal/application"
	"github.com/ericfisherdev/prtrack/internal/config"
)

// app is the per-invocation composition root. The database is opened once
// before any command runs; the GitHub client is only built by commands that
// need the network.
type app struct {
	cfg     *config.Config
	out     io.Writer
	confirm func(title string) (bool, error)

	db    *sqliteadapter.DB
	store *sqliteadapter.CommentRepo
	gh    *githubadapter.Client
}

func (a *app) open() error {
	db, err := sqliteadapter.NewDB(a.cfg.DBPath)
	if err != nil {
		return err
	}

	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		db.Close()
		return err
	}

	a.db = db
	a.store = sqliteadapter.NewCommentRepo(db)
	slog.Debug("database opened", "path", db.Path())

	return nil
}

func (a *app) close() error {
	if a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db = nil
	return err
}

// requireGitHub validates the network settings and builds the GitHub client.
func (a *app) requireGitHub() error {
	if a.gh != nil {
		return nil
	}
	if err := a.cfg.Validate(); err != nil {
		return err
	}
	a.gh = githubadapter.NewClient(a.cfg.GitHubToken)
	return nil
}

func (a *app) syncService() *application.SyncService {
	return application.NewSyncService(a.gh, a.store, a.cfg.Repo)
}

// commentService wires the GitHub writer only when requireGitHub has run, so
// local commands never need a token.
func (a *app) commentService() *application.CommentService {
	if a.gh == nil {
		return application.NewCommentService(a.store, nil, a.cfg.Repo)
	}
	return application.NewCommentService(a.store, a.gh, a.cfg.Repo)
}

func (a *app) outdatedService() *application.OutdatedService {
	return application.NewOutdatedService(a.store, worktree.New(a.cfg.WorkTree), a.commentService())
}
