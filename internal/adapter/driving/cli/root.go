// Package cli is the cobra command tree for prtrack.
package cli

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/prtrack/internal/config"
	"github.com/ericfisherdev/prtrack/internal/logging"
)

// Execute builds the root command, runs it with the provided args, and
// returns any error for the caller to report.
func Execute(ctx context.Context, args []string, cfg *config.Config, out io.Writer) error {
	if out == nil {
		out = os.Stdout
	}

	a := &app{cfg: cfg, out: out, confirm: confirmPrompt}

	defer func() {
		if err := a.close(); err != nil {
			slog.Error("error closing database", "error", err)
		}
	}()

	rootCmd := newRootCommand(a)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(out)

	return rootCmd.ExecuteContext(ctx)
}

// newRootCommand constructs the root cobra.Command with global flags and subcommands.
func newRootCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prtrack",
		Short: "Track GitHub pull request review comments locally",
		Long: "prtrack mirrors the review comments of a pull request into a local SQLite " +
			"cache, adds local notes and snoozes, and resolves review threads in bulk.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level := logging.ParseLevel(a.cfg.LogLevel)
			slog.SetDefault(logging.NewLogger(os.Stderr, level))
			slog.Debug("logger initialized", "level", level)

			return a.open()
		},
	}

	flags := cmd.PersistentFlags()
	flags.IntVar(&a.cfg.PR, "pr", a.cfg.PR, "Pull request number (PRTRACK_PR)")
	flags.StringVar(&a.cfg.Repo, "repo", a.cfg.Repo, "Repository as owner/name (PRTRACK_REPO)")
	flags.StringVar(&a.cfg.DBPath, "db", a.cfg.DBPath, "Path to the comment database (PRTRACK_DB_PATH)")
	flags.StringVar(&a.cfg.LogLevel, "log-level", a.cfg.LogLevel, "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		newSyncCommand(a),
		newListCommand(a),
		newSearchCommand(a),
		newShowCommand(a),
		newNoteCommand(a),
		newSnoozeCommand(a),
		newUnsnoozeCommand(a),
		newResolveCommand(a),
		newUnresolveCommand(a),
		newReplyCommand(a),
		newStatsCommand(a),
		newOutdatedCommand(a),
	)

	return cmd
}
