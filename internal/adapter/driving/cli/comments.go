package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newSyncCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Fetch review comments and thread state from GitHub",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireGitHub(); err != nil {
				return err
			}
			if err := a.cfg.RequirePR(); err != nil {
				return err
			}

			summary, err := a.syncService().Sync(cmd.Context(), a.cfg.PR)
			if err != nil {
				return fmt.Errorf("sync PR #%d: %w", a.cfg.PR, err)
			}

			renderSyncSummary(a.out, summary)
			return nil
		},
	}
}

func newListCommand(a *app) *cobra.Command {
	var f listFilter

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List pending review comments",
		Long:  "List review comments. By default only comments that are neither resolved on GitHub nor snoozed are shown.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, err := f.toModel()
			if err != nil {
				return err
			}

			comments, err := a.commentService().List(cmd.Context(), filter)
			if err != nil {
				return err
			}

			renderCommentList(a.out, comments)
			return nil
		},
	}

	cmd.Flags().BoolVar(&f.all, "all", false, "Include resolved and snoozed comments")
	cmd.Flags().BoolVar(&f.snoozed, "snoozed", false, "Only snoozed comments")
	cmd.Flags().BoolVar(&f.outdated, "outdated", false, "Only outdated comments")
	cmd.Flags().StringVar(&f.priority, "priority", "", "Filter by priority (issue, refactor, nitpick, unknown)")
	cmd.Flags().StringVar(&f.severity, "severity", "", "Filter by severity (critical, major, minor, trivial, unknown)")
	cmd.Flags().StringVar(&f.path, "path", "", "Filter by path substring")
	cmd.Flags().BoolVar(&f.exactPath, "exact-path", false, "Match --path exactly")

	return cmd
}

func newSearchCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search <text>",
		Short: "Search comment bodies and paths, case-insensitively",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			comments, err := a.commentService().Search(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}

			renderCommentList(a.out, comments)
			return nil
		},
	}
}

func newShowCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a comment with its replies and notes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			detail, err := a.commentService().Get(cmd.Context(), id)
			if err != nil {
				return err
			}

			renderDetail(a.out, detail)
			return nil
		},
	}
}

func newNoteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "note <id> <text>",
		Short: "Append a timestamped local note to a comment",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			if err := a.commentService().AddNote(cmd.Context(), id, strings.Join(args[1:], " ")); err != nil {
				return err
			}

			fmt.Fprintf(a.out, "%s Added note to #%d\n", passStyle.Render(iconPass), id)
			return nil
		},
	}
}

func newSnoozeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "snooze <id>...",
		Short: "Hide comments until a new reply arrives",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}

			svc := a.commentService()
			for _, id := range ids {
				count, err := svc.Snooze(cmd.Context(), id)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "%s Snoozed #%d until it has more than %d replies\n",
					passStyle.Render(iconPass), id, count)
			}
			return nil
		},
	}
}

func newUnsnoozeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "unsnooze <id>...",
		Short: "Return snoozed comments to the pending list",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}

			svc := a.commentService()
			for _, id := range ids {
				if err := svc.Unsnooze(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "%s Unsnoozed #%d\n", passStyle.Render(iconPass), id)
			}
			return nil
		},
	}
}

func newStatsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show comment counts by state, severity and priority",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			stats, err := a.commentService().Stats(cmd.Context())
			if err != nil {
				return err
			}

			renderStats(a.out, stats)
			return nil
		},
	}
}
