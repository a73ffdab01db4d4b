package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newResolveCommand(a *app) *cobra.Command {
	var commit string

	cmd := &cobra.Command{
		Use:   "resolve <id>...",
		Short: "Resolve review threads on GitHub",
		Long: "Resolve the review thread of each comment on GitHub. With --commit the commit " +
			"is recorded locally as the one that addressed the comment. Stops at the first failure.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			if err := a.requireGitHub(); err != nil {
				return err
			}

			svc := a.commentService()
			for _, id := range ids {
				outcome, err := svc.Resolve(cmd.Context(), id, commit)
				if err != nil {
					return err
				}
				renderOutcome(a.out, id, outcome)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&commit, "commit", "", "Commit that addressed the comments (local note only)")

	return cmd
}

func newUnresolveCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "unresolve <id>...",
		Short: "Reopen review threads on GitHub",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			if err := a.requireGitHub(); err != nil {
				return err
			}

			svc := a.commentService()
			for _, id := range ids {
				outcome, err := svc.Unresolve(cmd.Context(), id)
				if err != nil {
					return err
				}
				renderOutcome(a.out, id, outcome)
			}
			return nil
		},
	}
}

func newReplyCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reply <id> <body>",
		Short: "Post a reply under a review comment",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.requireGitHub(); err != nil {
				return err
			}
			if err := a.cfg.RequirePR(); err != nil {
				return err
			}

			body := strings.Join(args[1:], " ")
			if err := a.commentService().Reply(cmd.Context(), a.cfg.PR, id, body); err != nil {
				return err
			}

			fmt.Fprintf(a.out, "%s Replied to #%d. Run prtrack sync to import it.\n", passStyle.Render(iconPass), id)
			return nil
		},
	}
}
