package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/prtrack/internal/application"
	"github.com/ericfisherdev/prtrack/internal/domain/model"
)

func newOutdatedCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "outdated",
		Short: "Work through outdated, unresolved comments",
	}

	cmd.AddCommand(
		newOutdatedListCommand(a),
		newOutdatedVerifyCommand(a),
		newOutdatedResolveFileCommand(a),
		newOutdatedResolveDeletedCommand(a),
	)

	return cmd
}

func newOutdatedListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List outdated pending comments grouped by file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			groups, err := a.outdatedService().Groups(cmd.Context())
			if err != nil {
				return err
			}

			renderGroups(a.out, groups)
			return nil
		},
	}
}

func newOutdatedVerifyCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "verify <id>",
		Short: "Check whether the target file changed since the comment was first seen",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			v, err := a.outdatedService().Verify(cmd.Context(), id)
			if err != nil {
				return err
			}

			renderVerification(a.out, v)
			return nil
		},
	}
}

// bulkFlags are shared by the bulk resolve commands.
type bulkFlags struct {
	commit string
	yes    bool
}

func (f *bulkFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.commit, "commit", "", "Commit that addressed the comments (required)")
	cmd.Flags().BoolVarP(&f.yes, "yes", "y", false, "Skip the confirmation prompt")
	_ = cmd.MarkFlagRequired("commit")
}

func newOutdatedResolveFileCommand(a *app) *cobra.Command {
	var f bulkFlags

	cmd := &cobra.Command{
		Use:   "resolve-file <path>",
		Short: "Resolve every outdated pending comment on a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if err := a.requireGitHub(); err != nil {
				return err
			}
			svc := a.outdatedService()

			comments, err := svc.ForFile(cmd.Context(), path)
			if err != nil {
				return err
			}

			return a.runBulkResolve(f, comments, fmt.Sprintf("on %s", path), func() (*model.BatchResult, error) {
				return svc.ResolveFile(cmd.Context(), path, f.commit)
			})
		},
	}

	f.register(cmd)
	return cmd
}

func newOutdatedResolveDeletedCommand(a *app) *cobra.Command {
	var f bulkFlags

	cmd := &cobra.Command{
		Use:   "resolve-deleted",
		Short: "Resolve every outdated pending comment on a deleted file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireGitHub(); err != nil {
				return err
			}
			svc := a.outdatedService()

			comments, err := svc.ForDeletedFiles(cmd.Context())
			if err != nil {
				return err
			}

			return a.runBulkResolve(f, comments, "on deleted files", func() (*model.BatchResult, error) {
				return svc.ResolveDeleted(cmd.Context(), f.commit)
			})
		},
	}

	f.register(cmd)
	return cmd
}

// runBulkResolve previews the comments, asks for confirmation unless --yes,
// then runs resolve. On a partial failure the completed ids are printed
// before the error is returned.
func (a *app) runBulkResolve(f bulkFlags, comments []model.Comment, scope string, resolve func() (*model.BatchResult, error)) error {
	if len(comments) == 0 {
		fmt.Fprintf(a.out, "%s No outdated pending comments %s.\n", mutedStyle.Render(iconInfo), scope)
		return nil
	}

	for _, c := range comments {
		renderCommentLine(a.out, c)
	}

	if !f.yes {
		ok, err := a.confirm(fmt.Sprintf("Resolve %d comment(s) %s with commit %s?", len(comments), scope, f.commit))
		if err != nil {
			return err
		}
		if !ok {
			return application.ErrCancelled
		}
	}

	result, err := resolve()
	if result != nil {
		renderBatchResult(a.out, result)
	}

	var batchErr *application.BatchResolveError
	if errors.As(err, &batchErr) {
		fmt.Fprintf(a.out, "%s stopped at #%d; %d earlier comment(s) stay resolved\n",
			failStyle.Render(iconFail), batchErr.FailedID, len(batchErr.Completed))
	}

	return err
}
