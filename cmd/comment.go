package cmd

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"propupkeep/internal/bootstrap"
	"propupkeep/internal/bootstrap/logging"
	"propupkeep/internal/domain/issue"
	"propupkeep/internal/errs"
	"propupkeep/internal/faults"
)

var commentCmd = &cobra.Command{
	Use:   "comment <report-id>",
	Short: "Add a comment to an issue report",
	Long:  "Valid author roles: " + strings.Join(roleNames(), ", "),
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App) error {
		ctx := cmd.Context()

		author, _ := cmd.Flags().GetString("author")
		role, _ := cmd.Flags().GetString("role")
		message, _ := cmd.Flags().GetString("message")

		updated, err := app.Workflow.AddIssueComment(ctx, cmd.Flags().Args()[0], author, role, message)
		if err != nil {
			logging.Error(ctx, "add comment failed", slog.Any("err", errs.Loggable(err)))
			fmt.Fprintln(cmd.ErrOrStderr(), faults.UserMessage(err))
			return errs.Wrap(err, "add comment")
		}

		fmt.Fprintf(cmd.OutOrStdout(), "comment added to report %s (%d total)\n",
			shortID(updated.ReportID), len(updated.Comments))
		return nil
	}),
}

func roleNames() []string {
	roles := issue.AuthorRoles()
	names := make([]string, 0, len(roles))
	for _, role := range roles {
		names = append(names, string(role))
	}
	return names
}

func init() {
	commentCmd.Flags().String("author", "", "Author display name")
	commentCmd.Flags().String("role", "", "Author role")
	commentCmd.Flags().String("message", "", "Comment text")
	_ = commentCmd.MarkFlagRequired("author")
	_ = commentCmd.MarkFlagRequired("role")
	_ = commentCmd.MarkFlagRequired("message")

	rootCmd.AddCommand(commentCmd)
}
