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

var statusCmd = &cobra.Command{
	Use:   "status <report-id> <status>",
	Short: "Update the lifecycle status of an issue report",
	Long:  "Valid statuses: " + strings.Join(statusNames(), ", "),
	Args:  cobra.ExactArgs(2),
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App) error {
		ctx := cmd.Context()

		args := cmd.Flags().Args()
		updated, err := app.Workflow.UpdateIssueStatus(ctx, args[0], args[1])
		if err != nil {
			logging.Error(ctx, "update status failed", slog.Any("err", errs.Loggable(err)))
			fmt.Fprintln(cmd.ErrOrStderr(), faults.UserMessage(err))
			return errs.Wrap(err, "update status")
		}

		fmt.Fprintf(cmd.OutOrStdout(), "report %s is now %s\n", shortID(updated.ReportID), styledStatus(updated.Status))
		return nil
	}),
}

func statusNames() []string {
	statuses := issue.Statuses()
	names := make([]string, 0, len(statuses))
	for _, status := range statuses {
		names = append(names, string(status))
	}
	return names
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
