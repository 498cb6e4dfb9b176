package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"propupkeep/internal/bootstrap"
	"propupkeep/internal/bootstrap/logging"
	"propupkeep/internal/errs"
	"propupkeep/internal/faults"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List issue reports, most recent activity first",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App) error {
		ctx := cmd.Context()

		limit, _ := cmd.Flags().GetInt("limit")

		reports, err := app.Workflow.ListRecentActivity(ctx, limit)
		if err != nil {
			logging.Error(ctx, "list issues failed", slog.Any("err", errs.Loggable(err)))
			fmt.Fprintln(cmd.ErrOrStderr(), faults.UserMessage(err))
			return errs.Wrap(err, "list issues")
		}

		if len(reports) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no issue reports yet")
			return nil
		}

		fmt.Fprintln(cmd.OutOrStdout(), renderReportTable(reports))
		return nil
	}),
}

func init() {
	listCmd.Flags().Int("limit", 50, "Maximum number of reports to show (0 for all)")

	rootCmd.AddCommand(listCmd)
}
