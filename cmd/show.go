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

var showCmd = &cobra.Command{
	Use:   "show <report-id>",
	Short: "Show the full detail of one issue report",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App) error {
		ctx := cmd.Context()

		report, err := app.Workflow.GetIssue(ctx, cmd.Flags().Args()[0])
		if err != nil {
			logging.Error(ctx, "show issue failed", slog.Any("err", errs.Loggable(err)))
			fmt.Fprintln(cmd.ErrOrStderr(), faults.UserMessage(err))
			return errs.Wrap(err, "show issue")
		}

		fmt.Fprint(cmd.OutOrStdout(), renderReportDetail(report))
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(showCmd)
}
