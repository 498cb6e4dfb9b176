package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"propupkeep/internal/bootstrap"
	"propupkeep/internal/bootstrap/logging"
	"propupkeep/internal/domain/issue"
	"propupkeep/internal/errs"
	"propupkeep/internal/faults"
	"propupkeep/internal/usecase/workflow"
)

var mimeByExtension = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
}

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit a maintenance note or photo as a structured issue report",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		source, _ := cmd.Flags().GetString("source")
		note, _ := cmd.Flags().GetString("note")
		property, _ := cmd.Flags().GetString("property")
		building, _ := cmd.Flags().GetString("building")
		unit, _ := cmd.Flags().GetString("unit")
		area, _ := cmd.Flags().GetString("area")
		imagePath, _ := cmd.Flags().GetString("image")
		imageMime, _ := cmd.Flags().GetString("mime")

		input := workflow.SubmitIssueInput{
			Source:   source,
			NoteText: note,
			Metadata: issue.Metadata{
				PropertyName: property,
				Building:     building,
				UnitNumber:   unit,
				Area:         area,
			},
		}

		if imagePath != "" {
			imageBytes, err := os.ReadFile(imagePath)
			if err != nil {
				return errs.Wrapf(err, "read image %q", imagePath)
			}
			if imageMime == "" {
				imageMime = mimeByExtension[strings.ToLower(filepath.Ext(imagePath))]
			}
			input.ImageBytes = imageBytes
			input.ImageFilename = filepath.Base(imagePath)
			input.ImageMime = imageMime
		}

		report, err := app.Workflow.SubmitIssue(ctx, input)
		if err != nil {
			logging.Error(ctx, "submit issue failed", slog.Any("err", errs.Loggable(err)))
			fmt.Fprintln(cmd.ErrOrStderr(), faults.UserMessage(err))
			return errs.Wrap(err, "submit issue")
		}

		fmt.Fprintf(cmd.OutOrStdout(), "created report %s (%s / %s)\n",
			report.ReportID, report.Category, report.Urgency)
		fmt.Fprintf(cmd.OutOrStdout(), "recipients: %s\n", strings.Join(report.Recipients, ", "))
		if report.NeedsFollowup {
			fmt.Fprintln(cmd.OutOrStdout(), "follow-up questions:")
			for _, question := range report.FollowupQuestions {
				fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", question)
			}
		}
		return nil
	}),
}

func init() {
	submitCmd.Flags().String("source", "note", "Submission source: note or photo")
	submitCmd.Flags().String("note", "", "Free-form maintenance note text")
	submitCmd.Flags().String("property", "", "Property name")
	submitCmd.Flags().String("building", "", "Building")
	submitCmd.Flags().String("unit", "", "Unit number")
	submitCmd.Flags().String("area", "", "Area within the unit (optional)")
	submitCmd.Flags().String("image", "", "Path to a PNG or JPEG photo (optional)")
	submitCmd.Flags().String("mime", "", "Image MIME type (inferred from the file extension when omitted)")

	rootCmd.AddCommand(submitCmd)
}
