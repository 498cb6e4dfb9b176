package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"propupkeep/internal/bootstrap/logging"
	"propupkeep/internal/domain/issue"
	"propupkeep/internal/domain/routing"
	"propupkeep/internal/faults"
	"propupkeep/internal/ports"
	"propupkeep/internal/sanitize"
)

const (
	msgMissingInput     = "Please add a note or a photo before submitting."
	msgMissingNote      = "Please enter notes before formatting for the team."
	msgImageTooLarge    = "The uploaded image is too large. Please upload a smaller file."
	msgUnsupportedImage = "Unsupported image type. Please upload PNG or JPEG."
	msgMissingMetadata  = "Property, building and unit are required."
)

const (
	maxMetadataNameChars = 120
	maxUnitNumberChars   = 30
	maxObservationChars  = 4000
)

type SubmitIssueInput struct {
	Source        string
	NoteText      string
	Metadata      issue.Metadata
	ImageBytes    []byte
	ImageFilename string
	ImageMime     string
}

// SubmitIssue runs the full submission use case: sanitize, validate presence,
// build the audit context, format via the AI call, route recipients, persist
// the upload, and save the assembled report.
func (s *Service) SubmitIssue(ctx context.Context, in SubmitIssueInput) (issue.Report, error) {
	logCtx := logging.WithAttrs(ctx, slog.String("component", "workflow"))

	source, err := issue.ParseSource(in.Source)
	if err != nil {
		return issue.Report{}, faults.Rejection(fmt.Sprintf("Unknown submission source %q. Use note or photo.", in.Source))
	}

	noteText := sanitize.Text(in.NoteText, s.cfg.MaxInputChars)
	imageFilename := ""
	if in.ImageFilename != "" {
		imageFilename = sanitize.Filename(in.ImageFilename)
	}
	metadata := s.sanitizeMetadata(in.Metadata)
	if !metadata.Complete() {
		return issue.Report{}, faults.Rejection(msgMissingMetadata)
	}

	hasNote := noteText != ""
	hasImage := len(in.ImageBytes) > 0
	if !hasNote && !hasImage {
		return issue.Report{}, faults.Rejection(msgMissingInput)
	}
	if source == issue.SourceNote && !hasNote {
		return issue.Report{}, faults.Rejection(msgMissingNote)
	}
	if hasImage && int64(len(in.ImageBytes)) > s.cfg.MaxUploadBytes {
		return issue.Report{}, faults.Rejection(msgImageTooLarge)
	}

	imageMime := ""
	if hasImage {
		normalized, ok := issue.NormalizeImageMime(in.ImageMime)
		if !ok {
			return issue.Report{}, faults.Rejection(msgUnsupportedImage)
		}
		imageMime = normalized
	}

	reportID := s.newID()

	// Audit trail built purely from sanitized inputs, independent of
	// whatever the AI call produces.
	rawObservations := buildObservationContext(source, metadata, noteText, imageFilename, imageMime, len(in.ImageBytes))

	formatted, err := s.formatter.FormatIssue(ctx, ports.FormatRequest{
		Source:        source,
		Metadata:      metadata,
		NoteText:      noteText,
		ImageFilename: imageFilename,
		ImageBytes:    in.ImageBytes,
		ImageMime:     imageMime,
	})
	if err != nil {
		return issue.Report{}, err
	}

	recipients := routing.Recipients(formatted.Category, formatted.Urgency)

	imagePath := ""
	if hasImage {
		imagePath, err = s.saveImageUpload(reportID, in.ImageBytes, imageFilename, imageMime)
		if err != nil {
			return issue.Report{}, err
		}
	}

	now := s.now().UTC()
	report := issue.Report{
		ReportID:            reportID,
		Source:              source,
		PropertyName:        metadata.PropertyName,
		Building:            metadata.Building,
		UnitNumber:          metadata.UnitNumber,
		Area:                metadata.Area,
		NoteText:            noteText,
		ImageFilename:       imageFilename,
		ImagePath:           imagePath,
		ImageMime:           imageMime,
		RawObservations:     rawObservations,
		ReportedObservation: formatted.ReportedObservation,
		Issue:               formatted.Issue,
		Urgency:             formatted.Urgency,
		Category:            formatted.Category,
		RecommendedAction:   formatted.RecommendedAction,
		ExtractedEntities:   formatted.ExtractedEntities,
		Confidence:          formatted.Confidence,
		NeedsFollowup:       formatted.NeedsFollowup,
		FollowupQuestions:   formatted.FollowupQuestions,
		PhotoObservation:    formatted.PhotoObservation,
		Status:              issue.StatusOpen,
		Recipients:          recipients,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := report.Validate(); err != nil {
		return issue.Report{}, s.persistenceFault(logCtx, msgSaveFailed, err)
	}

	if err := s.repo.SaveIssueReport(ctx, report); err != nil {
		return issue.Report{}, s.persistenceFault(logCtx, msgSaveFailed, err)
	}

	logging.Info(logCtx, "issue report created",
		slog.String("report_id", report.ReportID),
		slog.String("source", string(report.Source)),
		slog.String("property_name", report.PropertyName),
		slog.String("building", report.Building),
		slog.String("unit_number", report.UnitNumber),
		slog.Bool("has_image", report.ImagePath != ""),
		slog.String("urgency", string(report.Urgency)),
		slog.String("category", string(report.Category)),
	)
	return report, nil
}

func (s *Service) sanitizeMetadata(metadata issue.Metadata) issue.Metadata {
	return issue.Metadata{
		PropertyName: sanitize.Text(metadata.PropertyName, maxMetadataNameChars),
		Building:     sanitize.Text(metadata.Building, maxMetadataNameChars),
		UnitNumber:   sanitize.Text(metadata.UnitNumber, maxUnitNumberChars),
		Area:         sanitize.Text(metadata.Area, maxMetadataNameChars),
	}
}

// buildObservationContext renders the labeled submission facts used as the
// report's audit context, capped at the raw-observation ceiling.
func buildObservationContext(source issue.Source, metadata issue.Metadata, noteText string, imageFilename string, imageMime string, imageBytesLen int) string {
	area := metadata.Area
	if area == "" {
		area = "Unknown"
	}
	noteBlock := noteText
	if noteBlock == "" {
		noteBlock = "[none provided]"
	}
	imageName := imageFilename
	if imageName == "" {
		imageName = "[none provided]"
	}
	mimeBlock := imageMime
	if mimeBlock == "" {
		mimeBlock = "Unknown"
	}

	context := strings.Join([]string{
		"Source: " + string(source),
		"Property: " + metadata.PropertyName,
		"Building: " + metadata.Building,
		"Unit: " + metadata.UnitNumber,
		"Area: " + area,
		"Note: " + noteBlock,
		"Image Filename: " + imageName,
		"Image Mime: " + mimeBlock,
		fmt.Sprintf("Image Bytes Length: %d", imageBytesLen),
	}, " | ")

	if runes := []rune(context); len(runes) > maxObservationChars {
		context = string(runes[:maxObservationChars])
	}
	return context
}
