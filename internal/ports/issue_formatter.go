package ports

import (
	"context"

	"propupkeep/internal/domain/issue"
)

// FormatRequest carries the sanitized submission facts handed to the
// text-generation service. Image bytes are forwarded for size/metadata only;
// the content is never analyzed.
type FormatRequest struct {
	Source        issue.Source
	Metadata      issue.Metadata
	NoteText      string
	ImageFilename string
	ImageBytes    []byte
	ImageMime     string
}

// IssueFormatter turns a submission into a schema-validated structured issue
// via a single external text-generation call plus at most one repair retry.
type IssueFormatter interface {
	FormatIssue(ctx context.Context, req FormatRequest) (issue.AIFormattedIssue, error)
}
