package ports

import (
	"context"
	"errors"

	"propupkeep/internal/domain/issue"
)

var ErrIssueNotFound = errors.New("issue report not found")

// IssueRepository is the durable record store for issue reports. Every
// mutation routes back through it; callers operate on the copies it returns
// and never cache a record across calls.
type IssueRepository interface {
	// SaveIssueReport is the submission-time write; equivalent to UpsertIssue.
	SaveIssueReport(ctx context.Context, report issue.Report) error
	// UpsertIssue replaces-or-inserts by report id.
	UpsertIssue(ctx context.Context, report issue.Report) error
	// GetIssue returns ErrIssueNotFound when no record has the id.
	GetIssue(ctx context.Context, reportID string) (issue.Report, error)
	// ListIssues returns all records sorted by updated_at descending.
	ListIssues(ctx context.Context) ([]issue.Report, error)
	// AddComment appends to the record's comment list and bumps updated_at.
	AddComment(ctx context.Context, reportID string, comment issue.Comment) (issue.Report, error)
	// UpdateStatus replaces the lifecycle status and bumps updated_at.
	UpdateStatus(ctx context.Context, reportID string, status issue.Status) (issue.Report, error)
}
