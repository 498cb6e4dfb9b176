package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"propupkeep/internal/bootstrap/logging"
	"propupkeep/internal/domain/issue"
	"propupkeep/internal/faults"
	"propupkeep/internal/ports"
)

// UpdateIssueStatus replaces a report's lifecycle status. The status value is
// parsed against the closed set before the store is touched.
func (s *Service) UpdateIssueStatus(ctx context.Context, reportID string, statusValue string) (issue.Report, error) {
	status, err := issue.ParseStatus(statusValue)
	if err != nil {
		return issue.Report{}, faults.Rejection(fmt.Sprintf("%q is not a valid status.", statusValue))
	}

	updated, err := s.repo.UpdateStatus(ctx, reportID, status)
	if err != nil {
		return issue.Report{}, s.mutationFault(ctx, err)
	}

	logging.Info(logging.WithAttrs(ctx, slog.String("component", "workflow")),
		"issue status updated",
		slog.String("report_id", reportID),
		slog.String("status", string(status)),
	)
	return updated, nil
}

// AddIssueComment appends a comment to a report. Author name, role, and
// message are validated at comment construction.
func (s *Service) AddIssueComment(ctx context.Context, reportID string, authorName string, authorRole string, message string) (issue.Report, error) {
	comment, err := issue.NewComment(authorName, authorRole, message, s.now())
	if err != nil {
		return issue.Report{}, faults.Rejection(err.Error())
	}

	updated, err := s.repo.AddComment(ctx, reportID, comment)
	if err != nil {
		return issue.Report{}, s.mutationFault(ctx, err)
	}

	logging.Info(logging.WithAttrs(ctx, slog.String("component", "workflow")),
		"issue comment added",
		slog.String("report_id", reportID),
		slog.String("author_role", string(comment.AuthorRole)),
	)
	return updated, nil
}

func (s *Service) mutationFault(ctx context.Context, err error) error {
	if errors.Is(err, ports.ErrIssueNotFound) {
		return faults.Persistence(msgReportNotFound, err.Error(), err)
	}
	return s.persistenceFault(ctx, msgMutateFailed, err)
}
