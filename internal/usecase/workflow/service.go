// Package workflow composes sanitizer, formatter, router, and record store
// into the submission and mutation use cases. It is also the error boundary:
// everything leaving this package is a faults.Fault with a display-safe
// message, and internal detail goes to the structured log only.
package workflow

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"propupkeep/internal/bootstrap/logging"
	"propupkeep/internal/domain/issue"
	"propupkeep/internal/faults"
	"propupkeep/internal/ports"
)

const (
	msgLoadFailed     = "We could not load reports right now. Please try again."
	msgSaveFailed     = "We could not save your report. Please try again."
	msgMutateFailed   = "We could not update the report. Please try again."
	msgReportNotFound = "We could not find that report. Please refresh and try again."
)

// Config carries the orchestrator's operating limits and storage locations.
type Config struct {
	MaxInputChars  int
	MaxUploadBytes int64
	UploadsDir     string
	// AppRoot anchors the relative image path recorded on the report.
	AppRoot string
}

type Service struct {
	formatter ports.IssueFormatter
	repo      ports.IssueRepository
	cfg       Config
	now       func() time.Time
	newID     func() string
}

// NewService wires the workflow use cases with formatter and record store.
func NewService(formatter ports.IssueFormatter, repo ports.IssueRepository, cfg Config) *Service {
	return &Service{
		formatter: formatter,
		repo:      repo,
		cfg:       cfg,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

func (s *Service) ListIssues(ctx context.Context) ([]issue.Report, error) {
	reports, err := s.repo.ListIssues(ctx)
	if err != nil {
		return nil, s.persistenceFault(ctx, msgLoadFailed, err)
	}
	return reports, nil
}

// ListRecentActivity returns at most limit reports, newest activity first.
func (s *Service) ListRecentActivity(ctx context.Context, limit int) ([]issue.Report, error) {
	reports, err := s.ListIssues(ctx)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(reports) > limit {
		reports = reports[:limit]
	}
	return reports, nil
}

func (s *Service) GetIssue(ctx context.Context, reportID string) (issue.Report, error) {
	report, err := s.repo.GetIssue(ctx, reportID)
	if err != nil {
		if errors.Is(err, ports.ErrIssueNotFound) {
			return issue.Report{}, faults.Persistence(msgReportNotFound, err.Error(), err)
		}
		return issue.Report{}, s.persistenceFault(ctx, msgLoadFailed, err)
	}
	return report, nil
}

// persistenceFault logs the raw storage error and returns its display-safe
// translation.
func (s *Service) persistenceFault(ctx context.Context, userMessage string, err error) error {
	logging.Error(logging.WithAttrs(ctx, slog.String("component", "workflow")),
		"persistence operation failed", slog.String("error", err.Error()))
	return faults.Persistence(userMessage, err.Error(), err)
}
