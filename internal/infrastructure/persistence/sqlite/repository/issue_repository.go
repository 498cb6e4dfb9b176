// Package repository implements the record store on an embedded SQLite
// database behind the same port as the JSONL log, so deployments with more
// traffic can switch drivers without touching any other component.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"propupkeep/internal/domain/issue"
	"propupkeep/internal/errs"
	"propupkeep/internal/infrastructure/persistence/sqlite/model"
	"propupkeep/internal/ports"
)

// rowTimeLayout is RFC3339 with a fixed-width nanosecond fraction. Rows are
// ordered with SQLite text comparison, so the stored form must compare
// lexicographically the same as chronologically; RFC3339Nano trims trailing
// zeros and breaks that.
const rowTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type IssueRepository struct {
	db  *gorm.DB
	now func() time.Time
}

var _ ports.IssueRepository = (*IssueRepository)(nil)

func NewIssueRepository(db *gorm.DB) *IssueRepository {
	return &IssueRepository{db: db, now: time.Now}
}

// Migrate creates or updates the issue_reports table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&model.IssueReport{})
}

func (r *IssueRepository) SaveIssueReport(ctx context.Context, report issue.Report) error {
	return r.UpsertIssue(ctx, report)
}

func (r *IssueRepository) UpsertIssue(ctx context.Context, report issue.Report) error {
	if err := ctx.Err(); err != nil {
		return errs.Wrap(err, "check context")
	}
	if err := report.Validate(); err != nil {
		return errs.Wrap(err, "validate issue report")
	}

	row, err := toRow(report)
	if err != nil {
		return err
	}

	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "report_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"updated_at": row.UpdatedAt,
			"payload":    row.Payload,
		}),
	}).Create(&row).Error; err != nil {
		return errs.Wrap(err, "upsert issue report")
	}
	return nil
}

func (r *IssueRepository) GetIssue(ctx context.Context, reportID string) (issue.Report, error) {
	if err := ctx.Err(); err != nil {
		return issue.Report{}, errs.Wrap(err, "check context")
	}
	return getByID(r.db.WithContext(ctx), reportID)
}

func (r *IssueRepository) ListIssues(ctx context.Context) ([]issue.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(err, "check context")
	}

	var rows []model.IssueReport
	if err := r.db.WithContext(ctx).
		Order("updated_at desc").
		Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query issue reports")
	}

	out := make([]issue.Report, 0, len(rows))
	for _, row := range rows {
		report, err := fromRow(row)
		if err != nil {
			// Same tolerance as log replay: an unreadable row is skipped,
			// not fatal.
			continue
		}
		out = append(out, report)
	}
	return out, nil
}

func (r *IssueRepository) AddComment(ctx context.Context, reportID string, comment issue.Comment) (issue.Report, error) {
	return r.mutate(ctx, reportID, func(report issue.Report) issue.Report {
		return report.WithComment(comment, r.now())
	})
}

func (r *IssueRepository) UpdateStatus(ctx context.Context, reportID string, status issue.Status) (issue.Report, error) {
	return r.mutate(ctx, reportID, func(report issue.Report) issue.Report {
		return report.WithStatus(status, r.now())
	})
}

// mutate wraps the read-modify-write in a transaction so concurrent mutations
// of the same record cannot lose updates.
func (r *IssueRepository) mutate(ctx context.Context, reportID string, apply func(issue.Report) issue.Report) (issue.Report, error) {
	if err := ctx.Err(); err != nil {
		return issue.Report{}, errs.Wrap(err, "check context")
	}

	var updated issue.Report
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		report, err := getByID(tx, reportID)
		if err != nil {
			return err
		}

		updated = apply(report)
		row, err := toRow(updated)
		if err != nil {
			return err
		}

		return tx.Model(&model.IssueReport{}).
			Where("report_id = ?", reportID).
			Updates(map[string]any{
				"updated_at": row.UpdatedAt,
				"payload":    row.Payload,
			}).Error
	})
	if err != nil {
		return issue.Report{}, err
	}
	return updated, nil
}

func getByID(db *gorm.DB, reportID string) (issue.Report, error) {
	var row model.IssueReport
	if err := db.Where("report_id = ?", reportID).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return issue.Report{}, errs.Wrapf(ports.ErrIssueNotFound, "get issue %q", reportID)
		}
		return issue.Report{}, errs.Wrap(err, "query issue report")
	}
	return fromRow(row)
}

func toRow(report issue.Report) (model.IssueReport, error) {
	payload, err := json.Marshal(report)
	if err != nil {
		return model.IssueReport{}, errs.Wrapf(err, "encode issue report %q", report.ReportID)
	}
	return model.IssueReport{
		ReportID:  report.ReportID,
		CreatedAt: report.CreatedAt.UTC().Format(rowTimeLayout),
		UpdatedAt: report.UpdatedAt.UTC().Format(rowTimeLayout),
		Payload:   string(payload),
	}, nil
}

func fromRow(row model.IssueReport) (issue.Report, error) {
	var report issue.Report
	if err := json.Unmarshal([]byte(row.Payload), &report); err != nil {
		return issue.Report{}, errs.Wrapf(err, "decode issue report %q", row.ReportID)
	}
	if err := report.Validate(); err != nil {
		return issue.Report{}, errs.Wrapf(err, "validate issue report %q", row.ReportID)
	}
	return report, nil
}
