package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"propupkeep/internal/domain/issue"
	"propupkeep/internal/ports"
)

func setupIssueRepository(t *testing.T) *IssueRepository {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "issues.sqlite")
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewIssueRepository(db)
}

func testReport(reportID string, createdAt time.Time) issue.Report {
	return issue.Report{
		ReportID:            reportID,
		Source:              issue.SourceNote,
		PropertyName:        "Maple Court",
		Building:            "B",
		UnitNumber:          "204",
		RawObservations:     "Source: note | Property: Maple Court | Building: B | Unit: 204",
		ReportedObservation: "Resident reports water pooling under the kitchen sink.",
		Issue:               "Water leak under kitchen sink",
		Urgency:             issue.UrgencyMedium,
		Category:            issue.CategoryPlumbing,
		RecommendedAction:   "Dispatch plumbing vendor to inspect the supply line.",
		Confidence:          issue.ConfidenceScores{Category: 0.9, Urgency: 0.8},
		Status:              issue.StatusOpen,
		Recipients:          []string{"Maintenance Team", "Plumbing Vendor"},
		CreatedAt:           createdAt,
		UpdatedAt:           createdAt,
	}
}

func TestUpsertAndGetRoundTrip(t *testing.T) {
	repo := setupIssueRepository(t)
	ctx := context.Background()
	report := testReport("r-1", time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))

	if err := repo.SaveIssueReport(ctx, report); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := repo.GetIssue(ctx, "r-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Issue != report.Issue || got.Status != report.Status {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if !got.CreatedAt.Equal(report.CreatedAt) {
		t.Fatalf("created_at mismatch: %v", got.CreatedAt)
	}
}

func TestUpsertReplacesExistingRow(t *testing.T) {
	repo := setupIssueRepository(t)
	ctx := context.Background()
	createdAt := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	report := testReport("r-1", createdAt)
	if err := repo.UpsertIssue(ctx, report); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	report.Issue = "Water leak under kitchen sink, worsening"
	report.UpdatedAt = createdAt.Add(time.Hour)
	if err := repo.UpsertIssue(ctx, report); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	reports, err := repo.ListIssues(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(reports) != 1 {
		t.Fatalf("expected 1 report, got %d", len(reports))
	}
	if reports[0].Issue != "Water leak under kitchen sink, worsening" {
		t.Fatalf("latest write did not win: %q", reports[0].Issue)
	}
}

func TestListOrdersByUpdatedAtDescending(t *testing.T) {
	repo := setupIssueRepository(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	for i, id := range []string{"r-1", "r-2", "r-3"} {
		if err := repo.SaveIssueReport(ctx, testReport(id, base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("save %s: %v", id, err)
		}
	}

	reports, err := repo.ListIssues(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(reports) != 3 || reports[0].ReportID != "r-3" {
		t.Fatalf("unexpected order: %+v", reports)
	}
}

func TestListOrdersFractionalSecondsNumerically(t *testing.T) {
	repo := setupIssueRepository(t)
	ctx := context.Background()

	// Prefix-related fraction strings: under RFC3339Nano these two render as
	// "...05.5Z" and "...05.52Z", which text-compare in the wrong order.
	older := testReport("older", time.Date(2026, 8, 25, 10, 0, 5, 500_000_000, time.UTC))
	newer := testReport("newer", time.Date(2026, 8, 25, 10, 0, 5, 520_000_000, time.UTC))

	if err := repo.SaveIssueReport(ctx, older); err != nil {
		t.Fatalf("save older: %v", err)
	}
	if err := repo.SaveIssueReport(ctx, newer); err != nil {
		t.Fatalf("save newer: %v", err)
	}

	reports, err := repo.ListIssues(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(reports) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(reports))
	}
	if reports[0].ReportID != "newer" {
		t.Fatalf("newest update must be first, got %q (updated %v)", reports[0].ReportID, reports[0].UpdatedAt)
	}
}

func TestGetMissingReturnsNotFound(t *testing.T) {
	repo := setupIssueRepository(t)

	_, err := repo.GetIssue(context.Background(), "missing")
	if !errors.Is(err, ports.ErrIssueNotFound) {
		t.Fatalf("expected ErrIssueNotFound, got %v", err)
	}
}

func TestAddCommentPersistsAndBumps(t *testing.T) {
	repo := setupIssueRepository(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	if err := repo.SaveIssueReport(ctx, testReport("r-1", base)); err != nil {
		t.Fatalf("save: %v", err)
	}
	repo.now = func() time.Time { return base.Add(time.Hour) }

	comment, err := issue.NewComment("Dana", "pm", "Vendor scheduled.", base.Add(time.Hour))
	if err != nil {
		t.Fatalf("new comment: %v", err)
	}
	updated, err := repo.AddComment(ctx, "r-1", comment)
	if err != nil {
		t.Fatalf("add comment: %v", err)
	}
	if len(updated.Comments) != 1 {
		t.Fatalf("expected 1 comment, got %d", len(updated.Comments))
	}

	got, err := repo.GetIssue(ctx, "r-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Comments) != 1 || got.Comments[0].Message != "Vendor scheduled." {
		t.Fatalf("comment not persisted: %+v", got.Comments)
	}
	if !got.UpdatedAt.After(base) {
		t.Fatalf("updated_at not bumped: %v", got.UpdatedAt)
	}
}

func TestUpdateStatusMissingReturnsNotFound(t *testing.T) {
	repo := setupIssueRepository(t)

	_, err := repo.UpdateStatus(context.Background(), "missing", issue.StatusResolved)
	if !errors.Is(err, ports.ErrIssueNotFound) {
		t.Fatalf("expected ErrIssueNotFound, got %v", err)
	}
}

func TestUpdateStatusPersists(t *testing.T) {
	repo := setupIssueRepository(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	if err := repo.SaveIssueReport(ctx, testReport("r-1", base)); err != nil {
		t.Fatalf("save: %v", err)
	}
	repo.now = func() time.Time { return base.Add(time.Hour) }

	updated, err := repo.UpdateStatus(ctx, "r-1", issue.StatusInProgress)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if updated.Status != issue.StatusInProgress {
		t.Fatalf("status: got %q", updated.Status)
	}

	got, err := repo.GetIssue(ctx, "r-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != issue.StatusInProgress {
		t.Fatalf("status not persisted: %q", got.Status)
	}
}
