package workflow

import (
	"context"
	"testing"
	"time"

	"propupkeep/internal/domain/issue"
	"propupkeep/internal/faults"
)

func seedReport(t *testing.T, svc *Service, repo *fakeRepo, reportID string) issue.Report {
	t.Helper()

	createdAt := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	report := issue.Report{
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
		CreatedAt:           createdAt,
		UpdatedAt:           createdAt,
	}
	repo.reports[reportID] = report
	return report
}

func TestUpdateIssueStatusValid(t *testing.T) {
	repo := newFakeRepo()
	svc := setupService(t, &fakeFormatter{}, repo)
	seedReport(t, svc, repo, "r-1")

	updated, err := svc.UpdateIssueStatus(context.Background(), "r-1", "resolved")
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if updated.Status != issue.StatusResolved {
		t.Fatalf("status: got %q", updated.Status)
	}
}

func TestUpdateIssueStatusRejectsInvalidValue(t *testing.T) {
	repo := newFakeRepo()
	svc := setupService(t, &fakeFormatter{}, repo)
	seedReport(t, svc, repo, "r-1")

	_, err := svc.UpdateIssueStatus(context.Background(), "r-1", "DONE")
	if kind, ok := faults.KindOf(err); !ok || kind != faults.KindRejection {
		t.Fatalf("expected rejection fault, got %v", err)
	}
	if repo.reports["r-1"].Status != issue.StatusOpen {
		t.Fatalf("status must be untouched, got %q", repo.reports["r-1"].Status)
	}
}

func TestUpdateIssueStatusMissingReport(t *testing.T) {
	svc := setupService(t, &fakeFormatter{}, newFakeRepo())

	_, err := svc.UpdateIssueStatus(context.Background(), "missing", "resolved")
	if kind, ok := faults.KindOf(err); !ok || kind != faults.KindPersistence {
		t.Fatalf("expected persistence fault, got %v", err)
	}
	if faults.UserMessage(err) != msgReportNotFound {
		t.Fatalf("user message: got %q", faults.UserMessage(err))
	}
}

func TestAddIssueCommentValid(t *testing.T) {
	repo := newFakeRepo()
	svc := setupService(t, &fakeFormatter{}, repo)
	seedReport(t, svc, repo, "r-1")

	updated, err := svc.AddIssueComment(context.Background(), "r-1", "Dana Reyes", "maintenance", "Shutoff valve closed.")
	if err != nil {
		t.Fatalf("add comment: %v", err)
	}
	if len(updated.Comments) != 1 {
		t.Fatalf("comments: got %d", len(updated.Comments))
	}
	if updated.Comments[0].AuthorRole != issue.RoleMaintenance {
		t.Fatalf("author role: got %q", updated.Comments[0].AuthorRole)
	}
}

func TestAddIssueCommentRejectsInvalidRole(t *testing.T) {
	repo := newFakeRepo()
	svc := setupService(t, &fakeFormatter{}, repo)
	seedReport(t, svc, repo, "r-1")

	_, err := svc.AddIssueComment(context.Background(), "r-1", "Dana", "Janitor", "msg")
	if kind, ok := faults.KindOf(err); !ok || kind != faults.KindRejection {
		t.Fatalf("expected rejection fault, got %v", err)
	}
	if len(repo.reports["r-1"].Comments) != 0 {
		t.Fatal("comment must not be stored")
	}
}

func TestAddIssueCommentMissingReport(t *testing.T) {
	svc := setupService(t, &fakeFormatter{}, newFakeRepo())

	_, err := svc.AddIssueComment(context.Background(), "missing", "Dana", "pm", "msg")
	if faults.UserMessage(err) != msgReportNotFound {
		t.Fatalf("user message: got %q", faults.UserMessage(err))
	}
}

func TestGetIssueMissingReport(t *testing.T) {
	svc := setupService(t, &fakeFormatter{}, newFakeRepo())

	_, err := svc.GetIssue(context.Background(), "missing")
	if kind, ok := faults.KindOf(err); !ok || kind != faults.KindPersistence {
		t.Fatalf("expected persistence fault, got %v", err)
	}
	if faults.UserMessage(err) != msgReportNotFound {
		t.Fatalf("user message: got %q", faults.UserMessage(err))
	}
}

func TestListRecentActivityClampsLimit(t *testing.T) {
	repo := newFakeRepo()
	svc := setupService(t, &fakeFormatter{}, repo)
	for _, id := range []string{"r-1", "r-2", "r-3"} {
		seedReport(t, svc, repo, id)
	}

	reports, err := svc.ListRecentActivity(context.Background(), 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(reports) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(reports))
	}

	all, err := svc.ListRecentActivity(context.Background(), 0)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 reports, got %d", len(all))
	}
}
