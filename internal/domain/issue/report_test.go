package issue

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func validReport() Report {
	createdAt := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	return Report{
		ReportID:            "3f1c2f44-0000-4000-8000-000000000001",
		Source:              SourceNote,
		PropertyName:        "Maple Court",
		Building:            "B",
		UnitNumber:          "204",
		NoteText:            "Water pooling under the kitchen sink.",
		RawObservations:     "Source: note | Property: Maple Court | Building: B | Unit: 204",
		ReportedObservation: "Resident reports water pooling under the kitchen sink.",
		Issue:               "Water leak under kitchen sink",
		Urgency:             UrgencyMedium,
		Category:            CategoryPlumbing,
		RecommendedAction:   "Dispatch plumbing vendor to inspect the supply line.",
		Confidence:          ConfidenceScores{Category: 0.9, Urgency: 0.8},
		Status:              StatusOpen,
		Recipients:          []string{"Maintenance Team", "Plumbing Vendor"},
		CreatedAt:           createdAt,
		UpdatedAt:           createdAt,
	}
}

func TestReportValidateValid(t *testing.T) {
	report := validReport()
	if err := report.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestReportValidateDefaultsStatus(t *testing.T) {
	report := validReport()
	report.Status = ""
	if err := report.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if report.Status != StatusOpen {
		t.Fatalf("status: got %q", report.Status)
	}
}

func TestReportValidateDefaultsUpdatedAt(t *testing.T) {
	report := validReport()
	report.UpdatedAt = time.Time{}
	if err := report.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !report.UpdatedAt.Equal(report.CreatedAt) {
		t.Fatalf("updated_at: got %v", report.UpdatedAt)
	}
}

func TestReportValidateAcceptsLongNote(t *testing.T) {
	report := validReport()
	report.NoteText = strings.Repeat("x", 4500)
	if err := report.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestReportValidateRequiresMetadata(t *testing.T) {
	report := validReport()
	report.UnitNumber = "   "
	if err := report.Validate(); err == nil {
		t.Fatal("expected error for missing unit number")
	}
}

func TestReportValidateRejectsUnsafeImagePath(t *testing.T) {
	for _, unsafe := range []string{"../outside.png", "/etc/passwd", "data/uploads/../../secret.png"} {
		report := validReport()
		report.ImagePath = unsafe
		if err := report.Validate(); err == nil {
			t.Fatalf("expected error for image path %q", unsafe)
		}
	}
}

func TestReportValidateAcceptsRelativeImagePath(t *testing.T) {
	report := validReport()
	report.ImagePath = "data/uploads/abc.png"
	report.ImageMime = "IMAGE/PNG"
	if err := report.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if report.ImageMime != "image/png" {
		t.Fatalf("mime not normalized: %q", report.ImageMime)
	}
}

func TestReportValidateRejectsUnknownMime(t *testing.T) {
	report := validReport()
	report.ImageMime = "image/gif"
	if err := report.Validate(); err == nil {
		t.Fatal("expected error for unsupported mime")
	}
}

func TestReportValidateSortsRecipients(t *testing.T) {
	report := validReport()
	report.Recipients = []string{"Plumbing Vendor", "Maintenance Team", "Plumbing Vendor"}
	if err := report.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if len(report.Recipients) != 2 || report.Recipients[0] != "Maintenance Team" {
		t.Fatalf("recipients: got %v", report.Recipients)
	}
}

func TestReportJSONRoundTrip(t *testing.T) {
	report := validReport()
	report.ExtractedEntities = ExtractedEntities{LocationTerms: []string{"kitchen"}}

	data, err := json.Marshal(report)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, field := range []string{`"report_id"`, `"property_name"`, `"raw_observations"`, `"extracted_entities"`} {
		if !strings.Contains(string(data), field) {
			t.Fatalf("serialized form missing %s: %s", field, data)
		}
	}

	var decoded Report
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.ReportID != report.ReportID || decoded.Category != report.Category {
		t.Fatalf("round trip mismatch: %+v", decoded)
	}
	if !decoded.CreatedAt.Equal(report.CreatedAt) {
		t.Fatalf("created_at mismatch: %v", decoded.CreatedAt)
	}
}

func TestReportWithStatusBumpsUpdatedAt(t *testing.T) {
	report := validReport()
	now := report.UpdatedAt.Add(2 * time.Hour)

	next := report.WithStatus(StatusResolved, now)
	if next.Status != StatusResolved {
		t.Fatalf("status: got %q", next.Status)
	}
	if !next.UpdatedAt.Equal(now) {
		t.Fatalf("updated_at: got %v", next.UpdatedAt)
	}
	if report.Status != StatusOpen {
		t.Fatalf("original mutated: %q", report.Status)
	}
}

func TestReportWithCommentDoesNotAliasOriginal(t *testing.T) {
	report := validReport()
	now := report.UpdatedAt.Add(time.Hour)

	comment, err := NewComment("Dana", "pm", "Vendor scheduled for Thursday.", now)
	if err != nil {
		t.Fatalf("new comment: %v", err)
	}

	next := report.WithComment(comment, now)
	if len(next.Comments) != 1 {
		t.Fatalf("comments: got %d", len(next.Comments))
	}
	if len(report.Comments) != 0 {
		t.Fatalf("original gained comments: %d", len(report.Comments))
	}
}
