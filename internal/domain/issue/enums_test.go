package issue

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseSourceCaseInsensitive(t *testing.T) {
	for _, value := range []string{"note", "NOTE", " Note "} {
		source, err := ParseSource(value)
		if err != nil {
			t.Fatalf("parse %q: %v", value, err)
		}
		if source != SourceNote {
			t.Fatalf("parse %q: got %q", value, source)
		}
	}
}

func TestParseSourceRejectsUnknown(t *testing.T) {
	if _, err := ParseSource("email"); !errors.Is(err, ErrInvalidSource) {
		t.Fatalf("expected ErrInvalidSource, got %v", err)
	}
}

func TestParseUrgencyCanonicalizesCase(t *testing.T) {
	urgency, err := ParseUrgency("HIGH")
	if err != nil {
		t.Fatalf("parse urgency: %v", err)
	}
	if urgency != UrgencyHigh {
		t.Fatalf("got %q", urgency)
	}
}

func TestParseUrgencyRejectsNearMiss(t *testing.T) {
	if _, err := ParseUrgency("urgent"); !errors.Is(err, ErrInvalidUrgency) {
		t.Fatalf("expected ErrInvalidUrgency, got %v", err)
	}
}

func TestParseCategoryRejectsUnknownVariant(t *testing.T) {
	if _, err := ParseCategory("Roofing"); !errors.Is(err, ErrInvalidCategory) {
		t.Fatalf("expected ErrInvalidCategory, got %v", err)
	}
}

func TestParseStatusCaseInsensitive(t *testing.T) {
	status, err := ParseStatus("in_progress")
	if err != nil {
		t.Fatalf("parse status: %v", err)
	}
	if status != StatusInProgress {
		t.Fatalf("got %q", status)
	}
}

func TestParseAuthorRoleRejectsUnknown(t *testing.T) {
	if _, err := ParseAuthorRole("Janitor"); !errors.Is(err, ErrInvalidAuthorRole) {
		t.Fatalf("expected ErrInvalidAuthorRole, got %v", err)
	}
}

func TestUnmarshalEnumCanonicalizes(t *testing.T) {
	var urgency Urgency
	if err := json.Unmarshal([]byte(`"medium"`), &urgency); err != nil {
		t.Fatalf("unmarshal urgency: %v", err)
	}
	if urgency != UrgencyMedium {
		t.Fatalf("got %q", urgency)
	}
}

func TestUnmarshalEnumRejectsInvalid(t *testing.T) {
	var category Category
	if err := json.Unmarshal([]byte(`"urgent"`), &category); !errors.Is(err, ErrInvalidCategory) {
		t.Fatalf("expected ErrInvalidCategory, got %v", err)
	}
}
