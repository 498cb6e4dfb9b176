package sanitize

import (
	"strings"
	"testing"
)

func TestTextStripsControlCharacters(t *testing.T) {
	got := Text("leak\x00under\x07sink", 100)
	if got != "leak under sink" {
		t.Fatalf("unexpected result: %q", got)
	}
}

func TestTextCollapsesWhitespace(t *testing.T) {
	got := Text("water   heater\t\tleaking", 100)
	if got != "water heater leaking" {
		t.Fatalf("unexpected result: %q", got)
	}
}

func TestTextCollapsesExcessiveNewlines(t *testing.T) {
	got := Text("first\n\n\n\n\nsecond", 100)
	if got != "first\n\nsecond" {
		t.Fatalf("unexpected result: %q", got)
	}
}

func TestTextKeepsDoubleNewline(t *testing.T) {
	got := Text("first\n\nsecond", 100)
	if got != "first\n\nsecond" {
		t.Fatalf("unexpected result: %q", got)
	}
}

func TestTextTruncatesByRunes(t *testing.T) {
	got := Text(strings.Repeat("é", 10), 4)
	if got != "éééé" {
		t.Fatalf("unexpected result: %q", got)
	}
}

func TestTextTrims(t *testing.T) {
	if got := Text("   note   ", 100); got != "note" {
		t.Fatalf("unexpected result: %q", got)
	}
}

func TestFilenameReplacesUnsafeCharacters(t *testing.T) {
	got := Filename("../etc/pass wd.png")
	if got != ".._etc_pass_wd.png" {
		t.Fatalf("unexpected result: %q", got)
	}
	if strings.ContainsAny(got, "/\\ ") {
		t.Fatalf("unsafe characters survived: %q", got)
	}
}

func TestFilenameEmptyFallsBack(t *testing.T) {
	if got := Filename(""); got != "upload" {
		t.Fatalf("unexpected result: %q", got)
	}
}

func TestFilenameTruncates(t *testing.T) {
	got := Filename(strings.Repeat("a", 300))
	if len(got) != 255 {
		t.Fatalf("expected 255 characters, got %d", len(got))
	}
}
