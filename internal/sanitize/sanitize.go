// Package sanitize normalizes free-form user input before any other component
// touches it. Both functions are total: they never fail, they only clean.
package sanitize

import (
	"regexp"
	"strings"
)

const fallbackFilename = "upload"

const maxFilenameChars = 255

var (
	controlChars    = regexp.MustCompile(`[\x00-\x08\x0B-\x1F\x7F]`)
	horizontalRuns  = regexp.MustCompile(`[ \t]+`)
	excessiveBreaks = regexp.MustCompile(`\n{3,}`)
	unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)
)

// Text strips control characters, collapses runs of horizontal whitespace,
// collapses 3+ consecutive newlines to 2, trims, and truncates to maxChars
// (counted in runes).
func Text(text string, maxChars int) string {
	cleaned := controlChars.ReplaceAllString(text, " ")
	cleaned = horizontalRuns.ReplaceAllString(cleaned, " ")
	cleaned = excessiveBreaks.ReplaceAllString(cleaned, "\n\n")
	cleaned = strings.TrimSpace(cleaned)

	if maxChars >= 0 {
		if runes := []rune(cleaned); len(runes) > maxChars {
			cleaned = string(runes[:maxChars])
		}
	}
	return cleaned
}

// Filename replaces every character outside [A-Za-z0-9._-] with an underscore.
// Empty input yields a fixed placeholder name.
func Filename(name string) string {
	if name == "" {
		return fallbackFilename
	}

	sanitized := unsafeFileChars.ReplaceAllString(name, "_")
	if runes := []rune(sanitized); len(runes) > maxFilenameChars {
		sanitized = string(runes[:maxFilenameChars])
	}
	return sanitized
}
