package issue

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// AIFormattedIssue is the schema-validated output of the text-generation
// call. It never reaches the store directly; the orchestrator folds it into a
// Report.
type AIFormattedIssue struct {
	Issue               string            `json:"issue"`
	ReportedObservation string            `json:"reported_observation"`
	Urgency             Urgency           `json:"urgency"`
	Category            Category          `json:"category"`
	RecommendedAction   string            `json:"recommended_action"`
	ExtractedEntities   ExtractedEntities `json:"extracted_entities"`
	Confidence          ConfidenceScores  `json:"confidence"`
	NeedsFollowup       bool              `json:"needs_followup"`
	FollowupQuestions   []string          `json:"followup_questions"`
	PhotoObservation    string            `json:"photo_observation,omitempty"`
}

var formattedIssueKeys = map[string]struct{}{
	"issue":                {},
	"reported_observation": {},
	"urgency":              {},
	"category":             {},
	"recommended_action":   {},
	"extracted_entities":   {},
	"confidence":           {},
	"needs_followup":       {},
	"followup_questions":   {},
	"photo_observation":    {},
}

var requiredFormattedIssueKeys = []string{
	"issue",
	"reported_observation",
	"urgency",
	"category",
	"recommended_action",
	"confidence",
}

// ParseAIFormattedIssue strictly decodes and validates a formatted-issue
// payload. Unknown keys, missing required keys, wrong types, out-of-range
// confidence, and the followup invariant all fail the parse.
func ParseAIFormattedIssue(data []byte) (AIFormattedIssue, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return AIFormattedIssue{}, fmt.Errorf("payload is not a JSON object: %w", err)
	}

	for key := range raw {
		if _, ok := formattedIssueKeys[key]; !ok {
			return AIFormattedIssue{}, fmt.Errorf("unexpected key %q in formatted issue payload", key)
		}
	}
	for _, key := range requiredFormattedIssueKeys {
		if _, ok := raw[key]; !ok {
			return AIFormattedIssue{}, fmt.Errorf("missing required key %q in formatted issue payload", key)
		}
	}

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()

	var formatted AIFormattedIssue
	if err := decoder.Decode(&formatted); err != nil {
		return AIFormattedIssue{}, fmt.Errorf("decode formatted issue payload: %w", err)
	}
	if err := formatted.Validate(); err != nil {
		return AIFormattedIssue{}, err
	}
	return formatted, nil
}

// Validate normalizes free text and entity lists, then enforces every field
// rule including the followup-question invariant.
func (f *AIFormattedIssue) Validate() error {
	f.Issue = strings.TrimSpace(f.Issue)
	f.ReportedObservation = strings.TrimSpace(f.ReportedObservation)
	f.RecommendedAction = strings.TrimSpace(f.RecommendedAction)
	f.PhotoObservation = strings.TrimSpace(f.PhotoObservation)
	f.ExtractedEntities.normalize()
	f.FollowupQuestions = dedupeTerms(f.FollowupQuestions)

	if err := checkTextLength("issue", f.Issue, 3, 500); err != nil {
		return err
	}
	if err := checkTextLength("reported_observation", f.ReportedObservation, 3, 1000); err != nil {
		return err
	}
	if err := checkTextLength("recommended_action", f.RecommendedAction, 3, 1200); err != nil {
		return err
	}
	if f.PhotoObservation != "" {
		if err := checkTextLength("photo_observation", f.PhotoObservation, 0, 500); err != nil {
			return err
		}
	}

	if f.Urgency == "" {
		return fmt.Errorf("%w: empty", ErrInvalidUrgency)
	}
	if f.Category == "" {
		return fmt.Errorf("%w: empty", ErrInvalidCategory)
	}
	if err := f.Confidence.validate(); err != nil {
		return err
	}

	if f.NeedsFollowup && len(f.FollowupQuestions) == 0 {
		return fmt.Errorf("followup_questions must be provided when needs_followup is true")
	}
	return nil
}

func checkTextLength(field string, value string, minChars int, maxChars int) error {
	n := len([]rune(value))
	if n < minChars || n > maxChars {
		return fmt.Errorf("%s must be %d-%d characters, got %d", field, minChars, maxChars, n)
	}
	return nil
}
