package issue

import (
	"fmt"
	"strings"
)

// ExtractedEntities groups the terms the formatting call pulled out of a
// submission. Each list is deduplicated and keeps first-occurrence order.
type ExtractedEntities struct {
	LocationTerms []string `json:"location_terms"`
	PeopleTerms   []string `json:"people_terms"`
	AssetTerms    []string `json:"asset_terms"`
	AnimalTerms   []string `json:"animal_terms"`
	QuantityTerms []string `json:"quantity_terms"`
}

func (e *ExtractedEntities) normalize() {
	e.LocationTerms = dedupeTerms(e.LocationTerms)
	e.PeopleTerms = dedupeTerms(e.PeopleTerms)
	e.AssetTerms = dedupeTerms(e.AssetTerms)
	e.AnimalTerms = dedupeTerms(e.AnimalTerms)
	e.QuantityTerms = dedupeTerms(e.QuantityTerms)
}

// dedupeTerms trims, drops empties, and keeps the first occurrence of each
// term.
func dedupeTerms(terms []string) []string {
	out := make([]string, 0, len(terms))
	seen := make(map[string]struct{}, len(terms))
	for _, term := range terms {
		cleaned := strings.TrimSpace(term)
		if cleaned == "" {
			continue
		}
		if _, ok := seen[cleaned]; ok {
			continue
		}
		seen[cleaned] = struct{}{}
		out = append(out, cleaned)
	}
	return out
}

// ConfidenceScores carries the classifier's self-reported confidence for the
// category and urgency assignments, each in [0.0, 1.0].
type ConfidenceScores struct {
	Category float64 `json:"category"`
	Urgency  float64 `json:"urgency"`
}

func (c ConfidenceScores) validate() error {
	if c.Category < 0.0 || c.Category > 1.0 {
		return fmt.Errorf("confidence.category must be between 0.0 and 1.0, got %v", c.Category)
	}
	if c.Urgency < 0.0 || c.Urgency > 1.0 {
		return fmt.Errorf("confidence.urgency must be between 0.0 and 1.0, got %v", c.Urgency)
	}
	return nil
}

// Metadata identifies where an issue was observed. Area is optional; empty
// optional fields normalize to absent.
type Metadata struct {
	PropertyName string
	Building     string
	UnitNumber   string
	Area         string
}

// Normalized returns a copy with every field trimmed.
func (m Metadata) Normalized() Metadata {
	return Metadata{
		PropertyName: strings.TrimSpace(m.PropertyName),
		Building:     strings.TrimSpace(m.Building),
		UnitNumber:   strings.TrimSpace(m.UnitNumber),
		Area:         strings.TrimSpace(m.Area),
	}
}

// Complete reports whether the required identifying fields are present.
func (m Metadata) Complete() bool {
	return m.PropertyName != "" && m.Building != "" && m.UnitNumber != ""
}
