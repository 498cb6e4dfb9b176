package issue

import (
	"fmt"
	"path"
	"sort"
	"strings"
	"time"
)

const maxRawObservationChars = 4000

var allowedImageMime = map[string]struct{}{
	"image/png":  {},
	"image/jpeg": {},
	"image/jpg":  {},
}

// NormalizeImageMime lowercases and trims a MIME value and reports whether it
// is one of the accepted image types.
func NormalizeImageMime(mime string) (string, bool) {
	normalized := strings.ToLower(strings.TrimSpace(mime))
	_, ok := allowedImageMime[normalized]
	return normalized, ok
}

// Report is the persisted issue record: the formatted issue plus identity,
// submission metadata, audit context, lifecycle status, comments, and
// routing output. JSON field names match the historical activity-log format.
type Report struct {
	ReportID            string            `json:"report_id"`
	Source              Source            `json:"source"`
	PropertyName        string            `json:"property_name"`
	Building            string            `json:"building"`
	UnitNumber          string            `json:"unit_number"`
	Area                string            `json:"area,omitempty"`
	NoteText            string            `json:"note_text,omitempty"`
	ImageFilename       string            `json:"image_filename,omitempty"`
	ImagePath           string            `json:"image_path,omitempty"`
	ImageMime           string            `json:"image_mime,omitempty"`
	RawObservations     string            `json:"raw_observations"`
	ReportedObservation string            `json:"reported_observation"`
	Issue               string            `json:"issue"`
	Urgency             Urgency           `json:"urgency"`
	Category            Category          `json:"category"`
	RecommendedAction   string            `json:"recommended_action"`
	ExtractedEntities   ExtractedEntities `json:"extracted_entities"`
	Confidence          ConfidenceScores  `json:"confidence"`
	NeedsFollowup       bool              `json:"needs_followup"`
	FollowupQuestions   []string          `json:"followup_questions"`
	PhotoObservation    string            `json:"photo_observation,omitempty"`
	Status              Status            `json:"status"`
	Comments            []Comment         `json:"comments"`
	Recipients          []string          `json:"recipients"`
	CreatedAt           time.Time         `json:"created_at"`
	UpdatedAt           time.Time         `json:"updated_at"`
}

// Validate normalizes and checks the full record. The store calls this on
// every replayed line; the orchestrator calls it before the first write.
func (r *Report) Validate() error {
	r.PropertyName = strings.TrimSpace(r.PropertyName)
	r.Building = strings.TrimSpace(r.Building)
	r.UnitNumber = strings.TrimSpace(r.UnitNumber)
	r.Area = strings.TrimSpace(r.Area)
	r.NoteText = strings.TrimSpace(r.NoteText)
	r.ImageFilename = strings.TrimSpace(r.ImageFilename)
	r.ImagePath = strings.TrimSpace(r.ImagePath)
	r.RawObservations = strings.TrimSpace(r.RawObservations)
	r.ReportedObservation = strings.TrimSpace(r.ReportedObservation)
	r.Issue = strings.TrimSpace(r.Issue)
	r.RecommendedAction = strings.TrimSpace(r.RecommendedAction)
	r.PhotoObservation = strings.TrimSpace(r.PhotoObservation)
	r.ExtractedEntities.normalize()
	r.FollowupQuestions = dedupeTerms(r.FollowupQuestions)
	r.Recipients = sortedRecipients(r.Recipients)

	if strings.TrimSpace(r.ReportID) == "" {
		return fmt.Errorf("report_id is required")
	}
	if r.Source == "" {
		return fmt.Errorf("%w: empty", ErrInvalidSource)
	}
	if err := checkTextLength("property_name", r.PropertyName, 1, 120); err != nil {
		return err
	}
	if err := checkTextLength("building", r.Building, 1, 120); err != nil {
		return err
	}
	if err := checkTextLength("unit_number", r.UnitNumber, 1, 30); err != nil {
		return err
	}
	if r.Area != "" {
		if err := checkTextLength("area", r.Area, 0, 120); err != nil {
			return err
		}
	}
	// note_text carries no upper bound here: the orchestrator truncates it to
	// the configured input limit at intake, and that limit is an operator
	// setting the domain must not second-guess.
	if err := r.validateImageFields(); err != nil {
		return err
	}
	if err := checkTextLength("raw_observations", r.RawObservations, 1, maxRawObservationChars); err != nil {
		return err
	}
	if err := checkTextLength("reported_observation", r.ReportedObservation, 3, 1000); err != nil {
		return err
	}
	if err := checkTextLength("issue", r.Issue, 3, 500); err != nil {
		return err
	}
	if err := checkTextLength("recommended_action", r.RecommendedAction, 3, 1200); err != nil {
		return err
	}
	if r.PhotoObservation != "" {
		if err := checkTextLength("photo_observation", r.PhotoObservation, 0, 500); err != nil {
			return err
		}
	}
	if r.Urgency == "" {
		return fmt.Errorf("%w: empty", ErrInvalidUrgency)
	}
	if r.Category == "" {
		return fmt.Errorf("%w: empty", ErrInvalidCategory)
	}
	if err := r.Confidence.validate(); err != nil {
		return err
	}
	if r.NeedsFollowup && len(r.FollowupQuestions) == 0 {
		return fmt.Errorf("followup_questions must be provided when needs_followup is true")
	}

	if r.Status == "" {
		r.Status = StatusOpen
	}
	if r.CreatedAt.IsZero() {
		return fmt.Errorf("created_at is required")
	}
	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = r.CreatedAt
	}
	return nil
}

func (r *Report) validateImageFields() error {
	if r.ImageFilename != "" {
		if err := checkTextLength("image_filename", r.ImageFilename, 0, 255); err != nil {
			return err
		}
	}
	if r.ImagePath != "" {
		if err := checkTextLength("image_path", r.ImagePath, 0, 500); err != nil {
			return err
		}
		clean := path.Clean(strings.ReplaceAll(r.ImagePath, "\\", "/"))
		if strings.HasPrefix(clean, "/") || clean == ".." || strings.HasPrefix(clean, "../") {
			return fmt.Errorf("image_path must be a safe relative path")
		}
	}
	if r.ImageMime != "" {
		normalized, ok := NormalizeImageMime(r.ImageMime)
		if !ok {
			return fmt.Errorf("image_mime must be one of image/png, image/jpeg, image/jpg")
		}
		r.ImageMime = normalized
	}
	return nil
}

func sortedRecipients(values []string) []string {
	out := dedupeTerms(values)
	sort.Strings(out)
	return out
}

// WithComment returns a copy with the comment appended and updated_at bumped.
func (r Report) WithComment(comment Comment, now time.Time) Report {
	next := r.Clone()
	next.Comments = append(next.Comments, comment)
	next.UpdatedAt = now.UTC()
	return next
}

// WithStatus returns a copy with the status replaced and updated_at bumped.
func (r Report) WithStatus(status Status, now time.Time) Report {
	next := r.Clone()
	next.Status = status
	next.UpdatedAt = now.UTC()
	return next
}

// Clone deep-copies the record so callers can never alias store-held slices.
func (r Report) Clone() Report {
	next := r
	next.Comments = append([]Comment(nil), r.Comments...)
	next.Recipients = append([]string(nil), r.Recipients...)
	next.FollowupQuestions = append([]string(nil), r.FollowupQuestions...)
	next.ExtractedEntities = ExtractedEntities{
		LocationTerms: append([]string(nil), r.ExtractedEntities.LocationTerms...),
		PeopleTerms:   append([]string(nil), r.ExtractedEntities.PeopleTerms...),
		AssetTerms:    append([]string(nil), r.ExtractedEntities.AssetTerms...),
		AnimalTerms:   append([]string(nil), r.ExtractedEntities.AnimalTerms...),
		QuantityTerms: append([]string(nil), r.ExtractedEntities.QuantityTerms...),
	}
	return next
}
