package issue

import (
	"encoding/json"
	"fmt"
	"strings"
)

// The closed sets below are the only values admitted into typed fields.
// Each Parse function is a two-stage parse: case-insensitive lookup into the
// known variants, then a typed error for anything unrecognized. The raw
// string never leaks into a typed field.

type Source string

const (
	SourceNote  Source = "note"
	SourcePhoto Source = "photo"
)

var sourceByName = map[string]Source{
	"note":  SourceNote,
	"photo": SourcePhoto,
}

func ParseSource(value string) (Source, error) {
	if s, ok := sourceByName[strings.ToLower(strings.TrimSpace(value))]; ok {
		return s, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSource, value)
}

func (s *Source) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, s, ParseSource)
}

type Urgency string

const (
	UrgencyHigh    Urgency = "High"
	UrgencyMedium  Urgency = "Medium"
	UrgencyLow     Urgency = "Low"
	UrgencyUnknown Urgency = "Unknown"
)

var urgencyByName = map[string]Urgency{
	"high":    UrgencyHigh,
	"medium":  UrgencyMedium,
	"low":     UrgencyLow,
	"unknown": UrgencyUnknown,
}

func ParseUrgency(value string) (Urgency, error) {
	if u, ok := urgencyByName[strings.ToLower(strings.TrimSpace(value))]; ok {
		return u, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidUrgency, value)
}

func (u *Urgency) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, u, ParseUrgency)
}

type Category string

const (
	CategorySafety     Category = "Safety"
	CategoryPlumbing   Category = "Plumbing"
	CategoryElectrical Category = "Electrical"
	CategoryHVAC       Category = "HVAC"
	CategoryAppliance  Category = "Appliance"
	CategoryCosmetic   Category = "Cosmetic"
	CategoryGeneral    Category = "General"
	CategoryUnknown    Category = "Unknown"
)

var categoryByName = map[string]Category{
	"safety":     CategorySafety,
	"plumbing":   CategoryPlumbing,
	"electrical": CategoryElectrical,
	"hvac":       CategoryHVAC,
	"appliance":  CategoryAppliance,
	"cosmetic":   CategoryCosmetic,
	"general":    CategoryGeneral,
	"unknown":    CategoryUnknown,
}

func ParseCategory(value string) (Category, error) {
	if c, ok := categoryByName[strings.ToLower(strings.TrimSpace(value))]; ok {
		return c, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCategory, value)
}

func (c *Category) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, c, ParseCategory)
}

type Status string

const (
	StatusOpen         Status = "OPEN"
	StatusAcknowledged Status = "ACKNOWLEDGED"
	StatusInProgress   Status = "IN_PROGRESS"
	StatusMonitoring   Status = "MONITORING"
	StatusResolved     Status = "RESOLVED"
)

var statusByName = map[string]Status{
	"open":         StatusOpen,
	"acknowledged": StatusAcknowledged,
	"in_progress":  StatusInProgress,
	"monitoring":   StatusMonitoring,
	"resolved":     StatusResolved,
}

func ParseStatus(value string) (Status, error) {
	if s, ok := statusByName[strings.ToLower(strings.TrimSpace(value))]; ok {
		return s, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, value)
}

func (s *Status) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, s, ParseStatus)
}

// Statuses lists every lifecycle status in workflow order.
func Statuses() []Status {
	return []Status{StatusOpen, StatusAcknowledged, StatusInProgress, StatusMonitoring, StatusResolved}
}

type AuthorRole string

const (
	RoleLeasing     AuthorRole = "Leasing"
	RoleMaintenance AuthorRole = "Maintenance"
	RoleSafety      AuthorRole = "Safety"
	RolePM          AuthorRole = "PM"
	RoleVendor      AuthorRole = "Vendor"
	RoleOther       AuthorRole = "Other"
)

var authorRoleByName = map[string]AuthorRole{
	"leasing":     RoleLeasing,
	"maintenance": RoleMaintenance,
	"safety":      RoleSafety,
	"pm":          RolePM,
	"vendor":      RoleVendor,
	"other":       RoleOther,
}

func ParseAuthorRole(value string) (AuthorRole, error) {
	if r, ok := authorRoleByName[strings.ToLower(strings.TrimSpace(value))]; ok {
		return r, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidAuthorRole, value)
}

func (r *AuthorRole) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, r, ParseAuthorRole)
}

// AuthorRoles lists the closed set of comment author roles.
func AuthorRoles() []AuthorRole {
	return []AuthorRole{RoleLeasing, RoleMaintenance, RoleSafety, RolePM, RoleVendor, RoleOther}
}

func unmarshalEnum[T ~string](data []byte, dst *T, parse func(string) (T, error)) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := parse(raw)
	if err != nil {
		return err
	}
	*dst = parsed
	return nil
}
