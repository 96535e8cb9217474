package placement

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Canonical company statuses.
const (
	StatusCompleted = "Completed"
	StatusOngoing   = "On-going"
	StatusOnHold    = "On-Hold"
	StatusCancelled = "Cancelled"
)

// Canonical campus types.
const (
	CampusOn  = "On Campus"
	CampusOff = "Off Campus"
)

// statusSynonyms is the one table consulted for every status comparison.
var statusSynonyms = map[string]string{
	"completed": StatusCompleted,
	"complete":  StatusCompleted,
	"on-going":  StatusOngoing,
	"ongoing":   StatusOngoing,
	"on going":  StatusOngoing,
	"on-hold":   StatusOnHold,
	"on hold":   StatusOnHold,
	"cancelled": StatusCancelled,
	"canceled":  StatusCancelled,
}

// statusPrecedence orders the canonical statuses for company collapsing.
var statusPrecedence = []string{StatusCompleted, StatusOngoing, StatusOnHold, StatusCancelled}

// CanonicalStatus maps a raw status onto its canonical tag. Unknown values are
// title-cased so they still group consistently.
func CanonicalStatus(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	if tag, ok := statusSynonyms[strings.ToLower(trimmed)]; ok {
		return tag
	}
	return titleCase(trimmed)
}

// IsKnownStatus reports whether raw maps to one of the canonical statuses.
func IsKnownStatus(raw string) bool {
	_, ok := statusSynonyms[strings.ToLower(strings.TrimSpace(raw))]
	return ok
}

// IsCompleted reports whether raw is a Completed synonym.
func IsCompleted(raw string) bool { return CanonicalStatus(raw) == StatusCompleted }

// IsOngoing reports whether raw is an On-going synonym.
func IsOngoing(raw string) bool { return CanonicalStatus(raw) == StatusOngoing }

// CanonicalCampus maps campus type variants onto On Campus / Off Campus.
func CanonicalCampus(raw string) string {
	trimmed := strings.TrimSpace(raw)
	lower := strings.ToLower(trimmed)
	switch {
	case lower == "":
		return ""
	case strings.Join(strings.Fields(lower), " ") == "on campus":
		return CampusOn
	case strings.Contains(lower, "off") && strings.Contains(lower, "campus"):
		return CampusOff
	default:
		return trimmed
	}
}

// IsOnCampus reports whether raw is exactly an "on campus" variant. Everything
// else, blanks included, is treated as off campus by the dashboards.
func IsOnCampus(raw string) bool { return CanonicalCampus(raw) == CampusOn }

// titleCase collapses whitespace and capitalises every word, where words are
// split on any non-letter boundary ("pre-placement talk" -> "Pre-Placement Talk").
// A Caser keeps state, so one is built per call.
func titleCase(s string) string {
	return cases.Title(language.Und).String(strings.Join(strings.Fields(s), " "))
}
