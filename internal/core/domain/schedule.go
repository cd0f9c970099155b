package domain

import (
	"regexp"
	"sort"
	"strings"
)

// windowPattern matches visit window offsets such as "+7d", "-2w", "14".
var windowPattern = regexp.MustCompile(`^[+-]?\d+[dDwWmM]?$`)

// NeedsReviewSuffix marks a visit window that failed validation.
// Non-conforming windows are kept, never rejected.
const NeedsReviewSuffix = " (needs review)"

// ValidateWindow returns the window unchanged when it matches the offset
// pattern, or annotated with NeedsReviewSuffix when it does not.
func ValidateWindow(window string) string {
	if windowPattern.MatchString(window) {
		return window
	}
	return window + NeedsReviewSuffix
}

// Procedure annotations for the closed rule table below.
const (
	AnnotationCritical = "Critical procedure - requires documentation"
	AnnotationSafety   = "Safety assessment - follow protocol guidelines"
)

// procedureAnnotations is a closed, extensible lookup table keyed by
// lowercased procedure name.
var procedureAnnotations = map[string]string{
	"informed consent":        AnnotationCritical,
	"eligibility":             AnnotationCritical,
	"randomization":           AnnotationCritical,
	"vital signs":             AnnotationSafety,
	"adverse events":          AnnotationSafety,
	"concomitant medications": AnnotationSafety,
}

// AnnotateProcedure returns the standard note for well-known procedure
// names, or empty string when the procedure has no annotation.
func AnnotateProcedure(name string) string {
	return procedureAnnotations[strings.ToLower(name)]
}

// Procedure is a named assessment performed at a visit.
type Procedure struct {
	// Name identifies the procedure within its visit.
	Name string `json:"name"`

	// Required is true when the procedure is mandatory at this visit.
	Required bool `json:"required"`

	// Notes carries the standard annotation, if any.
	Notes string `json:"notes,omitempty"`

	// Rationale is filled by schedule optimisation only.
	Rationale string `json:"rationale,omitempty"`
}

// ScheduleVisit is a named study timepoint with its procedures.
// Visits are keyed by name; procedures within a visit are keyed by name.
type ScheduleVisit struct {
	// Name identifies the visit within the schedule.
	Name string `json:"name"`

	// Window is the validated offset expression (e.g. "+7d").
	Window string `json:"window"`

	// Procedures is the ordered list of assessments at this visit.
	Procedures []Procedure `json:"procedures"`

	// Rationale is filled by schedule optimisation only.
	Rationale string `json:"rationale,omitempty"`
}

// HasProcedure reports whether the visit already carries a procedure
// with the given name.
func (v ScheduleVisit) HasProcedure(name string) bool {
	for _, p := range v.Procedures {
		if p.Name == name {
			return true
		}
	}
	return false
}

// StudySchedule is the merged visit schedule.
//
// Invariant: Procedures is always exactly the sorted set of distinct
// procedure names across Visits - no orphans, no omissions.
type StudySchedule struct {
	// Visits is the ordered list of merged visits.
	Visits []ScheduleVisit `json:"visits"`

	// Procedures is the flattened unique procedure-name list.
	Procedures []string `json:"procedures"`
}

// RecomputeProcedures rebuilds the flattened procedure list as the
// sorted set union of all procedure names across all visits.
func (s *StudySchedule) RecomputeProcedures() {
	seen := make(map[string]struct{})
	names := make([]string, 0)
	for _, v := range s.Visits {
		for _, p := range v.Procedures {
			if _, ok := seen[p.Name]; ok {
				continue
			}
			seen[p.Name] = struct{}{}
			names = append(names, p.Name)
		}
	}
	sort.Strings(names)
	s.Procedures = names
}

// FindVisit returns a pointer to the visit with the given name, or nil.
func (s *StudySchedule) FindVisit(name string) *ScheduleVisit {
	for i := range s.Visits {
		if s.Visits[i].Name == name {
			return &s.Visits[i]
		}
	}
	return nil
}
