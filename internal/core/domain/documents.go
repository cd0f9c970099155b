package domain

// ValidationIssue is a single inconsistency reported by cross-validation.
type ValidationIssue struct {
	// Type is the issue kind reported by the model.
	Type string `json:"type"`

	// Description explains the inconsistency.
	Description string `json:"description"`

	// Recommendation describes how to resolve it.
	Recommendation string `json:"recommendation"`

	// Severity grades the issue.
	Severity ImpactLevel `json:"severity"`
}

// ValidationReport is the outcome of cross-validating the generated
// protocol against the optimised schedule.
//
// A failed validation does not block generation: the issues and the
// model's proposed updates are surfaced to the caller instead of being
// applied blindly or silently dropped.
type ValidationReport struct {
	// IsValid is true when protocol and schedule are consistent.
	IsValid bool `json:"isValid"`

	// Issues lists the detected inconsistencies.
	Issues []ValidationIssue `json:"issues,omitempty"`

	// ProtocolUpdates are proposed amendments to the protocol text.
	ProtocolUpdates []string `json:"protocolUpdates,omitempty"`

	// ScheduleUpdates are proposed amendments to the schedule.
	ScheduleUpdates []string `json:"scheduleUpdates,omitempty"`
}

// FinalDocuments is the output of document generation. It is independent
// of the AnalysisResult that seeded it; no back-reference is kept.
type FinalDocuments struct {
	// Protocol is the formatted protocol text with section numbering.
	Protocol string `json:"protocol"`

	// Schedule is the optimised schedule, or the analysis schedule
	// unchanged when schedule optimisation was not requested.
	Schedule StudySchedule `json:"schedule"`

	// Validation is the cross-validation outcome.
	Validation ValidationReport `json:"validation"`
}
