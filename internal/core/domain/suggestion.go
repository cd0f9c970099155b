package domain

// SuggestionType classifies what kind of finding a suggestion is.
type SuggestionType string

// Available suggestion types.
const (
	// SuggestionImprovement proposes a change that would improve the protocol.
	SuggestionImprovement SuggestionType = "improvement"

	// SuggestionWarning flags a potential problem in the protocol.
	SuggestionWarning SuggestionType = "warning"

	// SuggestionValidation confirms an aspect of the protocol is sound.
	SuggestionValidation SuggestionType = "validation"
)

// IsValid returns true if the suggestion type is recognised.
func (t SuggestionType) IsValid() bool {
	switch t {
	case SuggestionImprovement, SuggestionWarning, SuggestionValidation:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (t SuggestionType) String() string {
	return string(t)
}

// ImpactLevel grades how much a suggestion matters.
type ImpactLevel string

// Available impact levels.
const (
	// ImpactHigh marks suggestions that should be addressed first.
	ImpactHigh ImpactLevel = "high"

	// ImpactMedium marks suggestions of moderate importance.
	ImpactMedium ImpactLevel = "medium"

	// ImpactLow marks minor suggestions.
	ImpactLow ImpactLevel = "low"
)

// Rank returns the sort rank of the impact level. Lower sorts first.
// Unrecognised levels sort last.
func (l ImpactLevel) Rank() int {
	switch l {
	case ImpactHigh:
		return 0
	case ImpactMedium:
		return 1
	case ImpactLow:
		return 2
	default:
		return 3
	}
}

// String returns the string representation.
func (l ImpactLevel) String() string {
	return string(l)
}

// Suggestion categories derived by keyword classification.
const (
	CategorySafety     = "safety"
	CategoryEfficiency = "efficiency"
	CategoryCompliance = "compliance"
	CategoryQuality    = "quality"
	CategoryDesign     = "design"
	CategoryGeneral    = "general"
)

// Suggestion is a single AI-generated recommendation about the protocol.
// Suggestions are created per chunk during analysis and survive into the
// aggregated result only if they are not near-duplicates of an already
// accepted suggestion.
type Suggestion struct {
	// ID is the unique identifier, generated fresh and never reused.
	ID string `json:"id"`

	// Type classifies the finding.
	Type SuggestionType `json:"type"`

	// Impact grades the importance.
	Impact ImpactLevel `json:"impact"`

	// Message describes the finding.
	Message string `json:"message"`

	// Recommendation describes the proposed action.
	Recommendation string `json:"recommendation"`

	// Section is the name of the chunk that produced the suggestion.
	Section string `json:"section"`

	// Category is derived by keyword classification of message and
	// recommendation text.
	Category string `json:"category"`

	// AutoFixAvailable is true when the raw suggestion kind is one the
	// form designer can apply mechanically.
	AutoFixAvailable bool `json:"autoFixAvailable"`
}
