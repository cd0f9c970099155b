package domain

// ChunkAnalysis is the parsed output of analysing one protocol chunk.
// Every field comes straight from the model's structured payload; the
// aggregator owns all cross-chunk reconciliation.
type ChunkAnalysis struct {
	// Section is the name of the analysed chunk.
	Section string

	// Metrics holds the section scores. Any field the model omitted is
	// nil, including all three when the metrics object was absent.
	Metrics PartialMetrics

	// Suggestions are the raw per-chunk suggestions before deduplication.
	Suggestions []RawSuggestion

	// ScheduleElements are visit fragments extracted from the chunk.
	ScheduleElements []ScheduleElement
}

// RawSuggestion is a suggestion as returned by the model, before it is
// assigned an identity and classified by the aggregator.
type RawSuggestion struct {
	// Type is the model-reported suggestion kind. Free-form; well-known
	// values map onto SuggestionType and the auto-fix whitelist.
	Type string `json:"type"`

	// Impact is the model-reported importance.
	Impact ImpactLevel `json:"impact"`

	// Message describes the finding.
	Message string `json:"message"`

	// Recommendation describes the proposed action.
	Recommendation string `json:"recommendation"`
}

// ScheduleElement is a visit fragment extracted from one chunk.
type ScheduleElement struct {
	// VisitName identifies the visit the fragment belongs to.
	VisitName string `json:"visitName"`

	// Window is the raw offset expression as reported by the model.
	Window string `json:"window"`

	// Procedures are the procedure names observed for the visit.
	Procedures []string `json:"procedures"`
}

// AnalysisResult is the externally visible aggregate of a full protocol
// analysis. It is created once per analysis call and replaces any prior
// result in the caller's state.
type AnalysisResult struct {
	// Metrics is the combined score across all sections.
	Metrics SectionMetrics `json:"metrics"`

	// Suggestions is the deduplicated suggestion list, sorted by impact.
	Suggestions []Suggestion `json:"suggestions"`

	// StudySchedule is the merged visit schedule.
	StudySchedule StudySchedule `json:"studySchedule"`

	// SectionMetrics maps section name to that section's scores.
	SectionMetrics map[string]SectionMetrics `json:"sectionMetrics"`
}

// SuggestionByID returns the suggestion with the given id, or nil.
func (r *AnalysisResult) SuggestionByID(id string) *Suggestion {
	for i := range r.Suggestions {
		if r.Suggestions[i].ID == id {
			return &r.Suggestions[i]
		}
	}
	return nil
}

// SelectSuggestions returns the suggestions matching the given ids,
// preserving result order. Unknown ids are ignored.
func (r *AnalysisResult) SelectSuggestions(ids []string) []Suggestion {
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	selected := make([]Suggestion, 0, len(ids))
	for _, s := range r.Suggestions {
		if _, ok := want[s.ID]; ok {
			selected = append(selected, s)
		}
	}
	return selected
}
