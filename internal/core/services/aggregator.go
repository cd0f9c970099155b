package services

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/protolens-cli/internal/core/domain"
	"github.com/custodia-labs/protolens-cli/internal/logger"
)

// duplicateThreshold is the word-set Jaccard similarity above which two
// suggestions are considered the same finding.
const duplicateThreshold = 0.7

// autoFixTypes is the closed whitelist of raw suggestion kinds the form
// designer can apply mechanically.
var autoFixTypes = map[string]struct{}{
	"formatting":      {},
	"terminology":     {},
	"standardization": {},
}

// categoryKeywords drives suggestion classification. Categories are
// tested in order; the first whose keywords appear in the message or
// recommendation wins.
var categoryKeywords = []struct {
	category string
	keywords []string
}{
	{domain.CategorySafety, []string{"safety", "adverse", "risk", "harm", "toxicity"}},
	{domain.CategoryEfficiency, []string{"efficien", "streamlin", "burden", "redundan", "duration"}},
	{domain.CategoryCompliance, []string{"complian", "regulat", "gcp", "ich", "consent"}},
	{domain.CategoryQuality, []string{"quality", "complete", "accura", "consisten", "missing"}},
	{domain.CategoryDesign, []string{"design", "endpoint", "randomi", "blind", "arm"}},
}

// Aggregator folds per-chunk analyses into one consistent result:
// arithmetic-mean metric folding, near-duplicate suggestion removal,
// and schedule merging with consistency checks.
type Aggregator struct {
	fallback MetricFallback
}

// NewAggregator creates an aggregator. A nil fallback selects the
// deterministic MidpointFallback.
func NewAggregator(fallback MetricFallback) *Aggregator {
	if fallback == nil {
		fallback = MidpointFallback{}
	}
	return &Aggregator{fallback: fallback}
}

// Aggregate folds the chunk analyses, in input order, into a single
// AnalysisResult.
func (a *Aggregator) Aggregate(analyses []domain.ChunkAnalysis) *domain.AnalysisResult {
	result := &domain.AnalysisResult{
		Suggestions:    make([]domain.Suggestion, 0),
		SectionMetrics: make(map[string]domain.SectionMetrics, len(analyses)),
	}

	a.foldMetrics(analyses, result)

	for _, analysis := range analyses {
		a.assembleSuggestions(analysis, result)
		a.mergeSchedule(analysis, result)
	}

	result.StudySchedule.RecomputeProcedures()

	// Stable, so equal-impact suggestions keep their arrival order.
	sort.SliceStable(result.Suggestions, func(i, j int) bool {
		return result.Suggestions[i].Impact.Rank() < result.Suggestions[j].Impact.Rank()
	})

	return result
}

// foldMetrics accumulates each metric as sum(value/totalChunks) - an
// arithmetic mean across chunks, not weighted by chunk length. Any
// metric field absent from a chunk's analysis takes the fallback
// strategy's value for that field instead of zero.
func (a *Aggregator) foldMetrics(analyses []domain.ChunkAnalysis, result *domain.AnalysisResult) {
	total := float64(len(analyses))
	if total == 0 {
		return
	}

	for _, analysis := range analyses {
		var substitute domain.SectionMetrics
		if !analysis.Metrics.Complete() {
			substitute = a.fallback.Metrics()
			logger.Debug("Metrics incomplete for %s, substituting absent fields", analysis.Section)
		}

		section := analysis.Metrics.Resolve(substitute)
		section.Clamp()
		result.SectionMetrics[analysis.Section] = section

		result.Metrics.Complexity += section.Complexity / total
		result.Metrics.Completeness += section.Completeness / total
		result.Metrics.Efficiency += section.Efficiency / total
	}

	result.Metrics.Clamp()
}

// assembleSuggestions appends the analysis's suggestions that are not
// near-duplicates of an already accepted one. Quadratic in the number of
// suggestions, which stays in the tens at protocol scale.
func (a *Aggregator) assembleSuggestions(analysis domain.ChunkAnalysis, result *domain.AnalysisResult) {
	for _, raw := range analysis.Suggestions {
		if isDuplicate(raw, result.Suggestions) {
			logger.Debug("Dropping near-duplicate suggestion from %s", analysis.Section)
			continue
		}

		result.Suggestions = append(result.Suggestions, domain.Suggestion{
			ID:               uuid.New().String(),
			Type:             normaliseType(raw.Type),
			Impact:           raw.Impact,
			Message:          raw.Message,
			Recommendation:   raw.Recommendation,
			Section:          analysis.Section,
			Category:         classifyCategory(raw.Message, raw.Recommendation),
			AutoFixAvailable: autoFixAvailable(raw.Type),
		})
	}
}

// mergeSchedule merges the analysis's schedule elements into the result,
// keyed by visit name and then by procedure name.
func (a *Aggregator) mergeSchedule(analysis domain.ChunkAnalysis, result *domain.AnalysisResult) {
	for _, element := range analysis.ScheduleElements {
		visit := result.StudySchedule.FindVisit(element.VisitName)
		if visit == nil {
			result.StudySchedule.Visits = append(result.StudySchedule.Visits, domain.ScheduleVisit{
				Name:   element.VisitName,
				Window: domain.ValidateWindow(element.Window),
			})
			visit = &result.StudySchedule.Visits[len(result.StudySchedule.Visits)-1]
		}

		for _, name := range element.Procedures {
			if name == "" || visit.HasProcedure(name) {
				continue
			}
			visit.Procedures = append(visit.Procedures, domain.Procedure{
				Name:     name,
				Required: true,
				Notes:    domain.AnnotateProcedure(name),
			})
		}
	}
}

// isDuplicate reports whether the candidate's message or recommendation
// is too similar to any accepted suggestion's same field.
func isDuplicate(candidate domain.RawSuggestion, accepted []domain.Suggestion) bool {
	for _, s := range accepted {
		if jaccard(candidate.Message, s.Message) > duplicateThreshold {
			return true
		}
		if jaccard(candidate.Recommendation, s.Recommendation) > duplicateThreshold {
			return true
		}
	}
	return false
}

// jaccard computes |A∩B| / |A∪B| over lowercased word sets.
func jaccard(a, b string) float64 {
	setA := wordSet(a)
	setB := wordSet(b)
	if len(setA) == 0 && len(setB) == 0 {
		return 0
	}

	intersection := 0
	for w := range setA {
		if _, ok := setB[w]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// wordSet tokenises text into a lowercase word set, splitting on
// whitespace and punctuation.
func wordSet(text string) map[string]struct{} {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// classifyCategory tests the keyword table against message and
// recommendation. First matching category wins.
func classifyCategory(message, recommendation string) string {
	text := strings.ToLower(message + " " + recommendation)
	for _, entry := range categoryKeywords {
		for _, keyword := range entry.keywords {
			if strings.Contains(text, keyword) {
				return entry.category
			}
		}
	}
	return domain.CategoryGeneral
}

// autoFixAvailable checks the raw suggestion kind against the whitelist.
func autoFixAvailable(rawType string) bool {
	_, ok := autoFixTypes[strings.ToLower(rawType)]
	return ok
}

// normaliseType maps the model's free-form suggestion kind onto the
// closed SuggestionType set. Kinds outside the set (formatting,
// terminology, ...) are improvements by nature.
func normaliseType(rawType string) domain.SuggestionType {
	t := domain.SuggestionType(strings.ToLower(rawType))
	if t.IsValid() {
		return t
	}
	return domain.SuggestionImprovement
}
