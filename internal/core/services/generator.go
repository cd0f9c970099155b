package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/protolens-cli/internal/core/domain"
	"github.com/custodia-labs/protolens-cli/internal/core/ports/driven"
	"github.com/custodia-labs/protolens-cli/internal/logger"
)

// DocumentGenerator produces the final protocol document and optimised
// schedule through three strictly sequential stages: enhance the
// protocol, optimise the schedule, cross-validate the two. Each stage
// consumes the previous stage's output, so no concurrency applies.
type DocumentGenerator struct {
	caller driven.StructuredCaller

	// now is injectable for deterministic header timestamps in tests.
	now func() time.Time
}

// NewDocumentGenerator creates a document generator using the given caller.
func NewDocumentGenerator(caller driven.StructuredCaller) *DocumentGenerator {
	return &DocumentGenerator{caller: caller, now: time.Now}
}

// protocolSection is one numbered section of the enhanced protocol.
type protocolSection struct {
	Title       string `json:"title"`
	Content     string `json:"content"`
	Subsections []struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	} `json:"subsections"`
}

// enhanceResponse mirrors the enhanceProtocolSchema output.
type enhanceResponse struct {
	Version    string            `json:"version"`
	KeyChanges []string          `json:"keyChanges"`
	Sections   []protocolSection `json:"sections"`
}

// optimizeResponse mirrors the optimizeScheduleSchema output.
type optimizeResponse struct {
	Visits            []domain.ScheduleVisit `json:"visits"`
	OptimizationNotes []struct {
		Category string             `json:"category"`
		Note     string             `json:"note"`
		Impact   domain.ImpactLevel `json:"impact"`
	} `json:"optimizationNotes"`
}

// Generate runs the three stages and assembles the final documents.
// A failed cross-validation does not abort generation: the report is
// surfaced on the result so the caller can act on the issues.
func (g *DocumentGenerator) Generate(ctx context.Context, content string, selectedIDs []string, includeSchedule bool, analysis *domain.AnalysisResult) (*domain.FinalDocuments, error) {
	selected := analysis.SelectSuggestions(selectedIDs)

	logger.Section("Document generation")

	enhanced, err := g.enhanceProtocol(ctx, content, selected, analysis)
	if err != nil {
		return nil, fmt.Errorf("enhance protocol: %w", err)
	}

	schedule := analysis.StudySchedule
	if includeSchedule {
		schedule, err = g.optimizeSchedule(ctx, enhanced.Sections, analysis.StudySchedule, selected)
		if err != nil {
			return nil, fmt.Errorf("optimize schedule: %w", err)
		}
	}

	validation, err := g.crossValidate(ctx, enhanced.Sections, schedule)
	if err != nil {
		return nil, fmt.Errorf("cross-validate: %w", err)
	}
	if !validation.IsValid {
		logger.Warn("Cross-validation reported %d issue(s)", len(validation.Issues))
	}

	return &domain.FinalDocuments{
		Protocol:   g.formatProtocol(enhanced),
		Schedule:   schedule,
		Validation: *validation,
	}, nil
}

// enhanceProtocol is Stage A: rewrite the protocol into numbered
// sections, applying the selected suggestions.
func (g *DocumentGenerator) enhanceProtocol(ctx context.Context, content string, selected []domain.Suggestion, analysis *domain.AnalysisResult) (*enhanceResponse, error) {
	payload, err := json.Marshal(map[string]any{
		"originalContent":     content,
		"selectedSuggestions": selected,
		"analysis":            analysis,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal enhance payload: %w", err)
	}

	raw, err := g.caller.CallStructured(ctx, driven.StructuredRequest{
		System:  enhanceSystemPrompt,
		Payload: string(payload),
		Schema:  enhanceProtocolSchema(),
	})
	if err != nil {
		return nil, err
	}

	var resp enhanceResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("%w: enhanced protocol payload: %v", domain.ErrSchemaViolation, err)
	}
	return &resp, nil
}

// optimizeSchedule is Stage B: rework the merged schedule around the
// enhanced sections. The model's visit-level procedure arrays are
// authoritative for this stage; no per-visit reconciliation is applied.
func (g *DocumentGenerator) optimizeSchedule(ctx context.Context, sections []protocolSection, schedule domain.StudySchedule, selected []domain.Suggestion) (domain.StudySchedule, error) {
	payload, err := json.Marshal(map[string]any{
		"sections":            sections,
		"currentSchedule":     schedule,
		"selectedSuggestions": selected,
	})
	if err != nil {
		return domain.StudySchedule{}, fmt.Errorf("marshal optimize payload: %w", err)
	}

	raw, err := g.caller.CallStructured(ctx, driven.StructuredRequest{
		System:  optimizeSystemPrompt,
		Payload: string(payload),
		Schema:  optimizeScheduleSchema(),
	})
	if err != nil {
		return domain.StudySchedule{}, err
	}

	var resp optimizeResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return domain.StudySchedule{}, fmt.Errorf("%w: optimized schedule payload: %v", domain.ErrSchemaViolation, err)
	}

	for _, note := range resp.OptimizationNotes {
		logger.Debug("Schedule optimisation [%s/%s]: %s", note.Category, note.Impact, note.Note)
	}

	optimised := domain.StudySchedule{Visits: resp.Visits}
	optimised.RecomputeProcedures()
	return optimised, nil
}

// crossValidate is Stage C: check the generated sections against the
// schedule. The report's proposed updates are surfaced, not applied;
// deciding how to remediate belongs to the caller.
func (g *DocumentGenerator) crossValidate(ctx context.Context, sections []protocolSection, schedule domain.StudySchedule) (*domain.ValidationReport, error) {
	payload, err := json.Marshal(map[string]any{
		"sections": sections,
		"schedule": schedule,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal validation payload: %w", err)
	}

	raw, err := g.caller.CallStructured(ctx, driven.StructuredRequest{
		System:  validateSystemPrompt,
		Payload: string(payload),
		Schema:  crossValidateSchema(),
	})
	if err != nil {
		return nil, err
	}

	var report domain.ValidationReport
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil, fmt.Errorf("%w: validation payload: %v", domain.ErrSchemaViolation, err)
	}
	return &report, nil
}

// formatProtocol renders the enhanced sections deterministically:
// a metadata header, then "<n>. <title>" sections and "<n>.<m> <title>"
// subsections in input order.
func (g *DocumentGenerator) formatProtocol(enhanced *enhanceResponse) string {
	var b strings.Builder

	version := enhanced.Version
	if version == "" {
		version = "1.0"
	}
	fmt.Fprintf(&b, "Protocol Version: %s\n", version)
	fmt.Fprintf(&b, "Last Updated: %s\n", g.now().Format("2006-01-02"))
	if len(enhanced.KeyChanges) > 0 {
		b.WriteString("Key Changes:\n")
		for _, change := range enhanced.KeyChanges {
			fmt.Fprintf(&b, "- %s\n", change)
		}
	}
	b.WriteString("\n")

	for i, section := range enhanced.Sections {
		fmt.Fprintf(&b, "%d. %s\n\n%s\n\n", i+1, section.Title, section.Content)
		for j, sub := range section.Subsections {
			fmt.Fprintf(&b, "%d.%d %s\n\n%s\n\n", i+1, j+1, sub.Title, sub.Content)
		}
	}

	return strings.TrimSpace(b.String())
}
