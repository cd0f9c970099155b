package services

import (
	"github.com/custodia-labs/protolens-cli/internal/core/ports/driven"
)

// System instructions for each pipeline call.
const (
	analyzeSystemPrompt = `You are a clinical trial protocol analyst. You review one section of a
trial protocol at a time and report quality metrics, concrete suggestions,
and any visit schedule elements the section describes. Always respond by
calling the provided tool.`

	enhanceSystemPrompt = `You are a clinical trial protocol writer. Rewrite the protocol into
clear, well-structured numbered sections, applying the selected
suggestions. Always respond by calling the provided tool.`

	optimizeSystemPrompt = `You are a clinical trial operations expert. Optimise the visit schedule
for participant burden and data quality, giving a rationale for every
visit. Always respond by calling the provided tool.`

	validateSystemPrompt = `You are a clinical trial quality reviewer. Cross-check the protocol
sections against the visit schedule and report any inconsistencies.
Always respond by calling the provided tool.`
)

// analyzeChunkSchema declares the structured output of one chunk analysis.
func analyzeChunkSchema() driven.ToolSchema {
	return driven.ToolSchema{
		Name:        "report_section_analysis",
		Description: "Report metrics, suggestions and schedule elements for one protocol section",
		Parameters: driven.Object(map[string]driven.ParameterSpec{
			"metrics": driven.Object(map[string]driven.ParameterSpec{
				"complexity":   driven.Number("Section complexity score between 0 and 1"),
				"completeness": driven.Number("Section completeness score between 0 and 1"),
				"efficiency":   driven.Number("Section efficiency score between 0 and 1"),
			}),
			"suggestions": driven.Array(driven.Object(map[string]driven.ParameterSpec{
				"type":           driven.String("Suggestion kind, e.g. improvement, warning, validation, formatting"),
				"impact":         driven.StringEnum("Importance of the suggestion", "high", "medium", "low"),
				"message":        driven.String("Description of the finding"),
				"recommendation": driven.String("Proposed action"),
			}, "type", "impact", "message", "recommendation")),
			"scheduleElements": driven.Array(driven.Object(map[string]driven.ParameterSpec{
				"visitName":  driven.String("Name of the study visit"),
				"window":     driven.String("Visit window offset, e.g. +7d"),
				"procedures": driven.Array(driven.String("Procedure name")),
			}, "visitName", "window", "procedures")),
		}, "suggestions", "scheduleElements"),
	}
}

// enhanceProtocolSchema declares the Stage A output: an ordered list of
// numbered sections with optional subsections.
func enhanceProtocolSchema() driven.ToolSchema {
	subsection := driven.Object(map[string]driven.ParameterSpec{
		"title":   driven.String("Subsection title"),
		"content": driven.String("Subsection body text"),
	}, "title", "content")

	return driven.ToolSchema{
		Name:        "write_enhanced_protocol",
		Description: "Produce the enhanced protocol as ordered numbered sections",
		Parameters: driven.Object(map[string]driven.ParameterSpec{
			"version":    driven.String("Protocol version label"),
			"keyChanges": driven.Array(driven.String("Summary of one applied change")),
			"sections": driven.Array(driven.Object(map[string]driven.ParameterSpec{
				"title":       driven.String("Section title"),
				"content":     driven.String("Section body text"),
				"subsections": driven.Array(subsection),
			}, "title", "content")),
		}, "sections"),
	}
}

// optimizeScheduleSchema declares the Stage B output. The returned
// schedule replaces the merged one structurally; each visit must carry a
// rationale.
func optimizeScheduleSchema() driven.ToolSchema {
	return driven.ToolSchema{
		Name:        "write_optimized_schedule",
		Description: "Produce the optimised visit schedule with rationales",
		Parameters: driven.Object(map[string]driven.ParameterSpec{
			"visits": driven.Array(driven.Object(map[string]driven.ParameterSpec{
				"name":      driven.String("Visit name"),
				"window":    driven.String("Visit window offset, e.g. +7d"),
				"rationale": driven.String("Why the visit is scheduled this way"),
				"procedures": driven.Array(driven.Object(map[string]driven.ParameterSpec{
					"name":      driven.String("Procedure name"),
					"required":  driven.Boolean("Whether the procedure is mandatory"),
					"notes":     driven.String("Operational notes"),
					"rationale": driven.String("Why the procedure is included"),
				}, "name", "required")),
			}, "name", "window", "rationale", "procedures")),
			"optimizationNotes": driven.Array(driven.Object(map[string]driven.ParameterSpec{
				"category": driven.String("Optimisation category"),
				"note":     driven.String("What was changed and why"),
				"impact":   driven.StringEnum("Expected impact", "high", "medium", "low"),
			}, "category", "note", "impact")),
		}, "visits"),
	}
}

// crossValidateSchema declares the Stage C output.
func crossValidateSchema() driven.ToolSchema {
	return driven.ToolSchema{
		Name:        "report_validation",
		Description: "Report consistency of the protocol against the schedule",
		Parameters: driven.Object(map[string]driven.ParameterSpec{
			"isValid": driven.Boolean("True when protocol and schedule are consistent"),
			"issues": driven.Array(driven.Object(map[string]driven.ParameterSpec{
				"type":           driven.String("Issue kind"),
				"description":    driven.String("What is inconsistent"),
				"recommendation": driven.String("How to resolve it"),
				"severity":       driven.StringEnum("Issue severity", "high", "medium", "low"),
			}, "type", "description", "severity")),
			"protocolUpdates": driven.Array(driven.String("Proposed protocol amendment")),
			"scheduleUpdates": driven.Array(driven.String("Proposed schedule amendment")),
		}, "isValid", "issues", "protocolUpdates", "scheduleUpdates"),
	}
}
