package cli

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/protolens-cli/internal/core/domain"
)

// Styles for rendered terminal output.
var (
	headingStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	labelStyle   = lipgloss.NewStyle().Bold(true)
	dimStyle     = lipgloss.NewStyle().Faint(true)

	impactStyles = map[domain.ImpactLevel]lipgloss.Style{
		domain.ImpactHigh:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		domain.ImpactMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		domain.ImpactLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	}
)

func outputJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func renderAnalysis(cmd *cobra.Command, result *domain.AnalysisResult) {
	cmd.Println(headingStyle.Render("Protocol Analysis"))
	cmd.Println()

	cmd.Println(labelStyle.Render("Overall Metrics"))
	renderMetrics(cmd, result.Metrics)
	cmd.Println()

	if len(result.SectionMetrics) > 0 {
		cmd.Println(labelStyle.Render("Per-Section Metrics"))
		for _, chunk := range sortedSectionNames(result.SectionMetrics) {
			m := result.SectionMetrics[chunk]
			cmd.Printf("  %s: complexity %.2f, completeness %.2f, efficiency %.2f\n",
				chunk, m.Complexity, m.Completeness, m.Efficiency)
		}
		cmd.Println()
	}

	cmd.Println(labelStyle.Render(fmt.Sprintf("Suggestions (%d)", len(result.Suggestions))))
	if len(result.Suggestions) == 0 {
		cmd.Println(dimStyle.Render("  No suggestions."))
	}
	for i, s := range result.Suggestions {
		impact := string(s.Impact)
		if style, ok := impactStyles[s.Impact]; ok {
			impact = style.Render(impact)
		}
		cmd.Printf("  [%d] %s %s (%s)\n", i+1, impact, s.Message, s.Category)
		if s.Recommendation != "" {
			cmd.Printf("      %s\n", s.Recommendation)
		}
		if s.AutoFixAvailable {
			cmd.Printf("      %s\n", dimStyle.Render("auto-fix available"))
		}
		cmd.Printf("      %s\n", dimStyle.Render("id: "+s.ID))
	}
	cmd.Println()

	if len(result.StudySchedule.Visits) > 0 {
		cmd.Println(labelStyle.Render("Visit Schedule"))
		renderSchedule(cmd, result.StudySchedule)
	}
}

func renderDocuments(cmd *cobra.Command, docs *domain.FinalDocuments, includeSchedule bool) {
	cmd.Println(headingStyle.Render("Enhanced Protocol"))
	cmd.Println()
	cmd.Println(docs.Protocol)
	cmd.Println()

	if includeSchedule {
		cmd.Println(headingStyle.Render("Optimised Schedule"))
		renderSchedule(cmd, docs.Schedule)
		cmd.Println()
	}

	if docs.Validation.IsValid {
		cmd.Println("Cross-validation passed.")
		return
	}

	cmd.Println(labelStyle.Render("Cross-validation found issues:"))
	for _, issue := range docs.Validation.Issues {
		severity := string(issue.Severity)
		if style, ok := impactStyles[issue.Severity]; ok {
			severity = style.Render(severity)
		}
		cmd.Printf("  - %s [%s]: %s\n", issue.Type, severity, issue.Description)
		if issue.Recommendation != "" {
			cmd.Printf("    %s\n", issue.Recommendation)
		}
	}
}

func renderMetrics(cmd *cobra.Command, m domain.SectionMetrics) {
	cmd.Printf("  Complexity:   %.2f\n", m.Complexity)
	cmd.Printf("  Completeness: %.2f\n", m.Completeness)
	cmd.Printf("  Efficiency:   %.2f\n", m.Efficiency)
}

func renderSchedule(cmd *cobra.Command, schedule domain.StudySchedule) {
	for _, visit := range schedule.Visits {
		cmd.Printf("  %s (%s)\n", visit.Name, visit.Window)
		for _, p := range visit.Procedures {
			line := "    - " + p.Name
			if !p.Required {
				line += " (optional)"
			}
			cmd.Println(line)
			if p.Notes != "" {
				cmd.Printf("      %s\n", dimStyle.Render(p.Notes))
			}
		}
	}
}

func sortedSectionNames(metrics map[string]domain.SectionMetrics) []string {
	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
