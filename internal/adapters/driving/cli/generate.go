package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/protolens-cli/internal/core/domain"
	"github.com/custodia-labs/protolens-cli/internal/core/ports/driving"
)

var (
	generateAnalysisPath string
	generateSelect       []string
	generateSchedule     bool
	generateJSON         bool
)

var generateCmd = &cobra.Command{
	Use:   "generate [protocol-file]",
	Short: "Generate improved protocol documents",
	Long: `Applies the accepted suggestions to the protocol and produces a
polished, numbered protocol document. With --schedule, the visit
schedule is optimised as well. The two documents are cross-validated
and any inconsistencies are reported.

Without --analysis, the protocol is analysed first and every
suggestion is applied.`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&generateAnalysisPath, "analysis", "", "analysis result JSON produced by 'analyze --output'")
	generateCmd.Flags().StringSliceVar(&generateSelect, "select", nil, "suggestion IDs to apply (default: all)")
	generateCmd.Flags().BoolVar(&generateSchedule, "schedule", false, "also generate an optimised visit schedule")
	generateCmd.Flags().BoolVar(&generateJSON, "json", false, "output the result as JSON")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	content, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read protocol: %w", err)
	}

	pipeline, err := newPipeline()
	if err != nil {
		return err
	}

	ctx := context.Background()

	analysis, err := loadOrRunAnalysis(ctx, pipeline, string(content))
	if err != nil {
		return err
	}

	selected := generateSelect
	if len(selected) == 0 {
		for _, s := range analysis.Suggestions {
			selected = append(selected, s.ID)
		}
	}

	docs, err := pipeline.GenerateFinalDocuments(ctx, string(content), selected, generateSchedule, analysis)
	if err != nil {
		return fmt.Errorf("document generation failed: %w", err)
	}

	if generateJSON {
		return outputJSON(cmd, docs)
	}

	renderDocuments(cmd, docs, generateSchedule)
	return nil
}

// loadOrRunAnalysis reads a saved analysis result when --analysis is
// given, otherwise runs a fresh analysis on the protocol content.
func loadOrRunAnalysis(ctx context.Context, pipeline driving.ProtocolPipeline, content string) (*domain.AnalysisResult, error) {
	if generateAnalysisPath == "" {
		result, err := pipeline.AnalyzeProtocol(ctx, content, domain.StudyDetails{})
		if err != nil {
			return nil, fmt.Errorf("analysis failed: %w", err)
		}
		return result, nil
	}

	data, err := os.ReadFile(generateAnalysisPath)
	if err != nil {
		return nil, fmt.Errorf("read analysis file: %w", err)
	}

	var result domain.AnalysisResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("parse analysis file: %w", err)
	}
	return &result, nil
}
