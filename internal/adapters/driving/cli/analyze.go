package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/protolens-cli/internal/core/domain"
)

var (
	analyzeTitle      string
	analyzePhase      string
	analyzeIndication string
	analyzePopulation string
	analyzeJSON       bool
	analyzeOutput     string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [protocol-file]",
	Short: "Analyse a protocol document",
	Long: `Chunks the protocol, analyses every section with the configured
LLM provider, and reports quality metrics, improvement suggestions,
and the extracted visit schedule.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeTitle, "title", "", "study title")
	analyzeCmd.Flags().StringVar(&analyzePhase, "phase", "", "trial phase (e.g. \"Phase II\")")
	analyzeCmd.Flags().StringVar(&analyzeIndication, "indication", "", "condition under study")
	analyzeCmd.Flags().StringVar(&analyzePopulation, "population", "", "target population")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "output the result as JSON")
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "", "write the analysis result JSON to a file")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	content, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read protocol: %w", err)
	}

	pipeline, err := newPipeline()
	if err != nil {
		return err
	}

	study := domain.StudyDetails{
		Title:      analyzeTitle,
		Phase:      analyzePhase,
		Indication: analyzeIndication,
		Population: analyzePopulation,
	}

	result, err := pipeline.AnalyzeProtocol(context.Background(), string(content), study)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if analyzeOutput != "" {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal result: %w", err)
		}
		if err := os.WriteFile(analyzeOutput, data, 0600); err != nil {
			return fmt.Errorf("write analysis file: %w", err)
		}
		cmd.Printf("Analysis written to %s\n", analyzeOutput)
	}

	if analyzeJSON {
		return outputJSON(cmd, result)
	}

	renderAnalysis(cmd, result)
	return nil
}
