// Package cli provides the cobra command tree for the protolens binary.
// Commands talk to the core exclusively through the driving ports; the
// service variables are swapped out by tests.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/protolens-cli/internal/adapters/driven/ai"
	"github.com/custodia-labs/protolens-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/protolens-cli/internal/core/ports/driving"
	"github.com/custodia-labs/protolens-cli/internal/core/services"
	"github.com/custodia-labs/protolens-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services used by the commands. Wired in Execute, replaced in tests.
var (
	settingsService driving.SettingsService

	// newPipeline builds a pipeline from the current settings. It is a
	// variable so tests can substitute a fake without touching the
	// provider adapters.
	newPipeline = buildPipeline
)

var verboseFlag bool

var rootCmd = &cobra.Command{
	Use:   "protolens",
	Short: "Analyse and improve clinical trial protocols",
	Long: `Protolens analyses clinical trial protocol documents with an LLM,
scores each section, suggests improvements, and generates a polished
protocol plus an optimised visit schedule.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging to stderr")
}

// Execute wires the default services and runs the command tree.
func Execute() error {
	if settingsService == nil {
		store, err := file.NewConfigStore("")
		if err != nil {
			return fmt.Errorf("open config store: %w", err)
		}
		settingsService = services.NewSettingsService(store)
	}

	return rootCmd.Execute()
}

// buildPipeline constructs a pipeline from the stored settings. The
// provider adapter is created here so that a missing credential fails
// before any protocol content is read or sent anywhere.
func buildPipeline() (driving.ProtocolPipeline, error) {
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	caller, err := ai.CreateStructuredCaller(&settings.LLM)
	if err != nil {
		return nil, err
	}

	logger.Debug("using %s model %s", settings.LLM.Provider, caller.ModelName())

	return services.NewPipelineService(caller,
		services.WithChunkSize(settings.Pipeline.ChunkSize),
		services.WithBatchSize(settings.Pipeline.BatchSize),
	), nil
}
