package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/protolens-cli/internal/core/domain"
)

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "protolens", rootCmd.Use)
}

func TestRootCmd_HasVerboseFlag(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, flag)
	assert.Equal(t, "v", flag.Shorthand)
	assert.Equal(t, "false", flag.DefValue)
}

func TestBuildPipeline_MissingCredentialFailsFast(t *testing.T) {
	oldService := settingsService
	settingsService = &fakeSettingsService{settings: &domain.AppSettings{
		LLM:      domain.LLMSettings{Provider: domain.AIProviderAnthropic},
		Pipeline: domain.PipelineSettings{ChunkSize: 4000, BatchSize: 3},
	}}
	defer func() { settingsService = oldService }()

	pipeline, err := buildPipeline()

	require.Error(t, err)
	assert.Nil(t, pipeline)
	assert.True(t, errors.Is(err, domain.ErrCredentialMissing))
}

func TestBuildPipeline_LocalProvider(t *testing.T) {
	oldService := settingsService
	settingsService = &fakeSettingsService{settings: &domain.AppSettings{
		LLM:      domain.LLMSettings{Provider: domain.AIProviderOllama, Model: "llama3.1"},
		Pipeline: domain.PipelineSettings{ChunkSize: 4000, BatchSize: 3},
	}}
	defer func() { settingsService = oldService }()

	pipeline, err := buildPipeline()

	require.NoError(t, err)
	assert.NotNil(t, pipeline)
}
