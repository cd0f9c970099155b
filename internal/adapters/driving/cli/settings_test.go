package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/protolens-cli/internal/core/domain"
)

func TestSettingsCmd_Use(t *testing.T) {
	assert.Equal(t, "settings", settingsCmd.Use)
}

func TestSettingsCmd_ShowDefaults(t *testing.T) {
	_, _, cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"settings"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "Current Settings")
	assert.Contains(t, out, "Anthropic (cloud)")
	assert.Contains(t, out, "claude-3-5-sonnet-latest")
	assert.Contains(t, out, "Chunk size: 4000")
	assert.Contains(t, out, "Batch size: 3")
	// Default config has no API key, so the provider is not usable yet.
	assert.Contains(t, out, "Status: not configured")
	assert.Contains(t, out, "protolens settings key")
}

func TestSettingsCmd_ShowConfigured(t *testing.T) {
	_, settings, cleanup := setupTestServices()
	defer cleanup()
	settings.settings = &domain.AppSettings{
		LLM: domain.LLMSettings{
			Provider: domain.AIProviderAnthropic,
			Model:    "claude-3-5-sonnet-latest",
			APIKey:   "sk-ant-test-1234567890",
		},
		Pipeline: domain.PipelineSettings{ChunkSize: 2000, BatchSize: 2},
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"settings", "show"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "Status: configured")
	// API key is masked, never echoed in full.
	assert.NotContains(t, out, "sk-ant-test-1234567890")
	assert.Contains(t, out, "sk-a...7890")
}

func TestSettingsCmd_ShowLocalProvider(t *testing.T) {
	_, settings, cleanup := setupTestServices()
	defer cleanup()
	settings.settings = &domain.AppSettings{
		LLM: domain.LLMSettings{
			Provider: domain.AIProviderOllama,
			Model:    "llama3.1",
			BaseURL:  "http://localhost:11434",
		},
		Pipeline: domain.PipelineSettings{ChunkSize: 4000, BatchSize: 3},
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"settings"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "Ollama (local)")
	assert.Contains(t, out, "Base URL: http://localhost:11434")
	assert.NotContains(t, out, "API Key")
}

func TestSettingsCmd_ServiceNotConfigured(t *testing.T) {
	oldService := settingsService
	settingsService = nil
	defer func() { settingsService = oldService }()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"settings"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "settings service not configured")
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "****", maskAPIKey("short"))
	assert.Equal(t, "****", maskAPIKey("12345678"))
	assert.Equal(t, "sk-a...wxyz", maskAPIKey("sk-abcdefgwxyz"))
}

func TestParseChoice(t *testing.T) {
	assert.Equal(t, 1, parseChoice("", 3, 1))
	assert.Equal(t, 2, parseChoice("2", 3, 1))
	assert.Equal(t, 1, parseChoice("4", 3, 1))
	assert.Equal(t, 1, parseChoice("abc", 3, 1))
	assert.Equal(t, 1, parseChoice("0", 3, 1))
}

func TestAllProviders(t *testing.T) {
	providers := allProviders()

	assert.Len(t, providers, 3)
	for _, p := range providers {
		assert.True(t, p.IsValid())
	}
}
