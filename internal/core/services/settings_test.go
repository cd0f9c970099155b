package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/protolens-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/protolens-cli/internal/core/domain"
)

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	settings, err := service.Get()

	require.NoError(t, err)
	defaults := domain.DefaultAppSettings()
	assert.Equal(t, defaults.LLM.Provider, settings.LLM.Provider)
	assert.Equal(t, defaults.LLM.Model, settings.LLM.Model)
	assert.Equal(t, defaults.Pipeline.ChunkSize, settings.Pipeline.ChunkSize)
	assert.Equal(t, defaults.Pipeline.BatchSize, settings.Pipeline.BatchSize)
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("llm.provider", "openai")
	_ = store.Set("llm.model", "gpt-4o")
	_ = store.Set("llm.api_key", "sk-test")
	_ = store.Set("pipeline.batch_size", 5)

	service := NewSettingsService(store)
	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOpenAI, settings.LLM.Provider)
	assert.Equal(t, "gpt-4o", settings.LLM.Model)
	assert.Equal(t, "sk-test", settings.LLM.APIKey)
	assert.Equal(t, 5, settings.Pipeline.BatchSize)
}

func TestSettingsService_Get_InvalidProviderFallsBack(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("llm.provider", "not_a_provider")

	service := NewSettingsService(store)
	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultAppSettings().LLM.Provider, settings.LLM.Provider)
}

func TestSettingsService_SaveRoundTrip(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	err := service.Save(&domain.AppSettings{
		LLM: domain.LLMSettings{
			Provider: domain.AIProviderOllama,
			Model:    "llama3.1",
			BaseURL:  "http://localhost:11434",
		},
		Pipeline: domain.PipelineSettings{ChunkSize: 2000, BatchSize: 4},
	})
	require.NoError(t, err)

	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOllama, settings.LLM.Provider)
	assert.Equal(t, "llama3.1", settings.LLM.Model)
	assert.Equal(t, "http://localhost:11434", settings.LLM.BaseURL)
	assert.Equal(t, 2000, settings.Pipeline.ChunkSize)
	assert.Equal(t, 4, settings.Pipeline.BatchSize)
}

func TestSettingsService_SetAPIKey(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	require.NoError(t, service.SetAPIKey("sk-new"))

	settings, _ := service.Get()
	assert.Equal(t, "sk-new", settings.LLM.APIKey)
}

func TestSettingsService_SetAPIKey_Empty(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	err := service.SetAPIKey("")
	assert.Error(t, err)
}

func TestSettingsService_SetProvider(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	require.NoError(t, service.SetProvider(domain.AIProviderOpenAI, "gpt-4o-mini"))

	settings, _ := service.Get()
	assert.Equal(t, domain.AIProviderOpenAI, settings.LLM.Provider)
	assert.Equal(t, "gpt-4o-mini", settings.LLM.Model)
}

func TestSettingsService_SetProvider_Invalid(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	err := service.SetProvider("mystery", "model")
	assert.Error(t, err)
}

func TestSettingsService_SetProvider_KeepsModelWhenEmpty(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("llm.model", "claude-3-5-sonnet-latest")
	service := NewSettingsService(store)

	require.NoError(t, service.SetProvider(domain.AIProviderAnthropic, ""))

	settings, _ := service.Get()
	assert.Equal(t, "claude-3-5-sonnet-latest", settings.LLM.Model)
}
