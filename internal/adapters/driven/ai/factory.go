// Package ai provides factory functions for creating LLM provider adapters.
package ai

import (
	"fmt"

	anthropicllm "github.com/custodia-labs/protolens-cli/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/custodia-labs/protolens-cli/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/protolens-cli/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/protolens-cli/internal/core/domain"
	"github.com/custodia-labs/protolens-cli/internal/core/ports/driven"
)

// CreateStructuredCaller creates the appropriate structured caller for the
// configured provider. A cloud provider without an API key fails with
// domain.ErrCredentialMissing before any network activity.
func CreateStructuredCaller(settings *domain.LLMSettings) (driven.StructuredCaller, error) {
	if settings == nil || !settings.Provider.IsValid() {
		return nil, fmt.Errorf("%w: unsupported LLM provider: %s",
			domain.ErrLLMUnavailable, providerName(settings))
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamallm.NewStructuredCaller(ollamallm.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderOpenAI:
		return openaillm.NewStructuredCaller(openaillm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderAnthropic:
		return anthropicllm.NewStructuredCaller(anthropicllm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	default:
		return nil, fmt.Errorf("%w: unsupported LLM provider: %s",
			domain.ErrLLMUnavailable, settings.Provider)
	}
}

func providerName(settings *domain.LLMSettings) string {
	if settings == nil {
		return "<none>"
	}
	return settings.Provider.String()
}
