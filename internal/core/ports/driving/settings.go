package driving

import "github.com/custodia-labs/protolens-cli/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetAPIKey updates the LLM API key.
	SetAPIKey(key string) error

	// SetProvider updates the LLM provider and model.
	SetProvider(provider domain.AIProvider, model string) error
}
