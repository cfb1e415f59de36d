package provider

import (
	"fmt"
	"strings"

	"smartchat/model"
)

// NewProvider creates a provider based on configuration.
//
// Returns an error if the provider type is unknown or the provider-specific
// constructor fails (e.g. the Gemini API key is missing).
func NewProvider(cfg Config) (model.Provider, error) {
	switch cfg.Type {
	case ProviderTypeGemini:
		return NewGeminiProvider(cfg.BaseURL, cfg.APIKey, cfg.TextModel, cfg.VisionModel)
	case ProviderTypeOffline:
		return NewOfflineProvider(cfg.OfflineDelay), nil
	default:
		return nil, fmt.Errorf("unknown provider type: %s", cfg.Type)
	}
}

// ParseProviderType maps a config value to a ProviderType. Matching is
// case-insensitive; "google" is accepted as an alias for gemini.
func ParseProviderType(id string) (ProviderType, error) {
	switch strings.ToLower(strings.TrimSpace(id)) {
	case "gemini", "google":
		return ProviderTypeGemini, nil
	case "offline":
		return ProviderTypeOffline, nil
	default:
		return "", fmt.Errorf("unknown provider type: %q", id)
	}
}
