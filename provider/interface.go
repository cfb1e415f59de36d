// Package provider implements model.Provider for the hosted Gemini API and
// for an offline keyword responder.
//
// The hosted provider talks to Gemini through its OpenAI-compatible endpoint,
// so the official openai-go client handles transport, retries and streaming.
// A request carries one user message: the composed prompt plus, when present,
// the attached image as a data URL. Requests with an image go to the vision
// model; all others go to the text model.
//
// # Usage
//
//	p, err := provider.NewProvider(provider.Config{
//	    Type:      provider.ProviderTypeGemini,
//	    APIKey:    os.Getenv("GOOGLE_API_KEY"),
//	    TextModel: "gemini-flash-latest",
//	})
//	if err != nil {
//	    // handle error
//	}
//	err = p.Generate(ctx, model.Request{Prompt: "Hello!"}, callback)
package provider

import "time"

// Note: The Provider interface and StreamCallback are defined in the model package
// (model/provider.go) to avoid import cycles. This package implements model.Provider.

// ProviderType identifies the provider implementation.
type ProviderType string

const (
	ProviderTypeGemini  ProviderType = "gemini"
	ProviderTypeOffline ProviderType = "offline"
)

const (
	DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"
	DefaultTextModel     = "gemini-flash-latest"
	DefaultVisionModel   = "gemini-flash-latest"
)

// Config holds provider-specific configuration.
type Config struct {
	Type        ProviderType
	BaseURL     string
	APIKey      string // Gemini only
	TextModel   string
	VisionModel string // defaults to TextModel when empty

	// OfflineDelay paces the offline responder's chunks. Zero streams
	// immediately.
	OfflineDelay time.Duration
}
