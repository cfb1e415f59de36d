package model

import (
	"context"

	"smartchat/media"
)

// Provider abstracts the hosted completion API.
//
// This interface is defined in the model package (not provider package) to avoid
// import cycles: provider implementations import model, and the session layer can
// depend on Provider without importing the provider package.
type Provider interface {
	// Generate sends one request and streams the answer back via callback.
	// The concatenation of every chunk passed to callback is the full answer.
	Generate(ctx context.Context, req Request, callback StreamCallback) error

	// Name returns the provider identifier (e.g. "gemini").
	Name() string

	// Models returns the model used for text-only requests and the model used
	// when an image is attached.
	Models() (text, vision string)
}

// Request is a single outbound prompt with an optional image.
type Request struct {
	Prompt string
	Image  *media.Image
}

// HasImage reports whether the request carries an image.
func (r Request) HasImage() bool {
	return r.Image != nil && len(r.Image.Data) > 0
}

// StreamCallback is called for each chunk of a streamed response. Returning an
// error aborts the stream.
type StreamCallback func(chunk string) error
