// Package testutil provides provider doubles and fixtures for tests.
package testutil

import (
	"context"
	"sync"

	"smartchat/model"
)

// MockProvider implements model.Provider for testing
type MockProvider struct {
	// Configurable responses
	GenerateFunc func(ctx context.Context, req model.Request, callback model.StreamCallback) error

	TextModel   string
	VisionModel string

	mu       sync.Mutex
	requests []model.Request
}

// NewMockProvider creates a mock provider that streams reply in two chunks.
func NewMockProvider(reply string) *MockProvider {
	mock := &MockProvider{TextModel: "mock-text", VisionModel: "mock-vision"}
	mock.GenerateFunc = StreamReply(reply)
	return mock
}

// StreamReply returns a GenerateFunc that streams reply split in half.
func StreamReply(reply string) func(context.Context, model.Request, model.StreamCallback) error {
	return func(ctx context.Context, req model.Request, callback model.StreamCallback) error {
		mid := len(reply) / 2
		for _, chunk := range []string{reply[:mid], reply[mid:]} {
			if chunk == "" {
				continue
			}
			if err := callback(chunk); err != nil {
				return err
			}
		}
		return nil
	}
}

// FailAfter returns a GenerateFunc that streams partial and then fails with err.
func FailAfter(partial string, err error) func(context.Context, model.Request, model.StreamCallback) error {
	return func(ctx context.Context, req model.Request, callback model.StreamCallback) error {
		if partial != "" {
			if cbErr := callback(partial); cbErr != nil {
				return cbErr
			}
		}
		return err
	}
}

// BlockUntilDone returns a GenerateFunc that waits for ctx to end.
func BlockUntilDone() func(context.Context, model.Request, model.StreamCallback) error {
	return func(ctx context.Context, req model.Request, callback model.StreamCallback) error {
		<-ctx.Done()
		return ctx.Err()
	}
}

func (m *MockProvider) Generate(ctx context.Context, req model.Request, callback model.StreamCallback) error {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()
	return m.GenerateFunc(ctx, req, callback)
}

func (m *MockProvider) Name() string {
	return "mock"
}

func (m *MockProvider) Models() (text, vision string) {
	return m.TextModel, m.VisionModel
}

// Requests returns every request received so far.
func (m *MockProvider) Requests() []model.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Request(nil), m.requests...)
}

// LastRequest returns the most recent request; ok is false if none arrived.
func (m *MockProvider) LastRequest() (req model.Request, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return model.Request{}, false
	}
	return m.requests[len(m.requests)-1], true
}
