package provider_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"smartchat/model"
	"smartchat/provider"
	"smartchat/provider/testutil"
)

// TestProviderContract defines the contract every provider must satisfy.
// The Gemini provider is covered against a fake server in provider_test.go.
func TestProviderContract(t *testing.T) {
	tests := []struct {
		name     string
		provider model.Provider
	}{
		{"Mock", testutil.NewMockProvider("Hello from the mock!")},
		{"Offline", provider.NewOfflineProvider(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Run("BasicChat", func(t *testing.T) {
				testProviderBasicChat(t, tt.provider)
			})
			t.Run("ChatWithImage", func(t *testing.T) {
				testProviderChatWithImage(t, tt.provider)
			})
			t.Run("CallbackErrorAborts", func(t *testing.T) {
				testProviderCallbackError(t, tt.provider)
			})
			t.Run("Models", func(t *testing.T) {
				testProviderModels(t, tt.provider)
			})
		})
	}
}

func testProviderBasicChat(t *testing.T, p model.Provider) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var sb strings.Builder
	chunks := 0
	err := p.Generate(ctx, model.Request{Prompt: "Hello"}, func(chunk string) error {
		sb.WriteString(chunk)
		chunks++
		return nil
	})

	if err != nil {
		t.Errorf("Generate() error = %v", err)
	}
	if chunks == 0 || sb.Len() == 0 {
		t.Error("Generate() did not receive any chunks")
	}
}

func testProviderChatWithImage(t *testing.T, p model.Provider) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req := model.Request{Prompt: "What is this?", Image: testutil.TestImage("cat.png")}
	var received string
	err := p.Generate(ctx, req, func(chunk string) error {
		received += chunk
		return nil
	})

	if err != nil {
		t.Errorf("Generate() with image error = %v", err)
	}
	if received == "" {
		t.Error("Generate() with image did not receive any chunks")
	}
}

func testProviderCallbackError(t *testing.T, p model.Provider) {
	stop := errors.New("stop")
	calls := 0
	err := p.Generate(context.Background(), model.Request{Prompt: "Hello"}, func(string) error {
		calls++
		return stop
	})

	if err == nil {
		t.Error("Generate() should fail when the callback fails")
	}
	if calls != 1 {
		t.Errorf("callback called %d times after failing, want 1", calls)
	}
}

func testProviderModels(t *testing.T, p model.Provider) {
	if p.Name() == "" {
		t.Error("Name() returned empty string")
	}
	text, vision := p.Models()
	if text == "" || vision == "" {
		t.Errorf("Models() = (%q, %q), want both set", text, vision)
	}
}

// TestMockProviderImplementsInterface ensures mock provider implements the interface
func TestMockProviderImplementsInterface(t *testing.T) {
	var _ model.Provider = (*testutil.MockProvider)(nil)
	var _ model.Provider = (*provider.OfflineProvider)(nil)
	var _ model.Provider = (*provider.GeminiProvider)(nil)
}
