package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"smartchat/model"
)

// GeminiProvider implements model.Provider against Gemini's OpenAI-compatible
// endpoint.
type GeminiProvider struct {
	client      openai.Client
	baseURL     string
	textModel   string
	visionModel string
}

// NewGeminiProvider creates a Gemini provider. Empty baseURL and model names
// select the defaults; an empty visionModel reuses textModel.
//
// Returns an error if the API key is missing.
func NewGeminiProvider(baseURL, apiKey, textModel, visionModel string, opts ...option.RequestOption) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GOOGLE_API_KEY not found")
	}
	if baseURL == "" {
		baseURL = DefaultGeminiBaseURL
	}
	if textModel == "" {
		textModel = DefaultTextModel
	}
	if visionModel == "" {
		visionModel = textModel
	}

	clientOpts := append([]option.RequestOption{
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(1),
	}, opts...)

	return &GeminiProvider{
		client:      openai.NewClient(clientOpts...),
		baseURL:     baseURL,
		textModel:   textModel,
		visionModel: visionModel,
	}, nil
}

// Name implements model.Provider.
func (p *GeminiProvider) Name() string {
	return string(ProviderTypeGemini)
}

// Models implements model.Provider.
func (p *GeminiProvider) Models() (text, vision string) {
	return p.textModel, p.visionModel
}

// Generate implements model.Provider with streaming. Every non-empty content
// delta is forwarded to callback in arrival order.
func (p *GeminiProvider) Generate(ctx context.Context, req model.Request, callback model.StreamCallback) error {
	modelName := p.textModel
	if req.HasImage() {
		modelName = p.visionModel
	}

	params := openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{BuildUserMessage(req)},
		Model:    openai.ChatModel(modelName),
	}

	stream := p.client.Chat.Completions.NewStreaming(ctx, params)
	defer stream.Close()

	for stream.Next() {
		chunk := stream.Current()
		if len(chunk.Choices) == 0 || chunk.Choices[0].Delta.Content == "" {
			continue
		}
		if callback == nil {
			continue
		}
		if err := callback(chunk.Choices[0].Delta.Content); err != nil {
			return classifyError(err)
		}
	}

	if err := stream.Err(); err != nil {
		return classifyError(err)
	}
	return nil
}

// classifyError maps transport and API failures onto model error kinds.
func classifyError(err error) *model.ModelError {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden:
			return model.NewModelError(model.ErrorKindAuth, err)
		case apiErr.StatusCode == http.StatusTooManyRequests:
			return model.NewModelError(model.ErrorKindRateLimited, err)
		case apiErr.StatusCode >= http.StatusInternalServerError:
			return model.NewModelError(model.ErrorKindUnavailable, err)
		}
		return model.NewModelError(model.ErrorKindGeneric, err)
	}
	return model.AsModelError(err)
}
