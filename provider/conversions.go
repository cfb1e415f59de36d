package provider

import (
	"github.com/openai/openai-go/v3"

	"smartchat/model"
)

// BuildUserMessage converts a request into the single user message sent to
// the chat completions API. Text-only requests use plain string content;
// requests with an image use a text part followed by an image part.
func BuildUserMessage(req model.Request) openai.ChatCompletionMessageParamUnion {
	if !req.HasImage() {
		return openai.UserMessage(req.Prompt)
	}
	parts := []openai.ChatCompletionContentPartUnionParam{
		openai.TextContentPart(req.Prompt),
		openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
			URL: req.Image.DataURL(),
		}),
	}
	return openai.UserMessage(parts)
}
