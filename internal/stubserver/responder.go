package stubserver

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// Responder produces the AI text behind the chat, analyzer, quiz and
// schedule-scan endpoints. The dev server uses OpenAI when a key is
// configured and deterministic canned text otherwise, so every flow works
// offline.
type Responder interface {
	Reply(ctx context.Context, prompt string, images []string) (string, error)
}

// cannedResponder answers without any model: a fixed preamble echoing the
// prompt head. JSON-expecting handlers detect the non-JSON reply and fall
// back to their own deterministic output.
type cannedResponder struct{}

func (cannedResponder) Reply(_ context.Context, prompt string, images []string) (string, error) {
	head := prompt
	if len(head) > 60 {
		head = head[:60]
	}
	if len(images) > 0 {
		return fmt.Sprintf("Looking at your %d image(s): here is some feedback on \"%s\". Focus on the topics you marked as difficult and practice similar problems.", len(images), head), nil
	}
	return fmt.Sprintf("Here is some feedback on \"%s\". Break the material into small pieces and test yourself on each one.", head), nil
}

// openAIResponder proxies prompts (and base64 images, as data URLs) to the
// chat completions API.
type openAIResponder struct {
	client *openai.Client
	model  string
}

func newOpenAIResponder(apiKey, model string) *openAIResponder {
	return &openAIResponder{client: openai.NewClient(apiKey), model: model}
}

func (r *openAIResponder) Reply(ctx context.Context, prompt string, images []string) (string, error) {
	msg := openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser}

	if len(images) == 0 {
		msg.Content = prompt
	} else {
		parts := []openai.ChatMessagePart{{
			Type: openai.ChatMessagePartTypeText,
			Text: prompt,
		}}
		for _, img := range images {
			parts = append(parts, openai.ChatMessagePart{
				Type: openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{
					URL: "data:image/jpeg;base64," + img,
				},
			})
		}
		msg.MultiContent = parts
	}

	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    r.model,
		Messages: []openai.ChatCompletionMessage{msg},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no completion choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}
