package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"farebot/internal/modules/dialogue"
	"farebot/internal/modules/trip"
)

const DefaultOpenAIModel = "gpt-4o-mini"

// OpenAIProvider implements Provider on the chat completions API.
type OpenAIProvider struct {
	client openai.Client
	model  string
	now    func() time.Time
}

func NewOpenAIProvider(apiKey, model string, now func() time.Time) *OpenAIProvider {
	if model == "" {
		model = DefaultOpenAIModel
	}
	if now == nil {
		now = time.Now
	}
	return &OpenAIProvider{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
		now:    now,
	}
}

func (p *OpenAIProvider) Close() error { return nil }

func (p *OpenAIProvider) Extract(ctx context.Context, transcript []dialogue.Turn, current trip.Request) (map[string]any, error) {
	prompt, err := buildExtractionPrompt(transcript, current, p.now())
	if err != nil {
		return nil, err
	}
	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       p.model,
		Messages:    []openai.ChatCompletionMessageParamUnion{openai.UserMessage(prompt)},
		Temperature: openai.Float(0),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("openai: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, ErrEmptyResponse
	}
	return decodeFields(resp.Choices[0].Message.Content)
}

func (p *OpenAIProvider) Clarify(ctx context.Context, instruction string, transcript []dialogue.Turn) (string, error) {
	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    p.model,
		Messages: openAIMessages(buildClarifyInstruction(instruction), transcript),
	})
	if err != nil {
		return "", fmt.Errorf("openai: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

func openAIMessages(system string, transcript []dialogue.Turn) []openai.ChatCompletionMessageParamUnion {
	out := []openai.ChatCompletionMessageParamUnion{openai.SystemMessage(system)}
	for _, m := range toMessages(transcript) {
		if m.Role == "assistant" {
			out = append(out, openai.AssistantMessage(m.Content))
		} else {
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}
