package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"farebot/internal/modules/dialogue"
	"farebot/internal/modules/trip"
)

const DefaultGeminiModel = "gemini-2.5-flash"

// GeminiProvider implements Provider using Google's Gemini models.
type GeminiProvider struct {
	client    *genai.Client
	extractor *genai.GenerativeModel
	modelName string
	now       func() time.Time
}

// NewGeminiProvider initializes a new Gemini client.
// apiKey should be provided from configuration.
func NewGeminiProvider(ctx context.Context, apiKey, modelName string, now func() time.Time) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	if modelName == "" {
		modelName = DefaultGeminiModel
	}
	if now == nil {
		now = time.Now
	}

	// Extraction must be deterministic JSON.
	extractor := client.GenerativeModel(modelName)
	extractor.ResponseMIMEType = "application/json"
	extractor.SetTemperature(0)

	return &GeminiProvider{
		client:    client,
		extractor: extractor,
		modelName: modelName,
		now:       now,
	}, nil
}

// Close cleans up the Gemini client resources.
func (p *GeminiProvider) Close() error {
	return p.client.Close()
}

func (p *GeminiProvider) Extract(ctx context.Context, transcript []dialogue.Turn, current trip.Request) (map[string]any, error) {
	prompt, err := buildExtractionPrompt(transcript, current, p.now())
	if err != nil {
		return nil, err
	}
	resp, err := p.extractor.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("gemini generation error: %w", err)
	}
	return decodeFields(responseText(resp))
}

// Clarify runs a chat with the instruction as system prompt and the transcript as history.
func (p *GeminiProvider) Clarify(ctx context.Context, instruction string, transcript []dialogue.Turn) (string, error) {
	model := p.client.GenerativeModel(p.modelName)
	model.SystemInstruction = genai.NewUserContent(genai.Text(buildClarifyInstruction(instruction)))

	history, last := geminiHistory(transcript)
	if last == "" {
		return "", fmt.Errorf("clarify: %w", ErrEmptyResponse)
	}
	cs := model.StartChat()
	cs.History = history

	resp, err := cs.SendMessage(ctx, genai.Text(last))
	if err != nil {
		return "", fmt.Errorf("gemini chat error: %w", err)
	}
	text := strings.TrimSpace(responseText(resp))
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// geminiHistory converts the transcript into chat history plus the message to send.
// Gemini histories must open with a user turn and alternate roles, so leading assistant
// turns are dropped and consecutive turns of one role are joined.
func geminiHistory(transcript []dialogue.Turn) ([]*genai.Content, string) {
	msgs := toMessages(transcript)
	for len(msgs) > 0 && msgs[0].Role != "user" {
		msgs = msgs[1:]
	}
	if len(msgs) == 0 {
		return nil, ""
	}

	var last string
	if msgs[len(msgs)-1].Role == "user" {
		last = msgs[len(msgs)-1].Content
		msgs = msgs[:len(msgs)-1]
	}

	var history []*genai.Content
	for _, m := range msgs {
		role := "user"
		if m.Role == "assistant" {
			role = "model"
		}
		if n := len(history); n > 0 && history[n-1].Role == role {
			history[n-1].Parts = append(history[n-1].Parts, genai.Text(m.Content))
			continue
		}
		history = append(history, &genai.Content{Role: role, Parts: []genai.Part{genai.Text(m.Content)}})
	}
	return history, last
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	return b.String()
}
