package ai

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/samber/lo"

	"farebot/internal/modules/dialogue"
	"farebot/internal/modules/trip"
)

func sampleTranscript() []dialogue.Turn {
	return []dialogue.Turn{
		{Role: dialogue.RoleSystem, Content: dialogue.Greeting},
		{Role: dialogue.RoleUser, Content: "From London"},
		{Role: dialogue.RoleSystem, Content: "Which airport?"},
		{Role: dialogue.RoleUser, Content: "Heathrow"},
	}
}

func TestCleanJSONString(t *testing.T) {
	cases := map[string]string{
		"```json\n{\"a\":1}\n```": `{"a":1}`,
		"```{\"a\":1}```":         `{"a":1}`,
		"  {\"a\":1}  ":           `{"a":1}`,
	}
	for in, want := range cases {
		if got := cleanJSONString(in); got != want {
			t.Errorf("cleanJSONString(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDecodeFieldsKeepsNumbers(t *testing.T) {
	got, err := decodeFields("```json\n{\"adult_passengers\": 2, \"budget\": 1200.5, \"departure_city\": \"Boston\"}\n```")
	if err != nil {
		t.Fatalf("decodeFields: %v", err)
	}
	if n, ok := got["adult_passengers"].(json.Number); !ok || n.String() != "2" {
		t.Fatalf("expected json.Number 2, got %#v", got["adult_passengers"])
	}
	if got["departure_city"] != "Boston" {
		t.Fatalf("unexpected city %#v", got["departure_city"])
	}

	if _, err := decodeFields("   "); !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}
	if _, err := decodeFields("not json"); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestExtractionPrompt(t *testing.T) {
	current := trip.Request{DepartureCity: lo.ToPtr("London")}
	today := time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC)
	prompt, err := buildExtractionPrompt(sampleTranscript(), current, today)
	if err != nil {
		t.Fatalf("buildExtractionPrompt: %v", err)
	}
	for _, want := range []string{
		"Today is 2025-12-01 (Monday).",
		`"departure_city": "London"`,
		"user: Heathrow",
		"assistant: Which airport?",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestGeminiHistory(t *testing.T) {
	history, last := geminiHistory(sampleTranscript())
	if last != "Heathrow" {
		t.Fatalf("unexpected last message %q", last)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(history))
	}
	if history[0].Role != "user" || history[1].Role != "model" {
		t.Fatalf("unexpected roles %s, %s", history[0].Role, history[1].Role)
	}
	if txt, ok := history[0].Parts[0].(genai.Text); !ok || string(txt) != "From London" {
		t.Fatalf("unexpected first part %#v", history[0].Parts[0])
	}

	joined, _ := geminiHistory([]dialogue.Turn{
		{Role: dialogue.RoleUser, Content: "hi"},
		{Role: dialogue.RoleUser, Content: "anyone?"},
		{Role: dialogue.RoleSystem, Content: "yes"},
		{Role: dialogue.RoleUser, Content: "ok"},
	})
	if len(joined) != 2 || len(joined[0].Parts) != 2 {
		t.Fatalf("consecutive user turns should be joined, got %+v", joined)
	}

	if h, last := geminiHistory([]dialogue.Turn{{Role: dialogue.RoleSystem, Content: "hello"}}); h != nil || last != "" {
		t.Fatalf("assistant-only transcript should be empty")
	}
}

func TestOpenAIMessages(t *testing.T) {
	msgs := openAIMessages("system prompt", sampleTranscript())
	if len(msgs) != 5 {
		t.Fatalf("expected 5 messages, got %d", len(msgs))
	}
	if msgs[0].OfSystem == nil || msgs[1].OfAssistant == nil || msgs[2].OfUser == nil {
		t.Fatalf("unexpected message roles")
	}
}

func TestNewRejectsUnknownProvider(t *testing.T) {
	if _, err := New(context.Background(), Options{Provider: "llama"}); err == nil {
		t.Fatalf("expected error for unknown provider")
	}
}

func TestGeminiExtractIntegration(t *testing.T) {
	apiKey := os.Getenv("FAREBOT_GEMINI_API_KEY")
	if apiKey == "" {
		t.Skip("FAREBOT_GEMINI_API_KEY not set; skipping integration test")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	p, err := NewGeminiProvider(ctx, apiKey, "", nil)
	if err != nil {
		t.Fatalf("NewGeminiProvider: %v", err)
	}
	defer p.Close()

	raw, err := p.Extract(ctx, []dialogue.Turn{
		{Role: dialogue.RoleSystem, Content: dialogue.Greeting},
		{Role: dialogue.RoleUser, Content: "I want to fly from Boston to Tokyo with 2 adults"},
	}, trip.Request{})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	u := trip.Coerce(raw, trip.Today())
	if u.DepartureCity == nil || u.ArrivalCity == nil {
		t.Fatalf("expected both cities, got %+v", raw)
	}
	if u.AdultPassengers == nil || *u.AdultPassengers != 2 {
		t.Fatalf("expected 2 adults, got %+v", raw)
	}
}
