package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"farebot/internal/modules/dialogue"
)

// ErrEmptyResponse is returned when a model answers with no usable text.
var ErrEmptyResponse = errors.New("empty model response")

// Provider extracts trip fields and phrases clarification questions.
// It satisfies both collaborator contracts of the dialogue engine.
type Provider interface {
	dialogue.Extractor
	dialogue.Generator
	Close() error
}

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Options selects and configures a provider.
type Options struct {
	Provider     string
	GeminiAPIKey string
	GeminiModel  string
	OpenAIAPIKey string
	OpenAIModel  string
	// Now is used to tell the model today's date. Defaults to time.Now.
	Now func() time.Time
}

// New builds the provider named in opts.
func New(ctx context.Context, opts Options) (Provider, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	switch opts.Provider {
	case ProviderGemini, "":
		return NewGeminiProvider(ctx, opts.GeminiAPIKey, opts.GeminiModel, opts.Now)
	case ProviderOpenAI:
		return NewOpenAIProvider(opts.OpenAIAPIKey, opts.OpenAIModel, opts.Now), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", opts.Provider)
	}
}
