// README: Terminal chat against the configured LLM provider; one in-memory session, bookings written to disk.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"go.uber.org/zap"

	"farebot/internal/ai"
	"farebot/internal/config"
	"farebot/internal/infra"
	"farebot/internal/modules/dialogue"
	"farebot/internal/modules/location"
	"farebot/internal/modules/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger, err := infra.NewLogger(false, "warn")
	if err != nil {
		log.Fatal(err)
	}

	resolver, err := location.Open(func() ([]location.Hub, error) { return location.LoadFile(cfg.Airports.CSV) })
	if err != nil {
		logger.Warn("load airports; every place will be reported as not found", zap.String("csv", cfg.Airports.CSV), zap.Error(err))
	}

	ctx := context.Background()
	provider, err := ai.New(ctx, ai.Options{
		Provider:     cfg.LLM.Provider,
		GeminiAPIKey: cfg.Gemini.APIKey,
		GeminiModel:  cfg.Gemini.Model,
		OpenAIAPIKey: cfg.OpenAI.APIKey,
		OpenAIModel:  cfg.OpenAI.Model,
	})
	if err != nil {
		log.Fatalf("Failed to initialize AI provider: %v", err)
	}
	defer provider.Close()

	sink := session.NewFileSink(cfg.Bookings.Dir)
	engine := dialogue.NewEngine(provider, provider, resolver)
	manager := session.NewManager(session.NewMemoryStore(0), sink, engine, logger)

	s, _, err := manager.GetOrCreate(ctx, "")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Bot: %s\n", dialogue.Greeting)

	id := s.ID
	in := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("You: ")
		if !in.Scan() {
			return
		}
		line := strings.TrimSpace(in.Text())
		if line == "quit" || line == "exit" {
			return
		}

		res, err := manager.Turn(ctx, id, line)
		if err != nil {
			logger.Error("turn failed", zap.Error(err))
			fmt.Println("Bot: something went wrong, try again.")
			continue
		}
		id = res.SessionID
		fmt.Printf("Bot: %s\n", res.Reply)
		if res.Complete {
			fmt.Printf("Booking written to %s\n", sink.Path(res.SessionID))
			return
		}
	}
}
