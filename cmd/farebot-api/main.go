// README: Entry point; loads config, wires stores, providers and the dialogue engine, starts the HTTP server.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"farebot/internal/ai"
	"farebot/internal/config"
	httptransport "farebot/internal/http"
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

	logger, err := infra.NewLogger(cfg.IsProduction(), cfg.Log.Level)
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	if cfg.Sink == "postgres" || cfg.Airports.Source == "postgres" {
		pool, err = infra.NewDB(ctx, cfg.DB.DSN)
		if err != nil {
			logger.Fatal("postgres init", zap.Error(err))
		}
		defer pool.Close()
	}

	resolver, err := location.Open(func() ([]location.Hub, error) { return loadHubs(ctx, cfg, pool) })
	if err != nil {
		logger.Warn("load airports", zap.String("source", cfg.Airports.Source), zap.Error(err))
	}
	if resolver.Len() == 0 {
		logger.Warn("airport dataset is empty; every place will be reported as not found")
	} else {
		logger.Info("airports loaded", zap.Int("hubs", resolver.Len()), zap.String("source", cfg.Airports.Source))
	}

	provider, err := ai.New(ctx, ai.Options{
		Provider:     cfg.LLM.Provider,
		GeminiAPIKey: cfg.Gemini.APIKey,
		GeminiModel:  cfg.Gemini.Model,
		OpenAIAPIKey: cfg.OpenAI.APIKey,
		OpenAIModel:  cfg.OpenAI.Model,
	})
	if err != nil {
		logger.Fatal("llm provider init", zap.Error(err))
	}
	defer provider.Close()

	var store session.Store
	switch cfg.Session.Store {
	case "redis":
		rdb, err := infra.NewRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Fatal("redis init", zap.Error(err))
		}
		defer rdb.Close()
		store = session.NewRedisStore(rdb, cfg.Session.TTL)
	default:
		store = session.NewMemoryStore(cfg.Session.TTL)
	}

	var sink session.Sink
	switch cfg.Sink {
	case "postgres":
		sink = session.NewPostgresSink(pool)
	default:
		sink = session.NewFileSink(cfg.Bookings.Dir)
	}

	engine := dialogue.NewEngine(provider, provider, resolver)
	manager := session.NewManager(store, sink, engine, logger)

	server := httptransport.NewServer(cfg.HTTP.Addr, httptransport.ServerDeps{
		Sessions:    manager,
		Log:         logger,
		TurnTimeout: cfg.HTTP.Timeout,
		RatePerMin:  cfg.Rate.PerMin,
		RateBurst:   cfg.Rate.Burst,
		Production:  cfg.IsProduction(),
	})
	if err := server.Run(ctx); err != nil {
		logger.Fatal("http server", zap.Error(err))
	}
}

func loadHubs(ctx context.Context, cfg config.Config, pool *pgxpool.Pool) ([]location.Hub, error) {
	if cfg.Airports.Source == "postgres" {
		return location.NewStore(pool).Load(ctx)
	}
	return location.LoadFile(cfg.Airports.CSV)
}
