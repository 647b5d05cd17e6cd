package main

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"go.uber.org/dig"

	"github.com/MaksimVF/AI-BackLog-Assistant-sub002/internal/agent"
	"github.com/MaksimVF/AI-BackLog-Assistant-sub002/internal/categorizer"
	"github.com/MaksimVF/AI-BackLog-Assistant-sub002/internal/categorizer/registry"
	"github.com/MaksimVF/AI-BackLog-Assistant-sub002/internal/config"
	"github.com/MaksimVF/AI-BackLog-Assistant-sub002/internal/domain"
	"github.com/MaksimVF/AI-BackLog-Assistant-sub002/internal/embedding"
	embopenai "github.com/MaksimVF/AI-BackLog-Assistant-sub002/internal/embedding/openai"
	httpapi "github.com/MaksimVF/AI-BackLog-Assistant-sub002/internal/http"
	"github.com/MaksimVF/AI-BackLog-Assistant-sub002/internal/http/middleware"
	llmopenai "github.com/MaksimVF/AI-BackLog-Assistant-sub002/internal/llm/openai"
	"github.com/MaksimVF/AI-BackLog-Assistant-sub002/internal/observability"
	"github.com/MaksimVF/AI-BackLog-Assistant-sub002/internal/routing"
	filestore "github.com/MaksimVF/AI-BackLog-Assistant-sub002/internal/store/file"
	redisstore "github.com/MaksimVF/AI-BackLog-Assistant-sub002/internal/store/redis"
	"github.com/MaksimVF/AI-BackLog-Assistant-sub002/internal/trainer"
)

func main() {
	container := buildContainer()

	err := container.Invoke(func(server *httpapi.Server, tr *trainer.Trainer, trainerCfg *config.TrainerConfig) {
		startRetrainSchedule(tr, trainerCfg.RetrainSchedule)

		if err := server.Start(); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}
}

func buildContainer() *dig.Container {
	container := dig.New()

	// Configuration
	if err := container.Provide(config.Load); err != nil {
		log.Fatalf("Failed to provide config: %v", err)
	}
	if err := container.Provide(config.ParseDependenciesConfig); err != nil {
		log.Fatalf("Failed to provide config dependencies: %v", err)
	}

	// Observability
	if err := container.Provide(observability.InitLogger); err != nil {
		log.Fatalf("Failed to provide logger: %v", err)
	}

	// Embedding generator (optional: without an API key the provider runs on
	// its deterministic fallback).
	if err := container.Provide(func(cfg *embopenai.Config) domain.EmbeddingGenerator {
		if cfg.APIKey == "" {
			return nil
		}

		generator, err := embopenai.NewGenerator(*cfg)
		if err != nil {
			log.Printf("OpenAI embedding generator unavailable: %v", err)
			return nil
		}
		return generator
	}); err != nil {
		log.Fatalf("Failed to provide embedding generator: %v", err)
	}

	// Embedding provider
	if err := container.Provide(func(generator domain.EmbeddingGenerator, cfg *config.EmbeddingConfig) domain.Embedder {
		return embedding.NewProvider(generator, cfg.CacheMaxSize)
	}); err != nil {
		log.Fatalf("Failed to provide embedding provider: %v", err)
	}

	// Stores
	if err := container.Provide(func(cfg *config.StorageConfig) (domain.TaxonomyStore, error) {
		return filestore.NewTaxonomyStore(cfg.TaxonomyDir)
	}); err != nil {
		log.Fatalf("Failed to provide taxonomy store: %v", err)
	}
	if err := container.Provide(func(cfg *config.StorageConfig) (domain.ResultLog, error) {
		if cfg.LogBackend == "redis" {
			client := redis.NewClient(&redis.Options{
				Addr: cfg.RedisAddr,
				DB:   cfg.RedisDB,
			})
			return redisstore.NewResultLog(client), nil
		}
		return filestore.NewResultLog(cfg.LogDir)
	}); err != nil {
		log.Fatalf("Failed to provide result log: %v", err)
	}

	// Categorizer registry
	if err := container.Provide(func() domain.CategorizerRegistry {
		return registry.NewRegistry()
	}); err != nil {
		log.Fatalf("Failed to provide registry: %v", err)
	}

	// Seed the registry with a categorizer per domain (invoked for side effects)
	if err := container.Invoke(func(
		reg domain.CategorizerRegistry,
		store domain.TaxonomyStore,
		embedder domain.Embedder,
	) {
		ctx := context.Background()
		for _, domainKey := range categorizer.Domains() {
			reg.Register(domainKey, categorizer.Build(ctx, domainKey, store, embedder))
		}
	}); err != nil {
		log.Fatalf("Failed to seed categorizer registry: %v", err)
	}

	// Router
	if err := container.Provide(routing.NewRouter); err != nil {
		log.Fatalf("Failed to provide router: %v", err)
	}

	// Generative fallback model (optional)
	if err := container.Provide(func(cfg *llmopenai.Config) domain.TextGenerator {
		if cfg.APIKey == "" {
			return nil
		}

		generator, err := llmopenai.NewGenerator(*cfg)
		if err != nil {
			log.Printf("OpenAI text generator unavailable: %v", err)
			return nil
		}
		return generator
	}); err != nil {
		log.Fatalf("Failed to provide text generator: %v", err)
	}

	// Second-level categorization agent
	if err := container.Provide(func(
		router *routing.Router,
		reg domain.CategorizerRegistry,
		generator domain.TextGenerator,
		resultLog domain.ResultLog,
		cfg *agent.Config,
	) *agent.Agent {
		return agent.NewAgent(router, reg, generator, resultLog, *cfg)
	}); err != nil {
		log.Fatalf("Failed to provide agent: %v", err)
	}

	// Self-learning trainer
	if err := container.Provide(func(
		reg domain.CategorizerRegistry,
		store domain.TaxonomyStore,
		resultLog domain.ResultLog,
		embedder domain.Embedder,
		cfg *config.TrainerConfig,
	) *trainer.Trainer {
		return trainer.NewTrainer(reg, store, resultLog, trainer.NewBuilders(embedder), cfg.MinConfidence)
	}); err != nil {
		log.Fatalf("Failed to provide trainer: %v", err)
	}

	// HTTP Layer
	if err := container.Provide(func(corsCfg *config.CORSConfig) middleware.Middleware {
		return middleware.BuildMiddlewareChain(corsCfg)
	}); err != nil {
		log.Fatalf("Failed to provide middleware chain: %v", err)
	}
	if err := container.Provide(httpapi.NewHandler); err != nil {
		log.Fatalf("Failed to provide HTTP handler: %v", err)
	}
	if err := container.Provide(httpapi.NewServer); err != nil {
		log.Fatalf("Failed to provide HTTP server: %v", err)
	}

	return container
}

// startRetrainSchedule runs the batch retrain on the configured cron
// schedule. An empty schedule disables it.
func startRetrainSchedule(tr *trainer.Trainer, schedule string) {
	if schedule == "" {
		return
	}

	c := cron.New()
	if _, err := c.AddFunc(schedule, func() {
		ctx := observability.WithRequestID(context.Background(), observability.GenerateRequestID())
		tr.RetrainAll(ctx)
	}); err != nil {
		log.Printf("Invalid retrain schedule %q: %v", schedule, err)
		return
	}

	c.Start()
}
