package config_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MaksimVF/AI-BackLog-Assistant-sub002/internal/config"
)

func TestLoad(t *testing.T) {
	t.Run("should load config with defaults", func(t *testing.T) {
		// Clear environment
		os.Clearenv()

		cfg := config.Load()

		require.NotNil(t, cfg)

		// Verify defaults
		require.Equal(t, 8080, cfg.Server.Port)
		require.Equal(t, 30, cfg.Server.ReadTimeout)
		require.Equal(t, 30, cfg.Server.WriteTimeout)
		require.Equal(t, 0.6, cfg.Agent.ConfidenceThreshold)
		require.True(t, cfg.Agent.EnableLearning)
		require.Equal(t, 1000, cfg.Embedding.CacheMaxSize)
		require.Equal(t, "text-embedding-3-small", cfg.OpenAIEmb.Model)
		require.Equal(t, "gpt-4o-mini", cfg.OpenAILLM.Model)
		require.Empty(t, cfg.OpenAIEmb.APIKey)
		require.Equal(t, "data/taxonomy", cfg.Storage.TaxonomyDir)
		require.Equal(t, "data/categorization_logs", cfg.Storage.LogDir)
		require.Equal(t, "file", cfg.Storage.LogBackend)
		require.Equal(t, 0.8, cfg.Trainer.MinConfidence)
		require.Equal(t, "0 3 * * *", cfg.Trainer.RetrainSchedule)
	})

	t.Run("should load config from environment variables", func(t *testing.T) {
		// Set environment variables using t.Setenv for automatic cleanup
		t.Setenv("SERVER_PORT", "9000")
		t.Setenv("CATEGORIZATION_CONFIDENCE_THRESHOLD", "0.75")
		t.Setenv("CATEGORIZATION_ENABLE_LEARNING", "false")
		t.Setenv("EMBEDDING_CACHE_MAX_SIZE", "50")
		t.Setenv("OPENAI_API_KEY", "sk-test-key")
		t.Setenv("EMBEDDING_MODEL", "text-embedding-3-large")
		t.Setenv("FALLBACK_MODEL", "gpt-4o")
		t.Setenv("TAXONOMY_DIR", "/tmp/taxonomy")
		t.Setenv("CATEGORIZATION_LOG_BACKEND", "redis")
		t.Setenv("REDIS_ADDR", "redis:6379")
		t.Setenv("RETRAIN_MIN_CONFIDENCE", "0.9")
		t.Setenv("RETRAIN_SCHEDULE", "@hourly")

		cfg := config.Load()

		require.NotNil(t, cfg)

		// Verify loaded values
		require.Equal(t, 9000, cfg.Server.Port)
		require.Equal(t, 0.75, cfg.Agent.ConfidenceThreshold)
		require.False(t, cfg.Agent.EnableLearning)
		require.Equal(t, 50, cfg.Embedding.CacheMaxSize)
		require.Equal(t, "sk-test-key", cfg.OpenAIEmb.APIKey)
		require.Equal(t, "text-embedding-3-large", cfg.OpenAIEmb.Model)
		require.Equal(t, "gpt-4o", cfg.OpenAILLM.Model)
		require.Equal(t, "/tmp/taxonomy", cfg.Storage.TaxonomyDir)
		require.Equal(t, "redis", cfg.Storage.LogBackend)
		require.Equal(t, "redis:6379", cfg.Storage.RedisAddr)
		require.Equal(t, 0.9, cfg.Trainer.MinConfidence)
		require.Equal(t, "@hourly", cfg.Trainer.RetrainSchedule)
	})

	t.Run("should fan out sub-config pointers for injection", func(t *testing.T) {
		os.Clearenv()

		cfg := config.Load()
		deps := config.ParseDependenciesConfig(cfg)

		require.Same(t, &cfg.Server, deps.Server)
		require.Same(t, &cfg.CORS, deps.CORS)
		require.Same(t, &cfg.Agent, deps.Agent)
		require.Same(t, &cfg.Embedding, deps.Embedding)
		require.Same(t, &cfg.OpenAIEmb, deps.OpenAIEmb)
		require.Same(t, &cfg.OpenAILLM, deps.OpenAILLM)
		require.Same(t, &cfg.Storage, deps.Storage)
		require.Same(t, &cfg.Trainer, deps.Trainer)
	})
}
