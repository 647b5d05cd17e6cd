package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/dig"

	"github.com/MaksimVF/AI-BackLog-Assistant-sub002/internal/agent"
	embopenai "github.com/MaksimVF/AI-BackLog-Assistant-sub002/internal/embedding/openai"
	llmopenai "github.com/MaksimVF/AI-BackLog-Assistant-sub002/internal/llm/openai"
)

// Config represents the categorization service configuration.
type Config struct {
	Server    ServerConfig
	CORS      CORSConfig
	Agent     agent.Config
	Embedding EmbeddingConfig
	OpenAIEmb embopenai.Config
	OpenAILLM llmopenai.Config
	Storage   StorageConfig
	Trainer   TrainerConfig
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port         int `env:"SERVER_PORT"          envDefault:"8080"`
	ReadTimeout  int `env:"SERVER_READ_TIMEOUT"  envDefault:"30"`
	WriteTimeout int `env:"SERVER_WRITE_TIMEOUT" envDefault:"30"`
}

// CORSConfig contains CORS policy settings.
type CORSConfig struct {
	AllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS"   envSeparator:"," envDefault:"*"`
	AllowedMethods   []string `env:"CORS_ALLOWED_METHODS"   envSeparator:"," envDefault:"GET,POST,PUT,DELETE,OPTIONS"`
	AllowedHeaders   []string `env:"CORS_ALLOWED_HEADERS"   envSeparator:"," envDefault:"Content-Type,Authorization"`
	AllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS"                  envDefault:"true"`
	MaxAge           int      `env:"CORS_MAX_AGE"                            envDefault:"86400"`
}

// EmbeddingConfig contains embedding provider settings.
type EmbeddingConfig struct {
	CacheMaxSize int `env:"EMBEDDING_CACHE_MAX_SIZE" envDefault:"1000"`
}

// StorageConfig contains taxonomy and log store settings.
type StorageConfig struct {
	TaxonomyDir string `env:"TAXONOMY_DIR"               envDefault:"data/taxonomy"`
	LogDir      string `env:"CATEGORIZATION_LOG_DIR"     envDefault:"data/categorization_logs"`
	LogBackend  string `env:"CATEGORIZATION_LOG_BACKEND" envDefault:"file"`
	RedisAddr   string `env:"REDIS_ADDR"                 envDefault:"localhost:6379"`
	RedisDB     int    `env:"REDIS_DB"                   envDefault:"0"`
}

// TrainerConfig contains self-learning trainer settings.
type TrainerConfig struct {
	MinConfidence   float64 `env:"RETRAIN_MIN_CONFIDENCE" envDefault:"0.8"`
	RetrainSchedule string  `env:"RETRAIN_SCHEDULE"       envDefault:"0 3 * * *"`
}

// DepConfig is used for dependency injection with dig. The three Config
// types from other packages need explicit field names to coexist.
type DepConfig struct {
	dig.Out

	Server    *ServerConfig
	CORS      *CORSConfig
	Agent     *agent.Config
	Embedding *EmbeddingConfig
	OpenAIEmb *embopenai.Config
	OpenAILLM *llmopenai.Config
	Storage   *StorageConfig
	Trainer   *TrainerConfig
}

// Load loads environment files and parses configuration.
func Load() *Config {
	for _, file := range []string{".env"} {
		_ = godotenv.Load(file)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		panic(err)
	}

	return &cfg
}

// ParseDependenciesConfig returns pointers to sub-configs for dependency injection.
func ParseDependenciesConfig(cfg *Config) DepConfig {
	return DepConfig{
		Out:       dig.Out{},
		Server:    &cfg.Server,
		CORS:      &cfg.CORS,
		Agent:     &cfg.Agent,
		Embedding: &cfg.Embedding,
		OpenAIEmb: &cfg.OpenAIEmb,
		OpenAILLM: &cfg.OpenAILLM,
		Storage:   &cfg.Storage,
		Trainer:   &cfg.Trainer,
	}
}
