package openai

// Config contains OpenAI generative model settings.
type Config struct {
	APIKey     string `env:"OPENAI_API_KEY"`
	BaseURL    string `env:"OPENAI_BASE_URL"`
	Model      string `env:"FALLBACK_MODEL"       envDefault:"gpt-4o-mini"`
	Timeout    int    `env:"OPENAI_TIMEOUT"       envDefault:"30"`
	MaxRetries int    `env:"OPENAI_MAX_RETRIES"   envDefault:"3"`
}
