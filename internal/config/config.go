package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v6"
)

type LLMProvider string

const (
	ProviderOpenAI LLMProvider = "openai"
	ProviderOllama LLMProvider = "ollama"
)

type Config struct {
	ServerAddr string `env:"SERVER_ADDR" envDefault:"0.0.0.0:8080"`

	// LLM settings
	LLMProvider    LLMProvider   `env:"LLM_PROVIDER" envDefault:"ollama"`
	OllamaURL      string        `env:"OLLAMA_URL" envDefault:"http://localhost:11434/api/generate"`
	OllamaModel    string        `env:"OLLAMA_MODEL" envDefault:"dolphin-llama3"`
	MaxTokens      int           `env:"MAX_TOKENS" envDefault:"100"`
	OpenAIAPIKey   string        `env:"OPENAI_API_KEY"`
	OpenAIBaseURL  string        `env:"OPENAI_BASE_URL"`
	OpenAIModel    string        `env:"OPENAI_MODEL" envDefault:"gpt-3.5-turbo"`
	BackendTimeout time.Duration `env:"BACKEND_TIMEOUT" envDefault:"30s"`

	// Storage
	HistoryFilePath       string `env:"HISTORY_FILE_PATH" envDefault:"data/answers.json"`
	HistoryBackupSchedule string `env:"HISTORY_BACKUP_SCHEDULE"`

	// HTTP
	RateLimit int `env:"RATE_LIMIT" envDefault:"10"` // requests per second per client

	// Telemetry
	EnableOTEL   bool   `env:"ENABLE_OTEL" envDefault:"false"`
	OTELEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4317"`
}

func New() *Config {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	return cfg
}
