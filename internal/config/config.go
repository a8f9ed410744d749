package config

import (
	"errors"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	ServerPort int `envconfig:"SERVER_PORT" default:"8081"`

	// Provider credentials. Gemini is preferred when both are set.
	GeminiAPIKey string `envconfig:"GEMINI_API_KEY"`
	OpenAIAPIKey string `envconfig:"OPENAI_API_KEY"`

	GeminiEmbedModel string `envconfig:"GEMINI_EMBED_MODEL" default:"gemini-embedding-001"`
	GeminiGenModel   string `envconfig:"GEMINI_GEN_MODEL" default:"gemini-2.5-flash"`
	OpenAIEmbedModel string `envconfig:"OPENAI_EMBED_MODEL" default:"text-embedding-3-small"`
	OpenAIGenModel   string `envconfig:"OPENAI_GEN_MODEL" default:"gpt-4o-mini"`

	ChunkSize     int `envconfig:"CHUNK_SIZE" default:"2000"`
	ChunkOverlap  int `envconfig:"CHUNK_OVERLAP" default:"200"`
	RetrievalTopK int `envconfig:"RETRIEVAL_TOP_K" default:"4"`

	FetchTimeoutSeconds int   `envconfig:"FETCH_TIMEOUT_SECONDS" default:"30"`
	MaxDocumentBytes    int64 `envconfig:"MAX_DOCUMENT_BYTES" default:"10485760"` // 10MB

	QueryLogPath string `envconfig:"QUERY_LOG_PATH" default:"data/logs/query.log"`
}

func Load() (*Config, error) {
	// Env vars may be set in the shell instead, so a missing .env is fine.
	_ = godotenv.Load(".env")

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		return fmt.Errorf("%w: SERVER_PORT must be in 1..65535, got %d", ErrInvalid, c.ServerPort)
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("%w: CHUNK_SIZE must be positive, got %d", ErrInvalid, c.ChunkSize)
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("%w: CHUNK_OVERLAP must satisfy 0 <= overlap < CHUNK_SIZE, got %d", ErrInvalid, c.ChunkOverlap)
	}
	if c.RetrievalTopK <= 0 {
		return fmt.Errorf("%w: RETRIEVAL_TOP_K must be positive, got %d", ErrInvalid, c.RetrievalTopK)
	}
	if c.FetchTimeoutSeconds <= 0 {
		return fmt.Errorf("%w: FETCH_TIMEOUT_SECONDS must be positive, got %d", ErrInvalid, c.FetchTimeoutSeconds)
	}
	if c.MaxDocumentBytes <= 0 {
		return fmt.Errorf("%w: MAX_DOCUMENT_BYTES must be positive, got %d", ErrInvalid, c.MaxDocumentBytes)
	}
	return nil
}
