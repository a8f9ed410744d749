package app

import (
	"context"
	"log/slog"

	"pagelens/internal/adapter/gemini"
	"pagelens/internal/adapter/openai"
	"pagelens/internal/answer"
	"pagelens/internal/config"
	"pagelens/internal/vector"
)

// Capabilities holds the process-wide provider handles. A nil handle means
// the capability is absent; the orchestrator branches on presence once per
// request rather than probing at each use site. Handles are immutable after
// Probe and safe for concurrent use.
type Capabilities struct {
	Embedder  vector.Embedder
	Generator answer.Generator
	Provider  string
}

// Probe detects which provider the process can use: Gemini when its key is
// set and the client comes up, otherwise OpenAI, otherwise nothing. The
// server still starts with no provider so health reporting stays reachable,
// but every query will fail until one is configured.
func Probe(ctx context.Context, cfg *config.Config) *Capabilities {
	if cfg.GeminiAPIKey != "" {
		client, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiEmbedModel, cfg.GeminiGenModel)
		if err == nil {
			slog.Info("using gemini provider", "embed_model", cfg.GeminiEmbedModel, "gen_model", cfg.GeminiGenModel)
			return &Capabilities{Embedder: client, Generator: client, Provider: "gemini"}
		}
		slog.Warn("gemini client initialization failed, trying fallback", "error", err)
	}

	if cfg.OpenAIAPIKey != "" {
		client := openai.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIEmbedModel, cfg.OpenAIGenModel)
		slog.Info("using openai provider", "embed_model", cfg.OpenAIEmbedModel, "gen_model", cfg.OpenAIGenModel)
		return &Capabilities{Embedder: client, Generator: client, Provider: "openai"}
	}

	slog.Warn("no provider configured: set GEMINI_API_KEY or OPENAI_API_KEY; all queries will fail until then")
	return &Capabilities{}
}
