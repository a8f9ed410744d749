package health

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Handler reports whether the embedding and language-model capabilities were
// initialized at startup. The booleans are fixed for the process lifetime.
type Handler struct {
	llmInitialized        bool
	embeddingsInitialized bool
}

func NewHandler(llmInitialized, embeddingsInitialized bool) *Handler {
	return &Handler{
		llmInitialized:        llmInitialized,
		embeddingsInitialized: embeddingsInitialized,
	}
}

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	resp := map[string]bool{
		"llm_initialized":        h.llmInitialized,
		"embeddings_initialized": h.embeddingsInitialized,
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.ErrorContext(r.Context(), "failed to encode health response", "error", err)
	}
}

// Ping handles GET /ping, a lightweight liveness check.
func (h *Handler) Ping(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
