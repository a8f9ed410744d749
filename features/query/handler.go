package query

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Query handles POST /query. Missing inputs are the caller's fault (400);
// every pipeline or capability failure is a server-side 500 with the
// underlying message surfaced verbatim.
func (h *Handler) Query(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL      string `json:"url"`
		Question string `json:"question"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(r.Context(), w, "Missing 'url' or 'question' in request.", http.StatusBadRequest)
		return
	}

	envelope, err := h.service.Query(r.Context(), req.URL, req.Question)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ErrInput) {
			status = http.StatusBadRequest
		}
		h.writeError(r.Context(), w, err.Error(), status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(envelope); err != nil {
		slog.ErrorContext(r.Context(), "failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": message}); err != nil {
		slog.ErrorContext(ctx, "failed to encode error response", "error", err)
	}
}
