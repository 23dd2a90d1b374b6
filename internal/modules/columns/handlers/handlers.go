// Package handlers provides HTTP handlers for column normalization.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/aristath/fundlens/internal/modules/columns"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// maxHeaders bounds a single normalization request
const maxHeaders = 256

// Handler handles column normalization HTTP requests
type Handler struct {
	normalizer *columns.Normalizer
	log        zerolog.Logger
}

// NewHandler creates a new column normalization handler
func NewHandler(normalizer *columns.Normalizer, log zerolog.Logger) *Handler {
	if normalizer == nil {
		normalizer = columns.NewNormalizer()
	}
	return &Handler{
		normalizer: normalizer,
		log:        log.With().Str("handler", "columns").Logger(),
	}
}

// RegisterRoutes registers all column routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/columns", func(r chi.Router) {
		r.Post("/normalize", h.HandleNormalize)
	})
}

// NormalizeRequest is the body of POST /api/columns/normalize
type NormalizeRequest struct {
	Headers []string `json:"headers"`
	Explain bool     `json:"explain"`
}

// HandleNormalize handles POST /api/columns/normalize
// With explain set, every scored (header, field) candidate is returned too.
func (h *Handler) HandleNormalize(w http.ResponseWriter, r *http.Request) {
	var req NormalizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.Headers) > maxHeaders {
		http.Error(w, "too many headers", http.StatusBadRequest)
		return
	}

	mapping := h.normalizer.Normalize(req.Headers)

	data := map[string]interface{}{
		"mapping":  mapping,
		"complete": mapping.Len() == len(columns.Fields),
	}
	if req.Explain {
		data["candidates"] = h.normalizer.Candidates(req.Headers)
	}

	h.log.Debug().
		Int("headers", len(req.Headers)).
		Int("mapped", mapping.Len()).
		Msg("Normalized header row")

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": data,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
