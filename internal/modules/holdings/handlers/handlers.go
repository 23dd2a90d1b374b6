// Package handlers provides HTTP handlers for holdings ingestion.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/aristath/fundlens/internal/modules/holdings"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

const defaultListLimit = 20

// Handler handles holdings HTTP requests
type Handler struct {
	service  *holdings.Service
	maxBytes int64
	log      zerolog.Logger
}

// NewHandler creates a new holdings handler. maxBytes caps the request body.
func NewHandler(service *holdings.Service, maxBytes int64, log zerolog.Logger) *Handler {
	return &Handler{
		service:  service,
		maxBytes: maxBytes,
		log:      log.With().Str("handler", "holdings").Logger(),
	}
}

// RegisterRoutes registers all holdings routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/holdings", func(r chi.Router) {
		r.Post("/upload", h.HandleUpload)
		r.Get("/uploads", h.HandleListUploads)
		r.Get("/uploads/{id}", h.HandleGetUpload)
	})
}

// HandleUpload handles POST /api/holdings/upload
// Expects a multipart form with a "file" part and an optional "sheet" field
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			http.Error(w, "File too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	result, err := h.service.Ingest(header.Filename, file, r.FormValue("sheet"))
	if err != nil {
		switch {
		case errors.Is(err, holdings.ErrUnsupportedFormat),
			errors.Is(err, holdings.ErrNoHeaderRow),
			errors.Is(err, holdings.ErrMissingIdentifierColumn):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			h.log.Error().Err(err).Str("filename", header.Filename).Msg("Failed to ingest upload")
			http.Error(w, "Failed to process file", http.StatusInternalServerError)
		}
		return
	}

	h.writeJSON(w, http.StatusCreated, map[string]interface{}{
		"data": result,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// HandleListUploads handles GET /api/holdings/uploads
func (h *Handler) HandleListUploads(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	uploads, err := h.service.Recent(limit)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list uploads")
		http.Error(w, "Failed to list uploads", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"uploads": uploads,
			"count":   len(uploads),
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// HandleGetUpload handles GET /api/holdings/uploads/{id}
func (h *Handler) HandleGetUpload(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	payload, err := h.service.Get(id)
	if err != nil {
		if errors.Is(err, holdings.ErrUploadNotFound) {
			http.Error(w, "Upload not found", http.StatusNotFound)
			return
		}
		h.log.Error().Err(err).Str("upload_id", id).Msg("Failed to get upload")
		http.Error(w, "Failed to get upload", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": json.RawMessage(payload),
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
