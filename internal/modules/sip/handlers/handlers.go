// Package handlers provides HTTP handlers for SIP schedule operations.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/aristath/fundlens/internal/modules/market_hours"
	"github.com/aristath/fundlens/internal/modules/sip"
	"github.com/aristath/fundlens/internal/utils"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler handles SIP HTTP requests
type Handler struct {
	now func() time.Time
	log zerolog.Logger
}

// NewHandler creates a new SIP handler
func NewHandler(log zerolog.Logger) *Handler {
	return &Handler{
		now: time.Now,
		log: log.With().Str("handler", "sip").Logger(),
	}
}

// RegisterRoutes registers all SIP routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/sip", func(r chi.Router) {
		r.Get("/installments", h.HandleGetInstallments)
	})
}

// HandleGetInstallments handles GET /api/sip/installments
//
// Query parameters: start_date (required), sip_day (defaults to the start
// date's day), today (defaults to the current date in India) and
// manual_amount (defaults to true).
func (h *Handler) HandleGetInstallments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	req := sip.Request{ManualAmount: true}

	if raw := q.Get("start_date"); raw != "" {
		start, err := utils.ParseDate(raw)
		if err != nil {
			h.badRequest(w, "start_date: "+err.Error())
			return
		}
		req.StartDate = start
		req.DayOfMonth = start.Day()
	}

	if raw := q.Get("sip_day"); raw != "" {
		day, err := strconv.Atoi(raw)
		if err != nil {
			h.badRequest(w, "sip_day must be an integer")
			return
		}
		req.DayOfMonth = day
	}

	req.Today = h.now().In(market_hours.IST)
	if raw := q.Get("today"); raw != "" {
		today, err := utils.ParseDate(raw)
		if err != nil {
			h.badRequest(w, "today: "+err.Error())
			return
		}
		req.Today = today
	}

	if raw := q.Get("manual_amount"); raw != "" {
		manual, err := strconv.ParseBool(raw)
		if err != nil {
			h.badRequest(w, "manual_amount must be a boolean")
			return
		}
		req.ManualAmount = manual
	}

	schedule, err := sip.Generate(req)
	if err != nil {
		if errors.Is(err, sip.ErrInvalidDayOfMonth) || errors.Is(err, sip.ErrMissingStartDate) || errors.Is(err, sip.ErrMissingToday) {
			h.badRequest(w, err.Error())
			return
		}
		h.log.Error().Err(err).Msg("Failed to generate installments")
		http.Error(w, "Failed to generate installments", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"start_date":       req.StartDate.Format("2006-01-02"),
			"sip_day":          req.DayOfMonth,
			"today":            req.Today.Format("2006-01-02"),
			"installments":     schedule.Installments,
			"assumed_paid":     schedule.AssumedPaid,
			"pending":          schedule.Pending,
			"next_installment": schedule.Next.Format("2006-01-02"),
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

func (h *Handler) badRequest(w http.ResponseWriter, msg string) {
	h.log.Debug().Str("reason", msg).Msg("Rejected installment request")
	http.Error(w, msg, http.StatusBadRequest)
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
