package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all trading calendar routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/market-hours", func(r chi.Router) {
		r.Get("/status", h.HandleGetStatus)
		r.Get("/holidays", h.HandleGetHolidays)
		r.Get("/trading-day", h.HandleGetTradingDay)
		r.Get("/previous-business-day", h.HandleGetPreviousBusinessDay)
		r.Get("/next-trading-day", h.HandleGetNextTradingDay)
	})
}
