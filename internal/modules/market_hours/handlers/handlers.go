// Package handlers provides HTTP handlers for trading calendar operations.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/aristath/fundlens/internal/modules/market_hours"
	"github.com/aristath/fundlens/internal/utils"
	"github.com/rs/zerolog"
)

// Handler handles trading calendar HTTP requests
type Handler struct {
	calendar *market_hours.TradingCalendar
	now      func() time.Time
	log      zerolog.Logger
}

// NewHandler creates a new trading calendar handler
func NewHandler(
	calendar *market_hours.TradingCalendar,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		calendar: calendar,
		now:      time.Now,
		log:      log.With().Str("handler", "market_hours").Logger(),
	}
}

// HandleGetStatus handles GET /api/market-hours/status
// Returns current NSE session status
func (h *Handler) HandleGetStatus(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	status := h.calendar.GetMarketStatus(now)

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"timestamp": now.In(market_hours.IST).Format(time.RFC3339),
			"market":    status,
		},
		"metadata": h.metadata(),
	})
}

// HandleGetHolidays handles GET /api/market-hours/holidays
// Returns holidays of the requested year (default: current year)
func (h *Handler) HandleGetHolidays(w http.ResponseWriter, r *http.Request) {
	year := h.now().In(market_hours.IST).Year()
	if yearStr := r.URL.Query().Get("year"); yearStr != "" {
		parsedYear, err := strconv.Atoi(yearStr)
		if err != nil || parsedYear <= 0 {
			http.Error(w, "year must be a positive integer", http.StatusBadRequest)
			return
		}
		year = parsedYear
	}

	holidays, err := h.calendar.HolidaysInYear(year)
	if err != nil {
		h.log.Error().Err(err).Int("year", year).Msg("Failed to list holidays")
		http.Error(w, "Failed to list holidays", http.StatusInternalServerError)
		return
	}

	items := make([]map[string]interface{}, 0, len(holidays))
	for _, holiday := range holidays {
		items = append(items, map[string]interface{}{
			"date":        holiday.Date.Format("2006-01-02"),
			"description": holiday.Description,
		})
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"exchange": market_hours.ExchangeCode,
			"year":     year,
			"tier":     h.calendar.ActiveTier(),
			"holidays": items,
			"count":    len(items),
		},
		"metadata": h.metadata(),
	})
}

// HandleGetTradingDay handles GET /api/market-hours/trading-day?date=
// Reports whether a date is a trading day
func (h *Handler) HandleGetTradingDay(w http.ResponseWriter, r *http.Request) {
	date, ok := h.parseDateParam(w, r)
	if !ok {
		return
	}

	weekend := date.Weekday() == time.Saturday || date.Weekday() == time.Sunday

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"date":           date.Format("2006-01-02"),
			"is_trading_day": h.calendar.IsTradingDay(date),
			"is_holiday":     h.calendar.IsHoliday(date),
			"is_weekend":     weekend,
		},
		"metadata": h.metadata(),
	})
}

// HandleGetPreviousBusinessDay handles GET /api/market-hours/previous-business-day?date=
func (h *Handler) HandleGetPreviousBusinessDay(w http.ResponseWriter, r *http.Request) {
	h.handleWalk(w, r, "previous_business_day", h.calendar.PreviousBusinessDay)
}

// HandleGetNextTradingDay handles GET /api/market-hours/next-trading-day?date=
func (h *Handler) HandleGetNextTradingDay(w http.ResponseWriter, r *http.Request) {
	h.handleWalk(w, r, "next_trading_day", h.calendar.NextTradingDay)
}

func (h *Handler) handleWalk(w http.ResponseWriter, r *http.Request, key string, walk func(time.Time) (time.Time, error)) {
	date, ok := h.parseDateParam(w, r)
	if !ok {
		return
	}

	result, err := walk(date)
	if err != nil {
		h.log.Error().Err(err).Str("date", date.Format("2006-01-02")).Msg("Business day walk failed")
		http.Error(w, "No trading day found near the requested date", http.StatusUnprocessableEntity)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"date":     date.Format("2006-01-02"),
			key:        result.Format("2006-01-02"),
			"api_date": utils.FormatAPIDate(result),
		},
		"metadata": h.metadata(),
	})
}

// parseDateParam reads the date query parameter as an exchange-local calendar
// date. A missing parameter means today in exchange time.
func (h *Handler) parseDateParam(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		now := h.now().In(market_hours.IST)
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, market_hours.IST), true
	}

	parsed, err := utils.ParseDate(raw)
	if err != nil {
		http.Error(w, "date must be YYYY-MM-DD, DD-MM-YYYY or DD/MM/YYYY", http.StatusBadRequest)
		return time.Time{}, false
	}

	return time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, market_hours.IST), true
}

func (h *Handler) metadata() map[string]interface{} {
	return map[string]interface{}{
		"timestamp": time.Now().Format(time.RFC3339),
	}
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
