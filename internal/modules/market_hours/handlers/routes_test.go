package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

func TestRegisterRoutes(t *testing.T) {
	handler := newTestHandler(time.Now())
	router := chi.NewRouter()

	assert.NotPanics(t, func() {
		handler.RegisterRoutes(router)
	}, "RegisterRoutes should not panic")

	var patterns []string
	_ = chi.Walk(router, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		patterns = append(patterns, method+" "+route)
		return nil
	})

	for _, expected := range []string{
		"GET /market-hours/status",
		"GET /market-hours/holidays",
		"GET /market-hours/trading-day",
		"GET /market-hours/previous-business-day",
		"GET /market-hours/next-trading-day",
	} {
		assert.Contains(t, patterns, expected)
	}
}
