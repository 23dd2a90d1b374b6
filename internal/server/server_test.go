package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/aristath/fundlens/internal/config"
	"github.com/aristath/fundlens/internal/di"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, *di.Container) {
	t.Helper()

	tmpDir := t.TempDir()
	cfg := &config.Config{
		DataDir:     tmpDir,
		Port:        8001,
		MaxUploadMB: 1,
		Calendar: config.CalendarConfig{
			DBPath:        filepath.Join(tmpDir, "calendar.db"),
			Dynamic:       true,
			CheckSchedule: "0 0 9 * * *",
		},
		Uploads: config.UploadsConfig{
			DBPath:          filepath.Join(tmpDir, "holdings.db"),
			RetentionDays:   30,
			CleanupSchedule: "0 30 3 * * *",
		},
	}

	log := zerolog.Nop()
	container, _, err := di.Wire(cfg, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Close() })

	return New(Config{
		Log:       log,
		Config:    cfg,
		Container: container,
		Port:      cfg.Port,
		DevMode:   true,
	}), container
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}

func TestServer_Health(t *testing.T) {
	s, _ := newTestServer(t)

	w := get(t, s, "/health")
	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "healthy", response["status"])
	assert.Equal(t, "fundlens", response["service"])
}

func TestServer_RoutesMounted(t *testing.T) {
	s, _ := newTestServer(t)

	routes := make(map[string]bool)
	err := chi.Walk(s.router, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		routes[method+" "+route] = true
		return nil
	})
	require.NoError(t, err)

	for _, want := range []string{
		"GET /health",
		"GET /api/system/health",
		"GET /api/system/status",
		"GET /api/system/databases",
		"POST /api/columns/normalize",
		"GET /api/market-hours/status",
		"GET /api/market-hours/holidays",
		"GET /api/market-hours/trading-day",
		"GET /api/market-hours/previous-business-day",
		"GET /api/market-hours/next-trading-day",
		"GET /api/sip/installments",
		"POST /api/holdings/upload",
		"GET /api/holdings/uploads",
		"GET /api/holdings/uploads/{id}",
	} {
		assert.True(t, routes[want], "route %s should be registered", want)
	}
}

func TestServer_ModuleEndpointsReachable(t *testing.T) {
	s, _ := newTestServer(t)

	tests := []struct {
		target string
		code   int
	}{
		{target: "/api/market-hours/trading-day?date=2026-01-26", code: http.StatusOK},
		{target: "/api/sip/installments?start_date=2025-01-15&today=2025-04-10", code: http.StatusOK},
		{target: "/api/sip/installments", code: http.StatusBadRequest},
		{target: "/api/holdings/uploads", code: http.StatusOK},
		{target: "/api/holdings/uploads/not-a-uuid", code: http.StatusNotFound},
		{target: "/api/unknown", code: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			w := get(t, s, tt.target)
			assert.Equal(t, tt.code, w.Code, w.Body.String())
		})
	}
}

func TestServer_CORSPreflight(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/sip/installments", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
