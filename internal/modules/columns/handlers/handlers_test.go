package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func post(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()

	handler := NewHandler(nil, zerolog.New(nil).Level(zerolog.Disabled))
	router := chi.NewRouter()
	router.Route("/api", handler.RegisterRoutes)

	req := httptest.NewRequest(http.MethodPost, "/api/columns/normalize", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

type normalizeResponse struct {
	Data struct {
		Mapping []struct {
			Index  int    `json:"index"`
			Header string `json:"header"`
			Field  string `json:"field"`
			Score  int    `json:"score"`
		} `json:"mapping"`
		Complete   bool              `json:"complete"`
		Candidates []json.RawMessage `json:"candidates"`
	} `json:"data"`
	Metadata map[string]interface{} `json:"metadata"`
}

func TestHandleNormalize(t *testing.T) {
	w := post(t, `{"headers":["Instrument Name","Issuer Name","ISIN","% to AUM"]}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp normalizeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Metadata, "timestamp")
	assert.True(t, resp.Data.Complete)
	assert.Nil(t, resp.Data.Candidates)

	got := make(map[string]string)
	for _, e := range resp.Data.Mapping {
		got[e.Header] = e.Field
	}
	assert.Equal(t, map[string]string{
		"Instrument Name": "Name",
		"ISIN":            "ISIN",
		"% to AUM":        "Weight",
	}, got)
}

func TestHandleNormalize_Explain(t *testing.T) {
	w := post(t, `{"headers":["ISIN Code","ISIN"],"explain":true}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp normalizeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Data.Complete)
	require.Len(t, resp.Data.Mapping, 1)
	assert.Equal(t, "ISIN Code", resp.Data.Mapping[0].Header)
	assert.GreaterOrEqual(t, len(resp.Data.Candidates), 2)
}

func TestHandleNormalize_EmptyHeaders(t *testing.T) {
	w := post(t, `{"headers":[]}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp normalizeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Data.Mapping)
	assert.False(t, resp.Data.Complete)
}

func TestHandleNormalize_BadRequest(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{"headers":`},
		{name: "too many headers", body: `{"headers":[` + strings.Repeat(`"x",`, maxHeaders) + `"x"]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := post(t, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}
