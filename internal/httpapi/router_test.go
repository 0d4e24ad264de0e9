package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"printify/internal/events"
	"printify/internal/webhook"
	"printify/pkg/config"
)

func newServer(t *testing.T) (*httptest.Server, *events.MemoryStore) {
	t.Helper()
	store := events.NewMemoryStore()
	cfg := config.Config{AdminToken: "admin"}
	cfg.Printify.WebhookSecret = "whsec"

	srv := httptest.NewServer(NewRouter(Dependencies{Cfg: cfg, Store: store}))
	t.Cleanup(srv.Close)
	return srv, store
}

func TestRouter_Healthz(t *testing.T) {
	srv, _ := newServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_WebhookThenRead(t *testing.T) {
	srv, _ := newServer(t)

	body := `{"id":"e1","type":"order:created","created_at":"2024-01-01","resource":{"id":"o1","type":"order","data":{"shop_id":7}}}`
	req, err := http.NewRequest(http.MethodPost, srv.URL+webhook.CallbackPath, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set(webhook.SignatureHeader, webhook.Sign([]byte(body), "whsec"))
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/v1/orders/o1")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req, err = http.NewRequest(http.MethodGet, srv.URL+"/v1/orders/o1", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer admin")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_PreflightOnReadEndpoints(t *testing.T) {
	cfg := config.Config{AdminToken: "admin", AllowedOrigins: []string{"https://dash.example"}}
	h := NewRouter(Dependencies{Cfg: cfg, Store: events.NewMemoryStore()})

	for _, path := range []string{"/v1/events", "/v1/orders/o1"} {
		req := httptest.NewRequest(http.MethodOptions, path, nil)
		req.Header.Set("Origin", "https://dash.example")
		req.Header.Set("Access-Control-Request-Method", http.MethodGet)
		req.Header.Set("Access-Control-Request-Headers", "authorization")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code, path)
		assert.Equal(t, "https://dash.example", rec.Header().Get("Access-Control-Allow-Origin"), path)
		assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Authorization", path)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/events", nil)
	req.Header.Set("Origin", "https://dash.example")
	req.Header.Set("Authorization", "Bearer admin")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://dash.example", rec.Header().Get("Access-Control-Allow-Origin"))
}
