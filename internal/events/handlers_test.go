package events

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(s Store) http.Handler {
	h := Handlers{Store: s}
	r := chi.NewRouter()
	r.Get("/v1/events", h.List)
	r.Get("/v1/orders/{orderID}", h.Order)
	return r
}

func TestHandlers_List(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.Save(context.Background(), orderEvent("e1", "order:created", "o1", time.Unix(1, 0), ""))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	newTestRouter(s).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/events?limit=5", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Events []Event `json:"events"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Events, 1)
	assert.Equal(t, "order:created", body.Events[0].Topic)

	rec = httptest.NewRecorder()
	newTestRouter(s).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/events?limit=abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlers_Order(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.Save(context.Background(), orderEvent("e1", "order:created", "o1", time.Unix(1, 0), ""))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	newTestRouter(s).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/orders/o1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"pending"`)

	rec = httptest.NewRecorder()
	newTestRouter(s).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/orders/o2", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
