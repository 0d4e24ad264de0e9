package events

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"printify/internal/api"
)

type Handlers struct {
	Store Store
}

// List serves GET /v1/events?limit=N&topic=T.
func (h Handlers) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "limit must be an integer")
			return
		}
		limit = n
	}
	topic := strings.TrimSpace(r.URL.Query().Get("topic"))

	out, err := h.Store.Recent(r.Context(), limit, topic)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to list events")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"events": out})
}

// Order serves GET /v1/orders/{orderID}.
func (h Handlers) Order(w http.ResponseWriter, r *http.Request) {
	orderID := strings.TrimSpace(chi.URLParam(r, "orderID"))
	if orderID == "" {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "missing order id")
		return
	}

	s, err := h.Store.OrderState(r.Context(), orderID)
	if errors.Is(err, ErrNotFound) {
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "no events seen for this order")
		return
	}
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to load order")
		return
	}
	api.WriteJSON(w, http.StatusOK, s)
}
