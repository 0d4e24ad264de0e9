package webhook

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"printify/internal/api"
	"printify/internal/events"
	"printify/pkg/printify"
)

const maxBodyBytes = 1 << 20

type Handler struct {
	Secret string
	Store  events.Store
	Now    func() time.Time
}

func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := api.LoggerFromContext(r.Context())

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			api.WriteError(w, http.StatusRequestEntityTooLarge, "VALIDATION_FAILED", "body too large")
			return
		}
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid body")
		return
	}

	if !Verify(body, r.Header.Get(SignatureHeader), h.Secret) {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid webhook signature")
		return
	}

	ev, err := printify.ParseEvent(body)
	if err != nil {
		log.Warn("webhook payload rejected", zap.Error(err))
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid event payload")
		return
	}

	topic := NormalizeTopic(ev.Type)
	if !KnownTopic(topic) {
		// Accept so Printify does not retry; there is nothing to do with it.
		log.Info("webhook topic ignored", zap.String("topic", ev.Type), zap.String("event_id", ev.ID))
	}

	received := h.now()
	occurred, err := ev.OccurredAt()
	if err != nil {
		log.Warn("webhook created_at unreadable, using receive time", zap.String("event_id", ev.ID), zap.Error(err))
		occurred = received
	}

	rec := events.Event{
		ID:           strings.TrimSpace(ev.ID),
		Topic:        topic,
		ShopID:       ev.ShopID(),
		ResourceID:   ev.Resource.ID,
		ResourceType: ev.Resource.Type,
		OccurredAt:   occurred,
		ReceivedAt:   received,
		Payload:      body,
	}

	inserted, err := h.Store.Save(r.Context(), rec)
	if err != nil {
		// 5xx makes Printify retry the delivery.
		log.Error("webhook store failed", zap.String("event_id", rec.ID), zap.String("topic", topic), zap.Error(err))
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to store event")
		return
	}

	if !inserted {
		log.Debug("webhook already processed", zap.String("event_id", rec.ID), zap.String("topic", topic))
	} else {
		log.Info("webhook received",
			zap.String("event_id", rec.ID),
			zap.String("topic", topic),
			zap.String("shop_id", rec.ShopID),
			zap.String("resource_id", rec.ResourceID),
		)
	}

	api.WriteJSON(w, http.StatusOK, map[string]any{"received": true, "duplicate": !inserted})
}

func (h Handler) now() time.Time {
	if h.Now != nil {
		return h.Now().UTC()
	}
	return time.Now().UTC()
}
