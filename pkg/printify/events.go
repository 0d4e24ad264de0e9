package printify

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Webhook topics.
const (
	TopicShopDisconnected       = "shop:disconnected"
	TopicProductDeleted         = "product:deleted"
	TopicProductPublishStarted  = "product:publish:started"
	TopicOrderCreated           = "order:created"
	TopicOrderUpdated           = "order:updated"
	TopicOrderSentToProduction  = "order:sent-to-production"
	TopicOrderShipmentCreated   = "order:shipment:created"
	TopicOrderShipmentDelivered = "order:shipment:delivered"
)

// Topics lists every topic a shop can subscribe to.
func Topics() []string {
	return []string{
		TopicShopDisconnected,
		TopicProductDeleted,
		TopicProductPublishStarted,
		TopicOrderCreated,
		TopicOrderUpdated,
		TopicOrderSentToProduction,
		TopicOrderShipmentCreated,
		TopicOrderShipmentDelivered,
	}
}

// EventResource is the object an event is about. Data is topic specific.
type EventResource struct {
	ID   string          `json:"id"`
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Event is the body Printify posts to a webhook URL.
type Event struct {
	ID        string        `json:"id"`
	Type      string        `json:"type"`
	CreatedAt string        `json:"created_at"`
	Resource  EventResource `json:"resource"`
}

// ShopID returns resource.data.shop_id when the event carries one.
func (e Event) ShopID() string {
	if len(e.Resource.Data) == 0 {
		return ""
	}
	var d struct {
		ShopID json.Number `json:"shop_id"`
	}
	if err := json.Unmarshal(e.Resource.Data, &d); err != nil {
		return ""
	}
	return d.ShopID.String()
}

// timestampLayouts are the forms Printify uses for created_at, most common first.
var timestampLayouts = []string{
	"2006-01-02 15:04:05Z07:00",
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
}

// ParseTimestamp parses an API timestamp. Values without a zone are UTC.
func ParseTimestamp(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", v)
}

// OccurredAt is the event's created_at as a time.
func (e Event) OccurredAt() (time.Time, error) {
	return ParseTimestamp(e.CreatedAt)
}

// ParseEvent decodes and validates a webhook delivery body.
func ParseEvent(body []byte) (*Event, error) {
	ev, err := decode[Event]("webhook", json.RawMessage(body))
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(ev.ID) == "" || strings.TrimSpace(ev.Type) == "" {
		return nil, parseError("webhook", fmt.Errorf("event id and type are required"))
	}
	return &ev, nil
}
