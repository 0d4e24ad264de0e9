package events

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

var ErrNotFound = errors.New("not found")

// Event is a webhook delivery as stored. ID is Printify's event id and the
// idempotency key. OccurredAt is when Printify created the event and orders
// the order projection; ReceivedAt is arrival time.
type Event struct {
	ID           string          `json:"id"`
	Topic        string          `json:"topic"`
	ShopID       string          `json:"shopId"`
	ResourceID   string          `json:"resourceId"`
	ResourceType string          `json:"resourceType"`
	OccurredAt   time.Time       `json:"occurredAt"`
	ReceivedAt   time.Time       `json:"receivedAt"`
	Payload      json.RawMessage `json:"payload"`
}

// OrderState is the latest known status of an order, folded from order events.
type OrderState struct {
	OrderID     string    `json:"orderId"`
	ShopID      string    `json:"shopId"`
	Status      string    `json:"status"`
	LastEventID string    `json:"lastEventId"`
	LastTopic   string    `json:"lastTopic"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Store persists deliveries. Save reports false when the event id was seen
// before, in which case nothing is changed.
type Store interface {
	Save(ctx context.Context, ev Event) (bool, error)
	Recent(ctx context.Context, limit int, topic string) ([]Event, error)
	OrderState(ctx context.Context, orderID string) (*OrderState, error)
}

const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

// ClampLimit maps a requested page size onto [1, MaxListLimit].
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultListLimit
	case limit > MaxListLimit:
		return MaxListLimit
	default:
		return limit
	}
}
