package events

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"printify/pkg/db"
)

// Repository is the Postgres Store.
type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Save inserts the event and, for order events, updates order_states in the
// same transaction.
func (r *Repository) Save(ctx context.Context, ev Event) (bool, error) {
	if ev.ReceivedAt.IsZero() {
		ev.ReceivedAt = time.Now().UTC()
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = ev.ReceivedAt
	}

	inserted := false
	err := db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		const q = `
INSERT INTO webhook_events (id, topic, shop_id, resource_id, resource_type, occurred_at, payload, received_at)
VALUES ($1, $2, $3, $4, $5, $6, CAST($7 AS jsonb), $8)
ON CONFLICT (id) DO NOTHING
`
		tag, err := tx.Exec(ctx, q, ev.ID, ev.Topic, ev.ShopID, ev.ResourceID, ev.ResourceType, ev.OccurredAt, string(ev.Payload), ev.ReceivedAt)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return nil
		}
		inserted = true

		state, ok := ProjectOrder(ev)
		if !ok {
			return nil
		}
		return upsertOrderState(ctx, tx, state)
	})
	if err != nil {
		return false, err
	}
	return inserted, nil
}

func upsertOrderState(ctx context.Context, tx pgx.Tx, s OrderState) error {
	const q = `
INSERT INTO order_states (order_id, shop_id, status, last_event_id, last_topic, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (order_id) DO UPDATE SET
  shop_id = EXCLUDED.shop_id,
  status = EXCLUDED.status,
  last_event_id = EXCLUDED.last_event_id,
  last_topic = EXCLUDED.last_topic,
  updated_at = EXCLUDED.updated_at
WHERE order_states.updated_at <= EXCLUDED.updated_at
`
	_, err := tx.Exec(ctx, q, s.OrderID, s.ShopID, s.Status, s.LastEventID, s.LastTopic, s.UpdatedAt)
	return err
}

// Recent lists the newest events first, optionally filtered by topic.
func (r *Repository) Recent(ctx context.Context, limit int, topic string) ([]Event, error) {
	const q = `
SELECT id, topic, shop_id, resource_id, resource_type, occurred_at, received_at, payload
FROM webhook_events
WHERE ($2 = '' OR topic = $2)
ORDER BY received_at DESC, id ASC
LIMIT $1
`
	rows, err := r.db.Query(ctx, q, ClampLimit(limit), topic)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Event{}
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.Topic, &e.ShopID, &e.ResourceID, &e.ResourceType, &e.OccurredAt, &e.ReceivedAt, &e.Payload); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *Repository) OrderState(ctx context.Context, orderID string) (*OrderState, error) {
	const q = `
SELECT order_id, shop_id, status, last_event_id, last_topic, updated_at
FROM order_states
WHERE order_id = $1
`
	var s OrderState
	err := r.db.QueryRow(ctx, q, orderID).Scan(&s.OrderID, &s.ShopID, &s.Status, &s.LastEventID, &s.LastTopic, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}
