package events

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore keeps events in process. It backs webhookd when no database is
// configured and is used in tests.
type MemoryStore struct {
	mu     sync.RWMutex
	events map[string]Event
	orders map[string]OrderState
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		events: map[string]Event{},
		orders: map[string]OrderState{},
	}
}

func (m *MemoryStore) Save(_ context.Context, ev Event) (bool, error) {
	if ev.ReceivedAt.IsZero() {
		ev.ReceivedAt = time.Now().UTC()
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = ev.ReceivedAt
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, dup := m.events[ev.ID]; dup {
		return false, nil
	}
	m.events[ev.ID] = ev

	if state, ok := ProjectOrder(ev); ok {
		if prev, seen := m.orders[state.OrderID]; !seen || !prev.UpdatedAt.After(state.UpdatedAt) {
			m.orders[state.OrderID] = state
		}
	}
	return true, nil
}

func (m *MemoryStore) Recent(_ context.Context, limit int, topic string) ([]Event, error) {
	m.mu.RLock()
	out := make([]Event, 0, len(m.events))
	for _, e := range m.events {
		if topic == "" || e.Topic == topic {
			out = append(out, e)
		}
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].ReceivedAt.Equal(out[j].ReceivedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].ReceivedAt.After(out[j].ReceivedAt)
	})
	if n := ClampLimit(limit); len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (m *MemoryStore) OrderState(_ context.Context, orderID string) (*OrderState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.orders[orderID]
	if !ok {
		return nil, ErrNotFound
	}
	return &s, nil
}
