package events

import (
	"encoding/json"
	"strings"
)

// status implied by a topic when the payload carries none
var topicStatus = map[string]string{
	"order:created":            "pending",
	"order:sent-to-production": "sending-to-production",
	"order:shipment:created":   "shipped",
	"order:shipment:delivered": "delivered",
}

// ProjectOrder folds an order event into the order's state. It returns false
// for events that are not about an order.
func ProjectOrder(ev Event) (OrderState, bool) {
	if !strings.HasPrefix(ev.Topic, "order:") || ev.ResourceID == "" {
		return OrderState{}, false
	}

	status := topicStatus[ev.Topic]
	var data struct {
		Status string `json:"status"`
	}
	if resourceData(ev.Payload, &data) && data.Status != "" {
		status = data.Status
	}
	if status == "" {
		status = "updated"
	}

	at := ev.OccurredAt
	if at.IsZero() {
		at = ev.ReceivedAt
	}
	return OrderState{
		OrderID:     ev.ResourceID,
		ShopID:      ev.ShopID,
		Status:      status,
		LastEventID: ev.ID,
		LastTopic:   ev.Topic,
		UpdatedAt:   at,
	}, true
}

func resourceData(payload json.RawMessage, into any) bool {
	var env struct {
		Resource struct {
			Data json.RawMessage `json:"data"`
		} `json:"resource"`
	}
	if err := json.Unmarshal(payload, &env); err != nil || len(env.Resource.Data) == 0 {
		return false
	}
	return json.Unmarshal(env.Resource.Data, into) == nil
}
