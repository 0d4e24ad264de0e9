package webhook

import (
	"strings"

	"printify/pkg/printify"
)

// NormalizeTopic maps topic spellings onto Printify's canonical form.
// Examples:
// - "ORDER:CREATED" -> "order:created"
// - "order/shipment/created" -> "order:shipment:created"
// - "order:sent_to_production" -> "order:sent-to-production"
func NormalizeTopic(topic string) string {
	t := strings.TrimSpace(strings.ToLower(topic))
	t = strings.ReplaceAll(t, "/", ":")
	t = strings.ReplaceAll(t, ".", ":")
	t = strings.ReplaceAll(t, "_", "-")
	for strings.Contains(t, "::") {
		t = strings.ReplaceAll(t, "::", ":")
	}
	return strings.Trim(t, ":-")
}

// KnownTopic reports whether topic, once normalized, is one Printify sends.
func KnownTopic(topic string) bool {
	t := NormalizeTopic(topic)
	for _, k := range printify.Topics() {
		if k == t {
			return true
		}
	}
	return false
}
