package webhook

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"printify/pkg/printify"
)

// WebhookAPI is the part of printify.WebhooksService that subscription
// management needs.
type WebhookAPI interface {
	List(ctx context.Context, shopID string) ([]printify.Webhook, error)
	Create(ctx context.Context, shopID string, w printify.CreateWebhook) (*printify.Webhook, error)
}

// CallbackPath is where webhookd receives deliveries.
const CallbackPath = "/v1/webhooks/printify"

// EnsureSubscriptions subscribes publicBaseURL+CallbackPath to every topic
// that is not already delivered there, and returns the webhooks it created.
func EnsureSubscriptions(ctx context.Context, wh WebhookAPI, logger *zap.Logger, shopID, publicBaseURL, secret string, topics []string) ([]printify.Webhook, error) {
	if strings.TrimSpace(publicBaseURL) == "" {
		return nil, fmt.Errorf("public base url is required to register webhooks")
	}
	target := strings.TrimSuffix(publicBaseURL, "/") + CallbackPath

	existing, err := wh.List(ctx, shopID)
	if err != nil {
		return nil, fmt.Errorf("list webhooks: %w", err)
	}
	have := map[string]bool{}
	for _, w := range existing {
		if w.URL == target {
			have[NormalizeTopic(w.Topic)] = true
		}
	}

	var created []printify.Webhook
	for _, raw := range topics {
		topic := NormalizeTopic(raw)
		if !KnownTopic(topic) {
			return created, fmt.Errorf("unknown webhook topic %q", raw)
		}
		if have[topic] {
			continue
		}

		req := printify.CreateWebhook{URL: target, Topic: topic}
		if secret != "" {
			s := secret
			req.Secret = &s
		}
		w, err := wh.Create(ctx, shopID, req)
		if err != nil {
			return created, fmt.Errorf("create webhook %s: %w", topic, err)
		}
		have[topic] = true
		created = append(created, *w)
		logger.Info("webhook subscribed", zap.String("topic", topic), zap.String("webhook_id", w.ID))
	}
	return created, nil
}
