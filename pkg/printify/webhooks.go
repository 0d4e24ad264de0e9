package printify

import (
	"context"
	"net/http"
	"net/url"
)

type Webhook struct {
	ID     string `json:"id"`
	ShopID string `json:"shop_id"`
	URL    string `json:"url"`
	Topic  string `json:"topic"`
}

// CreateWebhook subscribes URL to Topic. When Secret is set, deliveries carry
// an X-Pfy-Signature header computed with it.
type CreateWebhook struct {
	URL    string  `json:"url"`
	Topic  string  `json:"topic"`
	Secret *string `json:"secret,omitempty"`
}

// UpdateWebhook only sends the fields that are set.
type UpdateWebhook struct {
	URL   *string `json:"url,omitempty"`
	Topic *string `json:"topic,omitempty"`
}

// WebhooksService wraps https://developers.printify.com/#webhooks. Every call
// is shop-scoped.
type WebhooksService struct {
	api   *transport
	scope shopScope
}

func (s *WebhooksService) List(ctx context.Context, shopID string) ([]Webhook, error) {
	shop, err := s.scope.resolve(shopID)
	if err != nil {
		return nil, err
	}
	return getJSON[[]Webhook](ctx, s.api, s.webhooksURL(shop))
}

func (s *WebhooksService) Create(ctx context.Context, shopID string, w CreateWebhook) (*Webhook, error) {
	shop, err := s.scope.resolve(shopID)
	if err != nil {
		return nil, err
	}
	return sendOne[Webhook](ctx, s.api, http.MethodPost, s.webhooksURL(shop), w)
}

func (s *WebhooksService) Update(ctx context.Context, shopID, webhookID string, w UpdateWebhook) (*Webhook, error) {
	shop, err := s.scope.resolve(shopID)
	if err != nil {
		return nil, err
	}
	return sendOne[Webhook](ctx, s.api, http.MethodPut, s.webhookURL(shop, webhookID), w)
}

func (s *WebhooksService) Delete(ctx context.Context, shopID, webhookID string) error {
	shop, err := s.scope.resolve(shopID)
	if err != nil {
		return err
	}
	_, err = s.api.delete(ctx, s.webhookURL(shop, webhookID))
	return err
}

func (s *WebhooksService) webhooksURL(shop string) string {
	return s.api.url("/v1/shops/%s/webhooks.json", url.PathEscape(shop))
}

func (s *WebhooksService) webhookURL(shop, webhookID string) string {
	return s.api.url("/v1/shops/%s/webhooks/%s.json", url.PathEscape(shop), url.PathEscape(webhookID))
}
