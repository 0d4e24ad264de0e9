// Package printify is a typed client for the Printify REST API
// (https://developers.printify.com).
//
//	c := printify.New(token, printify.WithShopID("123456"))
//	products, err := c.Products.List(ctx, "", 3)
package printify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const DefaultBaseURL = "https://api.printify.com"

// Client holds one facade per API resource family. All facades share the
// same token, transport and default shop id.
type Client struct {
	Shops    *ShopsService
	Catalog  *CatalogService
	Products *ProductsService
	Orders   *OrdersService
	Artwork  *ArtworkService
	Webhooks *WebhooksService

	api *transport
}

type Option func(*settings)

type settings struct {
	baseURL    string
	shopID     string
	httpClient *http.Client
	logger     *zap.Logger
	limiter    *rate.Limiter
}

// WithShopID sets the shop used by shop-scoped calls that pass an empty shop id.
func WithShopID(shopID string) Option {
	return func(s *settings) { s.shopID = strings.TrimSpace(shopID) }
}

func WithBaseURL(baseURL string) Option {
	return func(s *settings) { s.baseURL = strings.TrimSuffix(strings.TrimSpace(baseURL), "/") }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(s *settings) { s.httpClient = hc }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *settings) { s.logger = l }
}

// WithRateLimit throttles outgoing requests to perMinute with the given burst.
// A non-positive perMinute leaves the client unthrottled.
func WithRateLimit(perMinute, burst int) Option {
	return func(s *settings) {
		if perMinute <= 0 {
			s.limiter = nil
			return
		}
		if burst <= 0 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), burst)
	}
}

// New builds a client authenticated with apiToken.
func New(apiToken string, opts ...Option) *Client {
	s := settings{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&s)
	}
	if s.baseURL == "" {
		s.baseURL = DefaultBaseURL
	}
	if s.httpClient == nil {
		s.httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}

	t := &transport{
		baseURL:    s.baseURL,
		token:      apiToken,
		httpClient: s.httpClient,
		logger:     s.logger,
		limiter:    s.limiter,
	}
	scope := shopScope{defaultID: s.shopID}

	return &Client{
		Shops:    &ShopsService{api: t},
		Catalog:  &CatalogService{api: t},
		Products: &ProductsService{api: t, scope: scope},
		Orders:   &OrdersService{api: t, scope: scope},
		Artwork:  &ArtworkService{api: t},
		Webhooks: &WebhooksService{api: t, scope: scope},
		api:      t,
	}
}

// BaseURL returns the API host the client talks to.
func (c *Client) BaseURL() string { return c.api.baseURL }

type transport struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *zap.Logger
	limiter    *rate.Limiter
}

func (t *transport) url(format string, args ...any) string {
	return t.baseURL + fmt.Sprintf(format, args...)
}

func (t *transport) get(ctx context.Context, url string) (json.RawMessage, error) {
	return t.do(ctx, http.MethodGet, url, nil)
}

func (t *transport) post(ctx context.Context, url string, body any) (json.RawMessage, error) {
	return t.do(ctx, http.MethodPost, url, body)
}

func (t *transport) put(ctx context.Context, url string, body any) (json.RawMessage, error) {
	return t.do(ctx, http.MethodPut, url, body)
}

func (t *transport) delete(ctx context.Context, url string) (json.RawMessage, error) {
	return t.do(ctx, http.MethodDelete, url, nil)
}

// do sends a single request and classifies the response. A nil body sends no
// payload and no content type.
func (t *transport) do(ctx context.Context, method, url string, body any) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, url, err)
		}
		reader = bytes.NewReader(b)
	}

	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+t.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := t.httpClient.Do(req)
	if err != nil {
		t.logger.Debug("printify request failed", zap.String("method", method), zap.String("url", url), zap.Error(err))
		return nil, fmt.Errorf("%s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", url, err)
	}

	t.logger.Debug("printify request",
		zap.String("method", method),
		zap.String("url", url),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)),
	)

	return checkStatus(resp.StatusCode, url, b)
}

func checkStatus(status int, url string, body []byte) (json.RawMessage, error) {
	switch status {
	case http.StatusBadRequest:
		return nil, &Error{Kind: ErrBadRequest, StatusCode: status, URL: url, Message: badRequestMessage(url, body)}
	case http.StatusForbidden:
		return nil, &Error{Kind: ErrForbidden, StatusCode: status, URL: url, Message: "this API key is not permitted to access this information"}
	case http.StatusInternalServerError:
		return nil, &Error{Kind: ErrServer, StatusCode: status, URL: url, Message: "bad request to " + url}
	}

	trimmed := bytes.TrimSpace(body)
	if msg, ok := errorField(trimmed); ok {
		return nil, &Error{Kind: ErrAPI, StatusCode: status, URL: url, Message: msg}
	}
	if status < 200 || status >= 300 {
		return nil, &Error{Kind: ErrAPI, StatusCode: status, URL: url, Message: fmt.Sprintf("unexpected status %d from %s", status, url)}
	}
	if len(trimmed) == 0 {
		return nil, nil
	}
	if !json.Valid(trimmed) {
		return nil, &Error{Kind: ErrParse, StatusCode: status, URL: url, Message: "response body is not valid JSON"}
	}
	return json.RawMessage(trimmed), nil
}

func badRequestMessage(url string, body []byte) string {
	var info struct {
		Message *string `json:"message"`
		Errors  *struct {
			Reason *string `json:"reason"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(body, &info); err != nil || info.Message == nil || info.Errors == nil || info.Errors.Reason == nil {
		return "bad request to " + url
	}
	return *info.Message + " " + *info.Errors.Reason
}

// errorField reports the value of a top-level "error" key, if the body is an
// object that has one.
func errorField(body []byte) (string, bool) {
	if len(body) == 0 || body[0] != '{' {
		return "", false
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return "", false
	}
	raw, ok := obj["error"]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}
	return string(raw), true
}
