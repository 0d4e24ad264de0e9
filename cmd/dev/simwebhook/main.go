package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"printify/internal/webhook"
	"printify/pkg/config"
	"printify/pkg/printify"
)

func main() {
	cfg := config.Load()

	var (
		url        = flag.String("url", "", "webhook endpoint url (defaults to http://localhost<HTTP_ADDR>/v1/webhooks/printify)")
		topic      = flag.String("topic", printify.TopicOrderCreated, "event type")
		shopID     = flag.String("shop", cfg.Printify.ShopID, "shop id put in resource.data.shop_id")
		resourceID = flag.String("resource-id", "", "order or product id (random when empty)")
		status     = flag.String("status", "", "optional resource.data.status")
		secret     = flag.String("secret", cfg.Printify.WebhookSecret, "PRINTIFY_WEBHOOK_SECRET")
		payload    = flag.String("payload", "", "path to a json event file; overrides the generated event")
		eventID    = flag.String("id", "", "event id (random when empty); reuse one to test idempotency")
	)
	flag.Parse()

	if *url == "" {
		*url = localURL(cfg.HTTPAddr) + webhook.CallbackPath
	}
	if *secret == "" {
		fmt.Fprintln(os.Stderr, "missing -secret")
		os.Exit(2)
	}

	var b []byte
	var err error
	if *payload != "" {
		b, err = os.ReadFile(*payload)
	} else {
		b, err = sampleEvent(*eventID, *topic, *shopID, *resourceID, *status)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "payload: %v\n", err)
		os.Exit(2)
	}

	req, err := http.NewRequest(http.MethodPost, *url, bytes.NewReader(b))
	if err != nil {
		fmt.Fprintf(os.Stderr, "new request: %v\n", err)
		os.Exit(2)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(webhook.SignatureHeader, webhook.Sign(b, *secret))

	c := &http.Client{Timeout: 10 * time.Second}
	resp, err := c.Do(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "post: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	fmt.Printf("status=%d\n%s\n", resp.StatusCode, string(body))
}

func localURL(httpAddr string) string {
	if httpAddr == "" {
		httpAddr = ":8081"
	}
	if httpAddr[0] == ':' {
		return "http://localhost" + httpAddr
	}
	return "http://" + httpAddr
}

func sampleEvent(id, topic, shopID, resourceID, status string) ([]byte, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if resourceID == "" {
		resourceID = uuid.NewString()
	}
	data := map[string]any{"shop_id": shopID}
	if status != "" {
		data["status"] = status
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	resourceType := "order"
	switch {
	case strings.HasPrefix(topic, "product:"):
		resourceType = "product"
	case strings.HasPrefix(topic, "shop:"):
		resourceType = "shop"
	}

	return json.MarshalIndent(printify.Event{
		ID:        id,
		Type:      topic,
		CreatedAt: time.Now().UTC().Format("2006-01-02 15:04:05-07:00"),
		Resource: printify.EventResource{
			ID:   resourceID,
			Type: resourceType,
			Data: raw,
		},
	}, "", "  ")
}
