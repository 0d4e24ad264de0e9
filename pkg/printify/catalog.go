package printify

import (
	"context"
	"net/url"
)

type Blueprint struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Brand       string   `json:"brand"`
	Model       string   `json:"model"`
	Images      []string `json:"images"`
}

// Location is a print provider's address.
type Location struct {
	Address1 string  `json:"address1"`
	City     string  `json:"city"`
	Country  string  `json:"country"`
	Region   string  `json:"region"`
	Zip      string  `json:"zip"`
	Address2 *string `json:"address2,omitempty"`
}

type PrintProvider struct {
	ID       int64     `json:"id"`
	Title    string    `json:"title"`
	Location *Location `json:"location,omitempty"`
}

// VariantOption holds whichever options a blueprint variant uses.
type VariantOption struct {
	Color    *string `json:"color,omitempty"`
	Size     *string `json:"size,omitempty"`
	Paper    *string `json:"paper,omitempty"`
	Quantity *string `json:"quantity,omitempty"`
}

type VariantPlaceholder struct {
	Position string `json:"position"`
	Height   int    `json:"height"`
	Width    int    `json:"width"`
}

type Variant struct {
	ID           int64                `json:"id"`
	Title        string               `json:"title"`
	Options      VariantOption        `json:"options"`
	Placeholders []VariantPlaceholder `json:"placeholders"`
}

// PrintProviderVariants lists the variants a provider offers for a blueprint.
type PrintProviderVariants struct {
	ID       int64     `json:"id"`
	Title    string    `json:"title"`
	Variants []Variant `json:"variants"`
}

func (p PrintProviderVariants) VariantIDs() []int64 {
	ids := make([]int64, 0, len(p.Variants))
	for _, v := range p.Variants {
		ids = append(ids, v.ID)
	}
	return ids
}

type ShippingInfoHandlingTime struct {
	Value int    `json:"value"`
	Unit  string `json:"unit"`
}

// ShippingInfoProfileCost is an amount in cents.
type ShippingInfoProfileCost struct {
	Cost     int    `json:"cost"`
	Currency string `json:"currency"`
}

type ShippingInfoProfile struct {
	VariantIDs      []int64                 `json:"variant_ids"`
	FirstItem       ShippingInfoProfileCost `json:"first_item"`
	AdditionalItems ShippingInfoProfileCost `json:"additional_items"`
	Countries       []string                `json:"countries"`
}

type ShippingInfo struct {
	HandlingTime ShippingInfoHandlingTime `json:"handling_time"`
	Profiles     []ShippingInfoProfile    `json:"profiles"`
}

// CatalogService wraps https://developers.printify.com/#catalog. None of its
// calls are shop-scoped.
type CatalogService struct {
	api *transport
}

func (s *CatalogService) Blueprints(ctx context.Context) ([]Blueprint, error) {
	return getJSON[[]Blueprint](ctx, s.api, s.api.url("/v1/catalog/blueprints.json"))
}

func (s *CatalogService) Blueprint(ctx context.Context, blueprintID string) (*Blueprint, error) {
	return getOne[Blueprint](ctx, s.api, s.api.url("/v1/catalog/blueprints/%s.json", url.PathEscape(blueprintID)))
}

func (s *CatalogService) BlueprintPrintProviders(ctx context.Context, blueprintID string) ([]PrintProvider, error) {
	return getJSON[[]PrintProvider](ctx, s.api, s.api.url("/v1/catalog/blueprints/%s/print_providers.json", url.PathEscape(blueprintID)))
}

func (s *CatalogService) Variants(ctx context.Context, blueprintID, printProviderID string) (*PrintProviderVariants, error) {
	return getOne[PrintProviderVariants](ctx, s.api, s.api.url("/v1/catalog/blueprints/%s/print_providers/%s/variants.json",
		url.PathEscape(blueprintID), url.PathEscape(printProviderID)))
}

func (s *CatalogService) Shipping(ctx context.Context, blueprintID, printProviderID string) (*ShippingInfo, error) {
	return getOne[ShippingInfo](ctx, s.api, s.api.url("/v1/catalog/blueprints/%s/print_providers/%s/shipping.json",
		url.PathEscape(blueprintID), url.PathEscape(printProviderID)))
}

func (s *CatalogService) PrintProviders(ctx context.Context) ([]PrintProvider, error) {
	return getJSON[[]PrintProvider](ctx, s.api, s.api.url("/v1/catalog/print_providers.json"))
}

func (s *CatalogService) PrintProvider(ctx context.Context, printProviderID string) (*PrintProvider, error) {
	return getOne[PrintProvider](ctx, s.api, s.api.url("/v1/catalog/print_providers/%s.json", url.PathEscape(printProviderID)))
}

func getJSON[T any](ctx context.Context, t *transport, u string) (T, error) {
	raw, err := t.get(ctx, u)
	if err != nil {
		var zero T
		return zero, err
	}
	return decode[T](u, raw)
}

func getOne[T any](ctx context.Context, t *transport, u string) (*T, error) {
	v, err := getJSON[T](ctx, t, u)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// sendOne posts or puts body to u and decodes the response as T.
func sendOne[T any](ctx context.Context, t *transport, method, u string, body any) (*T, error) {
	raw, err := t.do(ctx, method, u, body)
	if err != nil {
		return nil, err
	}
	v, err := decode[T](u, raw)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
