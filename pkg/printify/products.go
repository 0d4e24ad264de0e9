package printify

import (
	"context"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"
)

type ProductOptionValue struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

type ProductOption struct {
	Name   string               `json:"name"`
	Type   string               `json:"type"`
	Values []ProductOptionValue `json:"values"`
}

// ProductVariant prices and costs are in cents.
type ProductVariant struct {
	ID          int64   `json:"id"`
	Price       int     `json:"price"`
	IsEnabled   bool    `json:"is_enabled"`
	SKU         *string `json:"sku,omitempty"`
	Cost        *int    `json:"cost,omitempty"`
	Title       *string `json:"title,omitempty"`
	Grams       *int    `json:"grams,omitempty"`
	IsDefault   *bool   `json:"is_default,omitempty"`
	IsAvailable *bool   `json:"is_available,omitempty"`
	Options     []int64 `json:"options,omitempty"`
	Quantity    *int    `json:"quantity,omitempty"`
}

// PriceAmount returns the variant price in currency units.
func (v ProductVariant) PriceAmount() decimal.Decimal { return Cents(v.Price) }

type ProductImage struct {
	Src                     string  `json:"src"`
	VariantIDs              []int64 `json:"variant_ids"`
	Position                string  `json:"position"`
	IsDefault               bool    `json:"is_default"`
	IsSelectedForPublishing *bool   `json:"is_selected_for_publishing,omitempty"`
}

// PrintAreaInfo positions an image inside a print area.
type PrintAreaInfo struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Scale float64 `json:"scale"`
	Angle float64 `json:"angle"`
}

type PlaceholderImage struct {
	PrintAreaInfo
	ID     string  `json:"id"`
	Name   *string `json:"name,omitempty"`
	Type   *string `json:"type,omitempty"`
	Height *int    `json:"height,omitempty"`
	Width  *int    `json:"width,omitempty"`
}

type ProductPlaceholder struct {
	Position string             `json:"position"`
	Images   []PlaceholderImage `json:"images"`
}

type ProductPrintArea struct {
	VariantIDs   []int64              `json:"variant_ids"`
	Placeholders []ProductPlaceholder `json:"placeholders"`
	Background   *string              `json:"background,omitempty"`
}

// ProductExternal links a product to its storefront listing.
type ProductExternal struct {
	ID                 string  `json:"id"`
	Handle             string  `json:"handle"`
	ShippingTemplateID *string `json:"shipping_template_id,omitempty"`
	Channel            *string `json:"channel,omitempty"`
}

type Product struct {
	ID                    string             `json:"id"`
	Title                 string             `json:"title"`
	Description           string             `json:"description"`
	Tags                  []string           `json:"tags"`
	Options               []ProductOption    `json:"options"`
	Variants              []ProductVariant   `json:"variants"`
	Images                []ProductImage     `json:"images"`
	CreatedAt             string             `json:"created_at"`
	UpdatedAt             string             `json:"updated_at"`
	Visible               bool               `json:"visible"`
	IsLocked              bool               `json:"is_locked"`
	BlueprintID           int64              `json:"blueprint_id"`
	UserID                int64              `json:"user_id"`
	ShopID                int64              `json:"shop_id"`
	PrintProviderID       int64              `json:"print_provider_id"`
	PrintAreas            []ProductPrintArea `json:"print_areas"`
	TwoDayDeliveryEnabled *bool              `json:"twodaydelivery_enabled,omitempty"`
	External              *ProductExternal   `json:"external,omitempty"`
}

// Publish selects which product attributes the storefront takes over from
// Printify. DefaultPublish enables all of them.
type Publish struct {
	Title            bool `json:"title"`
	Description      bool `json:"description"`
	Images           bool `json:"images"`
	Variants         bool `json:"variants"`
	Tags             bool `json:"tags"`
	KeyFeatures      bool `json:"keyFeatures"`
	ShippingTemplate bool `json:"shipping_template"`
}

func DefaultPublish() Publish {
	return Publish{
		Title:            true,
		Description:      true,
		Images:           true,
		Variants:         true,
		Tags:             true,
		KeyFeatures:      true,
		ShippingTemplate: true,
	}
}

type PublishingSucceededExternal struct {
	ID     string `json:"id"`
	Handle string `json:"handle"`
}

type PublishingSucceeded struct {
	External PublishingSucceededExternal `json:"external"`
}

type CreateProductPrintAreaPlaceholderImage struct {
	PrintAreaInfo
	ID string `json:"id"`
}

type CreateProductPrintAreaPlaceholder struct {
	Position string                                   `json:"position"`
	Images   []CreateProductPrintAreaPlaceholderImage `json:"images"`
}

type CreateProductPrintArea struct {
	VariantIDs   []int64                             `json:"variant_ids"`
	Placeholders []CreateProductPrintAreaPlaceholder `json:"placeholders"`
}

// CreateProductVariant prices are in cents, e.g. 1295 for 12.95.
type CreateProductVariant struct {
	ID        int64 `json:"id"`
	Price     int   `json:"price"`
	IsEnabled bool  `json:"is_enabled"`
}

type CreateProduct struct {
	Title           string                   `json:"title"`
	Description     string                   `json:"description"`
	BlueprintID     int64                    `json:"blueprint_id"`
	PrintProviderID int64                    `json:"print_provider_id"`
	Variants        []CreateProductVariant   `json:"variants"`
	PrintAreas      []CreateProductPrintArea `json:"print_areas"`
}

// AddVariant appends a variant, for products whose variants are not all known
// up front.
func (p *CreateProduct) AddVariant(v CreateProductVariant) {
	p.Variants = append(p.Variants, v)
}

func (p *CreateProduct) AddPrintArea(a CreateProductPrintArea) {
	p.PrintAreas = append(p.PrintAreas, a)
}

type UpdateProductExternal struct {
	ID                 *string `json:"id,omitempty"`
	Handle             *string `json:"handle,omitempty"`
	ShippingTemplateID *string `json:"shipping_template_id,omitempty"`
}

// UpdateProduct only sends the fields that are set.
type UpdateProduct struct {
	Title           *string                  `json:"title,omitempty"`
	Description     *string                  `json:"description,omitempty"`
	BlueprintID     *int64                   `json:"blueprint_id,omitempty"`
	PrintProviderID *int64                   `json:"print_provider_id,omitempty"`
	Variants        []CreateProductVariant   `json:"variants,omitempty"`
	PrintAreas      []CreateProductPrintArea `json:"print_areas,omitempty"`
	External        *UpdateProductExternal   `json:"external,omitempty"`
}

// ProductsService wraps https://developers.printify.com/#products. Every call
// is shop-scoped.
type ProductsService struct {
	api   *transport
	scope shopScope
}

// List returns the products of a shop, reading at most maxPages pages.
func (s *ProductsService) List(ctx context.Context, shopID string, maxPages int) ([]Product, error) {
	shop, err := s.scope.resolve(shopID)
	if err != nil {
		return nil, err
	}
	return listPages[Product](ctx, s.api, s.productsURL(shop), maxPages)
}

func (s *ProductsService) Get(ctx context.Context, shopID, productID string) (*Product, error) {
	shop, err := s.scope.resolve(shopID)
	if err != nil {
		return nil, err
	}
	return getOne[Product](ctx, s.api, s.productURL(shop, productID, ".json"))
}

func (s *ProductsService) Create(ctx context.Context, shopID string, p CreateProduct) (*Product, error) {
	shop, err := s.scope.resolve(shopID)
	if err != nil {
		return nil, err
	}
	return sendOne[Product](ctx, s.api, http.MethodPost, s.productsURL(shop), p)
}

func (s *ProductsService) Update(ctx context.Context, shopID, productID string, p UpdateProduct) (*Product, error) {
	shop, err := s.scope.resolve(shopID)
	if err != nil {
		return nil, err
	}
	return sendOne[Product](ctx, s.api, http.MethodPut, s.productURL(shop, productID, ".json"), p)
}

func (s *ProductsService) Delete(ctx context.Context, shopID, productID string) error {
	shop, err := s.scope.resolve(shopID)
	if err != nil {
		return err
	}
	_, err = s.api.delete(ctx, s.productURL(shop, productID, ".json"))
	return err
}

// Publish asks the storefront to pull the product.
func (s *ProductsService) Publish(ctx context.Context, shopID, productID string, p Publish) error {
	return s.postAction(ctx, shopID, productID, "/publish.json", p)
}

// PublishingSucceeded marks a publish as done and records the storefront listing.
func (s *ProductsService) PublishingSucceeded(ctx context.Context, shopID, productID string, p PublishingSucceeded) error {
	return s.postAction(ctx, shopID, productID, "/publishing_succeeded.json", p)
}

func (s *ProductsService) PublishingFailed(ctx context.Context, shopID, productID, reason string) error {
	return s.postAction(ctx, shopID, productID, "/publishing_failed.json", map[string]string{"reason": reason})
}

// Unpublish notifies Printify that the product was removed from the storefront.
func (s *ProductsService) Unpublish(ctx context.Context, shopID, productID string) error {
	return s.postAction(ctx, shopID, productID, "/unpublish.json", nil)
}

func (s *ProductsService) postAction(ctx context.Context, shopID, productID, suffix string, body any) error {
	shop, err := s.scope.resolve(shopID)
	if err != nil {
		return err
	}
	_, err = s.api.post(ctx, s.productURL(shop, productID, suffix), body)
	return err
}

func (s *ProductsService) productsURL(shop string) string {
	return s.api.url("/v1/shops/%s/products.json", url.PathEscape(shop))
}

func (s *ProductsService) productURL(shop, productID, suffix string) string {
	return s.api.url("/v1/shops/%s/products/%s%s", url.PathEscape(shop), url.PathEscape(productID), suffix)
}
