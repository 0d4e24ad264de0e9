package printify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"
)

// Address is a recipient address. Location is the shorter variant used for
// print providers.
type Address struct {
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Address1  string  `json:"address1"`
	City      string  `json:"city"`
	Country   string  `json:"country"`
	Region    string  `json:"region"`
	Zip       string  `json:"zip"`
	Address2  *string `json:"address2,omitempty"`
	Email     *string `json:"email,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Company   *string `json:"company,omitempty"`
}

// Metadata is a free-form object. Printify adds keys over time and any of
// them may be null, so the raw values are kept and re-encoded as received.
type Metadata map[string]any

// String returns the value at key as text. Numbers are formatted without an
// exponent; missing and null values give "".
func (m Metadata) String(key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case nil:
		return ""
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

type LineItem struct {
	ProductID          string   `json:"product_id"`
	Quantity           int      `json:"quantity"`
	VariantID          int64    `json:"variant_id"`
	PrintProviderID    int64    `json:"print_provider_id"`
	Cost               int      `json:"cost"`
	ShippingCost       int      `json:"shipping_cost"`
	Status             string   `json:"status"`
	Metadata           Metadata `json:"metadata"`
	SentToProductionAt *string  `json:"sent_to_production_at,omitempty"`
	FulfilledAt        *string  `json:"fulfilled_at,omitempty"`
}

type Shipment struct {
	Carrier     string `json:"carrier"`
	Number      string `json:"number"`
	URL         string `json:"url"`
	DeliveredAt string `json:"delivered_at"`
}

// Order totals are in cents.
type Order struct {
	ID                 string     `json:"id"`
	AddressTo          Address    `json:"address_to"`
	LineItems          []LineItem `json:"line_items"`
	Metadata           Metadata   `json:"metadata"`
	TotalPrice         int        `json:"total_price"`
	TotalShipping      int        `json:"total_shipping"`
	TotalTax           int        `json:"total_tax"`
	Status             string     `json:"status"`
	ShippingMethod     int        `json:"shipping_method"`
	CreatedAt          string     `json:"created_at"`
	SentToProductionAt *string    `json:"sent_to_production_at,omitempty"`
	Shipments          []Shipment `json:"shipments,omitempty"`
	FulfilledAt        *string    `json:"fulfilled_at,omitempty"`
	FulfilmentType     *string    `json:"fulfilment_type,omitempty"`
}

// GrandTotal is price plus shipping plus tax, in currency units.
func (o Order) GrandTotal() decimal.Decimal {
	return Cents(o.TotalPrice + o.TotalShipping + o.TotalTax)
}

type ShippingCost struct {
	Standard int `json:"standard"`
	Express  int `json:"express"`
}

// ShippingEstimateLineItem identifies an item in one of three ways: an existing
// product and variant, a blueprint/provider/variant triple, or a SKU. Set the
// fields of exactly one of them; the rest are omitted.
type ShippingEstimateLineItem struct {
	ProductID       string `json:"product_id,omitempty"`
	PrintProviderID int64  `json:"print_provider_id,omitempty"`
	BlueprintID     int64  `json:"blueprint_id,omitempty"`
	VariantID       int64  `json:"variant_id,omitempty"`
	SKU             string `json:"sku,omitempty"`
	Quantity        int    `json:"quantity"`
}

func ShippingEstimateByProduct(productID string, variantID int64, quantity int) ShippingEstimateLineItem {
	return ShippingEstimateLineItem{ProductID: productID, VariantID: variantID, Quantity: quantity}
}

func ShippingEstimateByVariant(printProviderID, blueprintID, variantID int64, quantity int) ShippingEstimateLineItem {
	return ShippingEstimateLineItem{PrintProviderID: printProviderID, BlueprintID: blueprintID, VariantID: variantID, Quantity: quantity}
}

func ShippingEstimateBySKU(sku string, quantity int) ShippingEstimateLineItem {
	return ShippingEstimateLineItem{SKU: sku, Quantity: quantity}
}

type CreateShippingEstimate struct {
	LineItems []ShippingEstimateLineItem `json:"line_items"`
	AddressTo Address                    `json:"address_to"`
}

// CreateOrderRequest is one of the CreateOrder* types. Each variant is a
// distinct way to describe what should be printed.
type CreateOrderRequest interface {
	createOrder()
}

// OrderDetails is shared by every CreateOrder* request.
type OrderDetails struct {
	ExternalID               string  `json:"external_id"`
	Label                    string  `json:"label"`
	ShippingMethod           int     `json:"shipping_method"`
	SendShippingNotification bool    `json:"send_shipping_notification"`
	AddressTo                Address `json:"address_to"`
}

type CreateOrderLineItem struct {
	ProductID string `json:"product_id"`
	VariantID int64  `json:"variant_id"`
	Quantity  int    `json:"quantity"`
}

// CreateOrderExistingProduct orders products that already exist in the shop.
type CreateOrderExistingProduct struct {
	OrderDetails
	LineItems []CreateOrderLineItem `json:"line_items"`
}

// CreateOrderLineItemSimpleProcessing maps a print area position such as
// "front" to an image URL that is centred in it.
type CreateOrderLineItemSimpleProcessing struct {
	PrintProviderID int64             `json:"print_provider_id"`
	BlueprintID     int64             `json:"blueprint_id"`
	VariantID       int64             `json:"variant_id"`
	PrintAreas      map[string]string `json:"print_areas"`
	Quantity        int               `json:"quantity"`
}

type CreateOrderSimpleImageProcessing struct {
	OrderDetails
	LineItems []CreateOrderLineItemSimpleProcessing `json:"line_items"`
}

type AdvancedPrintAreaImage struct {
	Src string `json:"src"`
	PrintAreaInfo
}

type CreateOrderLineItemAdvancedProcessing struct {
	PrintProviderID int64                               `json:"print_provider_id"`
	BlueprintID     int64                               `json:"blueprint_id"`
	VariantID       int64                               `json:"variant_id"`
	PrintAreas      map[string][]AdvancedPrintAreaImage `json:"print_areas"`
	Quantity        int                                 `json:"quantity"`
}

type CreateOrderAdvancedImageProcessing struct {
	OrderDetails
	LineItems []CreateOrderLineItemAdvancedProcessing `json:"line_items"`
}

type PrintDetails struct {
	PrintOnSide string `json:"print_on_side,omitempty"`
}

type CreateOrderLineItemPrintDetails struct {
	PrintProviderID int64             `json:"print_provider_id"`
	BlueprintID     int64             `json:"blueprint_id"`
	VariantID       int64             `json:"variant_id"`
	PrintAreas      map[string]string `json:"print_areas"`
	PrintDetails    PrintDetails      `json:"print_details"`
	Quantity        int               `json:"quantity"`
}

type CreateOrderPrintDetails struct {
	OrderDetails
	LineItems []CreateOrderLineItemPrintDetails `json:"line_items"`
}

type CreateOrderLineItemSKU struct {
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
}

type CreateOrderSKU struct {
	OrderDetails
	LineItems []CreateOrderLineItemSKU `json:"line_items"`
}

func (CreateOrderExistingProduct) createOrder()         {}
func (CreateOrderSimpleImageProcessing) createOrder()   {}
func (CreateOrderAdvancedImageProcessing) createOrder() {}
func (CreateOrderPrintDetails) createOrder()            {}
func (CreateOrderSKU) createOrder()                     {}

type createdOrder struct {
	ID string `json:"id"`
}

// OrdersService wraps https://developers.printify.com/#orders. Every call is
// shop-scoped.
type OrdersService struct {
	api   *transport
	scope shopScope
}

func (s *OrdersService) List(ctx context.Context, shopID string, maxPages int) ([]Order, error) {
	shop, err := s.scope.resolve(shopID)
	if err != nil {
		return nil, err
	}
	return listPages[Order](ctx, s.api, s.api.url("/v1/shops/%s/orders.json", url.PathEscape(shop)), maxPages)
}

func (s *OrdersService) Get(ctx context.Context, shopID, orderID string) (*Order, error) {
	shop, err := s.scope.resolve(shopID)
	if err != nil {
		return nil, err
	}
	return getOne[Order](ctx, s.api, s.orderURL(shop, orderID, ".json"))
}

// Create submits any CreateOrder* request and returns the new order id.
func (s *OrdersService) Create(ctx context.Context, shopID string, req CreateOrderRequest) (string, error) {
	if req == nil {
		return "", configError("create order request is nil")
	}
	shop, err := s.scope.resolve(shopID)
	if err != nil {
		return "", err
	}

	u := s.api.url("/v1/shops/%s/orders.json", url.PathEscape(shop))
	raw, err := s.api.post(ctx, u, req)
	if err != nil {
		return "", err
	}
	created, err := decode[createdOrder](u, raw)
	if err != nil {
		return "", err
	}
	return created.ID, nil
}

func (s *OrdersService) CreateForExistingProduct(ctx context.Context, shopID string, req CreateOrderExistingProduct) (string, error) {
	return s.Create(ctx, shopID, req)
}

func (s *OrdersService) CreateWithSimpleImagePositioning(ctx context.Context, shopID string, req CreateOrderSimpleImageProcessing) (string, error) {
	return s.Create(ctx, shopID, req)
}

func (s *OrdersService) CreateWithAdvancedImagePositioning(ctx context.Context, shopID string, req CreateOrderAdvancedImageProcessing) (string, error) {
	return s.Create(ctx, shopID, req)
}

func (s *OrdersService) CreateWithPrintDetails(ctx context.Context, shopID string, req CreateOrderPrintDetails) (string, error) {
	return s.Create(ctx, shopID, req)
}

func (s *OrdersService) CreateWithSKU(ctx context.Context, shopID string, req CreateOrderSKU) (string, error) {
	return s.Create(ctx, shopID, req)
}

func (s *OrdersService) SendToProduction(ctx context.Context, shopID, orderID string) (*Order, error) {
	return s.postOrder(ctx, shopID, orderID, "/send_to_production.json")
}

func (s *OrdersService) Cancel(ctx context.Context, shopID, orderID string) (*Order, error) {
	return s.postOrder(ctx, shopID, orderID, "/cancel.json")
}

// CalculateShipping estimates standard and express shipping for the items.
func (s *OrdersService) CalculateShipping(ctx context.Context, shopID string, est CreateShippingEstimate) (*ShippingCost, error) {
	shop, err := s.scope.resolve(shopID)
	if err != nil {
		return nil, err
	}
	return sendOne[ShippingCost](ctx, s.api, http.MethodPost, s.api.url("/v1/shops/%s/orders/shipping.json", url.PathEscape(shop)), est)
}

func (s *OrdersService) postOrder(ctx context.Context, shopID, orderID, suffix string) (*Order, error) {
	shop, err := s.scope.resolve(shopID)
	if err != nil {
		return nil, err
	}
	return sendOne[Order](ctx, s.api, http.MethodPost, s.orderURL(shop, orderID, suffix), nil)
}

func (s *OrdersService) orderURL(shop, orderID, suffix string) string {
	return s.api.url("/v1/shops/%s/orders/%s%s", url.PathEscape(shop), url.PathEscape(orderID), suffix)
}
