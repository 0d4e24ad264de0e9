package printify

import (
	"context"
	"strconv"
)

// Shop is a storefront connected to the Printify account.
type Shop struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	SalesChannel string `json:"sales_channel"`
}

// IDString formats the shop id for use with shop-scoped calls.
func (s Shop) IDString() string { return strconv.FormatInt(s.ID, 10) }

// ShopsService wraps https://developers.printify.com/#shops.
type ShopsService struct {
	api *transport
}

// List returns every shop of the account. It is empty, not nil, when the
// account has none.
func (s *ShopsService) List(ctx context.Context) ([]Shop, error) {
	return getJSON[[]Shop](ctx, s.api, s.api.url("/v1/shops.json"))
}

// Disconnect removes the shop from the account.
func (s *ShopsService) Disconnect(ctx context.Context, shop Shop) error {
	_, err := s.api.delete(ctx, s.api.url("/v1/shops/%d/connection.json", shop.ID))
	return err
}
