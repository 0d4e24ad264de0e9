package printify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProducts_MissingShopIDSendsNothing(t *testing.T) {
	c, api := newTestClient(t, respond(http.StatusOK, `{}`))
	ctx := context.Background()

	_, err := c.Products.List(ctx, "", 1)
	assert.ErrorIs(t, err, ErrMissingShopID)
	assert.ErrorIs(t, err, ErrConfiguration)

	_, err = c.Products.Get(ctx, "  ", "p1")
	assert.ErrorIs(t, err, ErrMissingShopID)

	err = c.Products.Delete(ctx, "", "p1")
	assert.ErrorIs(t, err, ErrMissingShopID)

	err = c.Products.Unpublish(ctx, "", "p1")
	assert.ErrorIs(t, err, ErrMissingShopID)

	assert.Empty(t, api.calls())
}

func TestProducts_ExplicitShopOverridesDefault(t *testing.T) {
	c, api := newTestClient(t, respond(http.StatusOK, fmt.Sprintf(productJSON, "abc")), WithShopID("7"))

	p, err := c.Products.Get(context.Background(), "99", "abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", p.ID)
	assert.True(t, p.Variants[0].PriceAmount().Equal(decimal.RequireFromString("12.95")))
	assert.Nil(t, p.External)

	calls := api.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "/v1/shops/99/products/abc.json", calls[0].Path)
}

func TestProducts_Create(t *testing.T) {
	c, api := newTestClient(t, respond(http.StatusOK, fmt.Sprintf(productJSON, "new")), WithShopID("7"))

	req := CreateProduct{
		Title:           "Mug",
		Description:     "A mug",
		BlueprintID:     68,
		PrintProviderID: 1,
	}
	req.AddVariant(CreateProductVariant{ID: 33719, Price: 1295, IsEnabled: true})
	req.AddPrintArea(CreateProductPrintArea{
		VariantIDs: []int64{33719},
		Placeholders: []CreateProductPrintAreaPlaceholder{{
			Position: "front",
			Images: []CreateProductPrintAreaPlaceholderImage{{
				ID:            "img1",
				PrintAreaInfo: PrintAreaInfo{X: 0.5, Y: 0.5, Scale: 1},
			}},
		}},
	})

	p, err := c.Products.Create(context.Background(), "", req)
	require.NoError(t, err)
	assert.Equal(t, "new", p.ID)

	calls := api.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, http.MethodPost, calls[0].Method)
	assert.Equal(t, "/v1/shops/7/products.json", calls[0].Path)

	var body map[string]any
	require.NoError(t, json.Unmarshal(calls[0].Body, &body))
	areas := body["print_areas"].([]any)
	img := areas[0].(map[string]any)["placeholders"].([]any)[0].(map[string]any)["images"].([]any)[0].(map[string]any)
	assert.Equal(t, "img1", img["id"])
	assert.Equal(t, 0.5, img["x"])
	assert.Equal(t, 0.0, img["angle"])
}

func TestProducts_UpdateSendsOnlySetFields(t *testing.T) {
	c, api := newTestClient(t, respond(http.StatusOK, fmt.Sprintf(productJSON, "abc")), WithShopID("7"))

	title := "Renamed"
	_, err := c.Products.Update(context.Background(), "", "abc", UpdateProduct{Title: &title})
	require.NoError(t, err)

	calls := api.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, http.MethodPut, calls[0].Method)
	assert.JSONEq(t, `{"title":"Renamed"}`, string(calls[0].Body))
}

func TestProducts_PublishingCallbacks(t *testing.T) {
	c, api := newTestClient(t, respond(http.StatusOK, `{}`), WithShopID("7"))
	ctx := context.Background()

	require.NoError(t, c.Products.PublishingSucceeded(ctx, "", "abc", PublishingSucceeded{
		External: PublishingSucceededExternal{ID: "5", Handle: "https://shop.example/p/5"},
	}))
	require.NoError(t, c.Products.PublishingFailed(ctx, "", "abc", "out of stock"))
	require.NoError(t, c.Products.Unpublish(ctx, "", "abc"))

	calls := api.calls()
	require.Len(t, calls, 3)
	assert.Equal(t, "/v1/shops/7/products/abc/publishing_succeeded.json", calls[0].Path)
	assert.JSONEq(t, `{"external":{"id":"5","handle":"https://shop.example/p/5"}}`, string(calls[0].Body))
	assert.Equal(t, "/v1/shops/7/products/abc/publishing_failed.json", calls[1].Path)
	assert.JSONEq(t, `{"reason":"out of stock"}`, string(calls[1].Body))
	assert.Equal(t, "/v1/shops/7/products/abc/unpublish.json", calls[2].Path)
	assert.Empty(t, calls[2].Body)
}

func TestProduct_OptionalFieldsAreOmitted(t *testing.T) {
	b, err := json.Marshal(ProductVariant{ID: 1, Price: 100, IsEnabled: true})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"price":100,"is_enabled":true}`, string(b))

	b, err = json.Marshal(UpdateProduct{})
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(b))
}

func TestProduct_DecodesOptionalExternal(t *testing.T) {
	raw := json.RawMessage(`{
		"id": "abc", "title": "t", "description": "d", "tags": [], "options": [],
		"variants": [], "images": [], "created_at": "", "updated_at": "",
		"visible": false, "is_locked": true, "blueprint_id": 1, "user_id": 1,
		"shop_id": 7, "print_provider_id": 1, "print_areas": [],
		"twodaydelivery_enabled": true,
		"external": {"id": "55", "handle": "mug"}
	}`)
	p, err := decode[Product]("test", raw)
	require.NoError(t, err)
	require.NotNil(t, p.External)
	assert.Equal(t, "mug", p.External.Handle)
	assert.Nil(t, p.External.Channel)
	require.NotNil(t, p.TwoDayDeliveryEnabled)
	assert.True(t, *p.TwoDayDeliveryEnabled)
	assert.True(t, p.IsLocked)
}
