package shopify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopmind/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient points a client at a local fake Storefront endpoint
func newTestClient(serverURL string) *Client {
	client := NewClient("example.myshopify.com", "test-token", "")
	client.endpoint = serverURL
	return client
}

const productsPageFixture = `{
	"data": {
		"products": {
			"edges": [
				{
					"cursor": "cur1",
					"node": {
						"id": "gid://shopify/Product/1",
						"handle": "rose-lip-tint",
						"title": "Rose Lip Tint",
						"descriptionHtml": "<p>A light rose stain.</p>",
						"vendor": "Bloom",
						"productType": "Lip Tint",
						"tags": ["lip", "tint"],
						"onlineStoreUrl": "https://example.myshopify.com/products/rose-lip-tint",
						"images": {"edges": [{"node": {"url": "https://cdn.example.com/rose.webp"}}]},
						"priceRange": {
							"minVariantPrice": {"amount": "12.00", "currencyCode": "USD"},
							"maxVariantPrice": {"amount": "12.00", "currencyCode": "USD"}
						},
						"variants": {"edges": [{"node": {"id": "gid://shopify/ProductVariant/9"}}]}
					}
				}
			],
			"pageInfo": {"hasNextPage": true, "endCursor": "cur1"}
		}
	}
}`

func TestFetchCatalogPage(t *testing.T) {
	t.Run("decodes one product page", func(t *testing.T) {
		var gotRequest graphQLRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "test-token", r.Header.Get("X-Shopify-Storefront-Access-Token"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotRequest))
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(productsPageFixture))
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		page, err := client.FetchCatalogPage(context.Background(), "", 50)
		require.NoError(t, err)

		assert.Equal(t, float64(50), gotRequest.Variables["first"])
		assert.Equal(t, "status:active", gotRequest.Variables["queryFilter"])
		assert.NotContains(t, gotRequest.Variables, "after")

		require.Len(t, page.Items, 1)
		item := page.Items[0]
		assert.Equal(t, "gid://shopify/Product/1", item.ID)
		assert.Equal(t, "Rose Lip Tint", item.Title)
		assert.Equal(t, "https://cdn.example.com/rose.webp", item.ImageURL)
		assert.Equal(t, []string{"gid://shopify/ProductVariant/9"}, item.VariantIDs)
		assert.Equal(t, "12.00", item.PriceRange.MinVariantPrice.Amount)

		assert.True(t, page.HasNextPage)
		assert.Equal(t, "cur1", page.EndCursor)
	})

	t.Run("passes the cursor on subsequent pages", func(t *testing.T) {
		var gotRequest graphQLRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotRequest))
			w.Write([]byte(`{"data": {"products": {"edges": [], "pageInfo": {"hasNextPage": false, "endCursor": ""}}}}`))
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		page, err := client.FetchCatalogPage(context.Background(), "cur1", 50)
		require.NoError(t, err)

		assert.Equal(t, "cur1", gotRequest.Variables["after"])
		assert.Empty(t, page.Items)
		assert.False(t, page.HasNextPage)
	})

	t.Run("surfaces GraphQL errors without retrying", func(t *testing.T) {
		calls := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.Write([]byte(`{"errors": [{"message": "Throttled"}]}`))
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		_, err := client.FetchCatalogPage(context.Background(), "", 50)

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrStorefrontFailure)
		assert.Contains(t, err.Error(), "Throttled")
		assert.Equal(t, 1, calls)
	})

	t.Run("retries server errors", func(t *testing.T) {
		calls := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			if calls < 3 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			w.Write([]byte(`{"data": {"products": {"edges": [], "pageInfo": {"hasNextPage": false, "endCursor": ""}}}}`))
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		_, err := client.FetchCatalogPage(context.Background(), "", 50)

		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})
}

func TestCreateCart(t *testing.T) {
	t.Run("returns the new cart", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"data": {"cartCreate": {
				"cart": {"id": "gid://shopify/Cart/abc", "checkoutUrl": "https://example.myshopify.com/checkout/abc"},
				"userErrors": []
			}}}`))
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		result, err := client.CreateCart(context.Background())
		require.NoError(t, err)

		assert.Equal(t, "gid://shopify/Cart/abc", result.CartID)
		assert.Equal(t, "https://example.myshopify.com/checkout/abc", result.CheckoutURL)
		assert.Empty(t, result.UserErrors)
	})

	t.Run("returns userErrors as data", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"data": {"cartCreate": {
				"cart": null,
				"userErrors": [{"field": ["input"], "message": "Cart could not be created"}]
			}}}`))
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		result, err := client.CreateCart(context.Background())
		require.NoError(t, err)

		assert.Empty(t, result.CartID)
		require.Len(t, result.UserErrors, 1)
		assert.Equal(t, "input", result.UserErrors[0].Field)
		assert.Equal(t, "Cart could not be created", result.UserErrors[0].Message)
	})
}

func TestAddCartLines(t *testing.T) {
	t.Run("sends the line payload and decodes the cart", func(t *testing.T) {
		var gotRequest graphQLRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotRequest))
			w.Write([]byte(`{"data": {"cartLinesAdd": {
				"cart": {"id": "gid://shopify/Cart/abc", "checkoutUrl": "https://example.myshopify.com/checkout/abc"},
				"userErrors": []
			}}}`))
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		result, err := client.AddCartLines(context.Background(), "gid://shopify/Cart/abc", "gid://shopify/ProductVariant/9", 2)
		require.NoError(t, err)

		assert.Equal(t, "gid://shopify/Cart/abc", gotRequest.Variables["cartId"])
		lines, ok := gotRequest.Variables["lines"].([]any)
		require.True(t, ok)
		require.Len(t, lines, 1)
		line := lines[0].(map[string]any)
		assert.Equal(t, "gid://shopify/ProductVariant/9", line["merchandiseId"])
		assert.Equal(t, float64(2), line["quantity"])

		assert.Equal(t, "gid://shopify/Cart/abc", result.CartID)
	})

	t.Run("joins multi-segment error fields", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"data": {"cartLinesAdd": {
				"cart": null,
				"userErrors": [{"field": ["lines", "0", "merchandiseId"], "message": "Variant is out of stock"}]
			}}}`))
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		result, err := client.AddCartLines(context.Background(), "gid://shopify/Cart/abc", "gid://shopify/ProductVariant/9", 1)
		require.NoError(t, err)

		require.Len(t, result.UserErrors, 1)
		assert.Equal(t, "lines.0.merchandiseId", result.UserErrors[0].Field)
	})
}

func TestNewClient(t *testing.T) {
	t.Run("builds the versioned endpoint", func(t *testing.T) {
		client := NewClient("example.myshopify.com", "token", "2024-07")
		assert.Equal(t, "https://example.myshopify.com/api/2024-07/graphql.json", client.endpoint)
	})

	t.Run("falls back to the default API version", func(t *testing.T) {
		client := NewClient("example.myshopify.com", "token", "")
		assert.Contains(t, client.endpoint, DefaultAPIVersion)
	})
}
