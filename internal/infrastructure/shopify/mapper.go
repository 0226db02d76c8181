package shopify

import (
	"strings"

	"github.com/shopmind/backend/internal/domain"
)

// GraphQL documents for the three Storefront operations this system uses.
// variants(first: 1) is enough: add-to-cart only ever needs one variant ID.
const productsQuery = `
query GetProducts($first: Int!, $after: String, $queryFilter: String) {
  products(first: $first, after: $after, query: $queryFilter) {
    edges {
      cursor
      node {
        id
        handle
        title
        descriptionHtml
        vendor
        productType
        tags
        onlineStoreUrl
        images(first: 1) {
          edges {
            node {
              url(transform: {maxWidth: 200, maxHeight: 200, preferredContentType: WEBP})
            }
          }
        }
        priceRange {
          minVariantPrice { amount currencyCode }
          maxVariantPrice { amount currencyCode }
        }
        variants(first: 1) {
          edges {
            node { id }
          }
        }
      }
    }
    pageInfo {
      hasNextPage
      endCursor
    }
  }
}`

const cartCreateMutation = `
mutation cartCreate($input: CartInput = {}) {
  cartCreate(input: $input) {
    cart { id checkoutUrl }
    userErrors { field message }
  }
}`

const cartLinesAddMutation = `
mutation cartLinesAdd($cartId: ID!, $lines: [CartLineInput!]!) {
  cartLinesAdd(cartId: $cartId, lines: $lines) {
    cart { id checkoutUrl }
    userErrors { field message code }
  }
}`

// Wire types mirroring the Storefront GraphQL response shapes

type priceNode struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

type productNode struct {
	ID              string   `json:"id"`
	Handle          string   `json:"handle"`
	Title           string   `json:"title"`
	DescriptionHTML string   `json:"descriptionHtml"`
	Vendor          string   `json:"vendor"`
	ProductType     string   `json:"productType"`
	Tags            []string `json:"tags"`
	OnlineStoreURL  string   `json:"onlineStoreUrl"`
	Images          struct {
		Edges []struct {
			Node struct {
				URL string `json:"url"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"images"`
	PriceRange struct {
		MinVariantPrice priceNode `json:"minVariantPrice"`
		MaxVariantPrice priceNode `json:"maxVariantPrice"`
	} `json:"priceRange"`
	Variants struct {
		Edges []struct {
			Node struct {
				ID string `json:"id"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"variants"`
}

type productsConnection struct {
	Edges []struct {
		Cursor string      `json:"cursor"`
		Node   productNode `json:"node"`
	} `json:"edges"`
	PageInfo struct {
		HasNextPage bool   `json:"hasNextPage"`
		EndCursor   string `json:"endCursor"`
	} `json:"pageInfo"`
}

type productsResponse struct {
	Products productsConnection `json:"products"`
}

type cartNode struct {
	ID          string `json:"id"`
	CheckoutURL string `json:"checkoutUrl"`
}

type cartUserError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

type cartCreateResponse struct {
	CartCreate *struct {
		Cart       *cartNode       `json:"cart"`
		UserErrors []cartUserError `json:"userErrors"`
	} `json:"cartCreate"`
}

type cartLinesAddResponse struct {
	CartLinesAdd *struct {
		Cart       *cartNode       `json:"cart"`
		UserErrors []cartUserError `json:"userErrors"`
	} `json:"cartLinesAdd"`
}

// mapProductNode converts one GraphQL product node to the domain model
func mapProductNode(node *productNode) domain.CatalogItem {
	item := domain.CatalogItem{
		ID:              node.ID,
		Handle:          node.Handle,
		Title:           node.Title,
		DescriptionHTML: node.DescriptionHTML,
		Vendor:          node.Vendor,
		ProductType:     node.ProductType,
		Tags:            node.Tags,
		OnlineStoreURL:  node.OnlineStoreURL,
		PriceRange: domain.PriceRange{
			MinVariantPrice: domain.Price(node.PriceRange.MinVariantPrice),
			MaxVariantPrice: domain.Price(node.PriceRange.MaxVariantPrice),
		},
	}

	if len(node.Images.Edges) > 0 {
		item.ImageURL = node.Images.Edges[0].Node.URL
	}
	for _, edge := range node.Variants.Edges {
		item.VariantIDs = append(item.VariantIDs, edge.Node.ID)
	}

	return item
}

// mapProductsConnection converts one products page to the domain model
func mapProductsConnection(conn *productsConnection) *domain.CatalogPage {
	page := &domain.CatalogPage{
		Items:       make([]domain.CatalogItem, 0, len(conn.Edges)),
		HasNextPage: conn.PageInfo.HasNextPage,
		EndCursor:   conn.PageInfo.EndCursor,
	}
	for i := range conn.Edges {
		page.Items = append(page.Items, mapProductNode(&conn.Edges[i].Node))
	}
	return page
}

// mapCartPayload converts a cart mutation payload to the domain model
func mapCartPayload(cart *cartNode, userErrors []cartUserError) *domain.CartResult {
	result := &domain.CartResult{
		UserErrors: make([]domain.CartUserError, 0, len(userErrors)),
	}
	if cart != nil {
		result.CartID = cart.ID
		result.CheckoutURL = cart.CheckoutURL
	}
	for _, ue := range userErrors {
		result.UserErrors = append(result.UserErrors, domain.CartUserError{
			Field:   strings.Join(ue.Field, "."),
			Message: ue.Message,
		})
	}
	return result
}
