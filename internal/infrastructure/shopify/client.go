package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/shopmind/backend/internal/domain"
	"golang.org/x/time/rate"
)

// DefaultAPIVersion is the Storefront API version requested when none is configured
const DefaultAPIVersion = "2024-07"

// Client handles communication with the Shopify Storefront GraphQL API
type Client struct {
	httpClient  *http.Client
	endpoint    string
	accessToken string
	storeDomain string
	rateLimiter *rate.Limiter
}

// NewClient creates a new Storefront API client for the given store domain
func NewClient(storeDomain, accessToken, apiVersion string) *Client {
	if apiVersion == "" {
		apiVersion = DefaultAPIVersion
	}

	// The Storefront API throttles per-client; 2 req/sec with a small burst
	// keeps a full catalog sync comfortably inside the limit
	limiter := rate.NewLimiter(rate.Limit(2), 4)

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		endpoint:    fmt.Sprintf("https://%s/api/%s/graphql.json", storeDomain, apiVersion),
		accessToken: accessToken,
		storeDomain: storeDomain,
		rateLimiter: limiter,
	}
}

// graphQLRequest is the wire form of one Storefront API call
type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// graphQLError is one GraphQL-level error entry
type graphQLError struct {
	Message string `json:"message"`
}

// execute posts one GraphQL request and decodes the data envelope into out.
// Transient failures are retried up to 3 times with backoff.
func (c *Client) execute(ctx context.Context, query string, variables map[string]any, out any) error {
	payload, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter error: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Shopify-Storefront-Access-Token", c.accessToken)
		req.Header.Set("User-Agent", "ShopMind/1.0")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			log.Printf("[SHOPIFY] Request error (attempt %d): %v", attempt, err)
			lastErr = fmt.Errorf("%w: %v", domain.ErrStorefrontFailure, err)
			time.Sleep(time.Duration(attempt*500) * time.Millisecond)
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			log.Printf("[SHOPIFY] API error (attempt %d) - Status: %d, Body: %s", attempt, resp.StatusCode, string(body))
			lastErr = fmt.Errorf("%w: status %d", domain.ErrStorefrontFailure, resp.StatusCode)
			time.Sleep(time.Duration(attempt*500) * time.Millisecond)
			continue
		}

		var envelope struct {
			Data   json.RawMessage `json:"data"`
			Errors []graphQLError  `json:"errors"`
		}
		if err := json.Unmarshal(body, &envelope); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}

		if len(envelope.Errors) > 0 {
			log.Printf("[SHOPIFY] GraphQL errors: %v", envelope.Errors)
			return fmt.Errorf("%w: %s", domain.ErrStorefrontFailure, envelope.Errors[0].Message)
		}
		if envelope.Data == nil {
			return fmt.Errorf("%w: response carried no data", domain.ErrStorefrontFailure)
		}

		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("failed to decode response data: %w", err)
		}
		return nil
	}

	return lastErr
}

// FetchCatalogPage fetches one page of active products using cursor pagination
func (c *Client) FetchCatalogPage(ctx context.Context, cursor string, pageSize int) (*domain.CatalogPage, error) {
	variables := map[string]any{
		"first":       pageSize,
		"queryFilter": "status:active",
	}
	if cursor != "" {
		variables["after"] = cursor
	}

	log.Printf("[SHOPIFY] Fetching products... Limit: %d, After: %q", pageSize, cursor)

	var result productsResponse
	if err := c.execute(ctx, productsQuery, variables, &result); err != nil {
		return nil, err
	}

	page := mapProductsConnection(&result.Products)
	log.Printf("[SHOPIFY] Fetched %d products. HasNextPage: %v", len(page.Items), page.HasNextPage)
	return page, nil
}

// CreateCart creates an empty storefront cart
func (c *Client) CreateCart(ctx context.Context) (*domain.CartResult, error) {
	var result cartCreateResponse
	if err := c.execute(ctx, cartCreateMutation, nil, &result); err != nil {
		return nil, err
	}
	if result.CartCreate == nil {
		return nil, fmt.Errorf("%w: no cartCreate data returned", domain.ErrStorefrontFailure)
	}

	mapped := mapCartPayload(result.CartCreate.Cart, result.CartCreate.UserErrors)
	if mapped.CartID == "" && len(mapped.UserErrors) == 0 {
		return nil, fmt.Errorf("%w: cart created without an ID", domain.ErrStorefrontFailure)
	}
	if mapped.CartID != "" {
		log.Printf("[SHOPIFY] New cart created: %s", mapped.CartID)
	}
	return mapped, nil
}

// AddCartLines adds one variant line to an existing cart
func (c *Client) AddCartLines(ctx context.Context, cartID, variantID string, quantity int) (*domain.CartResult, error) {
	variables := map[string]any{
		"cartId": cartID,
		"lines": []map[string]any{
			{"merchandiseId": variantID, "quantity": quantity},
		},
	}

	log.Printf("[SHOPIFY] Adding variant %s (qty %d) to cart %s", variantID, quantity, cartID)

	var result cartLinesAddResponse
	if err := c.execute(ctx, cartLinesAddMutation, variables, &result); err != nil {
		return nil, err
	}
	if result.CartLinesAdd == nil {
		return nil, fmt.Errorf("%w: no cartLinesAdd data returned", domain.ErrStorefrontFailure)
	}

	mapped := mapCartPayload(result.CartLinesAdd.Cart, result.CartLinesAdd.UserErrors)
	if mapped.CartID == "" && len(mapped.UserErrors) == 0 {
		return nil, fmt.Errorf("%w: no cart ID returned and no user errors", domain.ErrStorefrontFailure)
	}
	return mapped, nil
}
