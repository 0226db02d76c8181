package upstash

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/shopmind/backend/internal/domain"
	"golang.org/x/time/rate"
)

// Client handles communication with an Upstash Vector index over its REST
// API. The index performs text-to-vector embedding server-side, so records
// and queries carry raw text in the data field.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	token       string
	rateLimiter *rate.Limiter
}

// NewClient creates a new vector index client
func NewClient(baseURL, token string) *Client {
	// Generous limit; upserts are batched upstream so this mostly smooths
	// the per-request query load
	limiter := rate.NewLimiter(rate.Limit(10), 20)

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:     strings.TrimRight(baseURL, "/"),
		token:       token,
		rateLimiter: limiter,
	}
}

// post executes one REST call with retries for transient failures
func (c *Client) post(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter error: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.token)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			log.Printf("[VECTOR] Request error (attempt %d): %v", attempt, err)
			lastErr = fmt.Errorf("%w: %v", domain.ErrVectorIndexFailure, err)
			time.Sleep(time.Duration(attempt*500) * time.Millisecond)
			continue
		}

		respBody, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			log.Printf("[VECTOR] API error (attempt %d) - Status: %d, Body: %s", attempt, resp.StatusCode, string(respBody))
			lastErr = fmt.Errorf("%w: status %d", domain.ErrVectorIndexFailure, resp.StatusCode)
			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				// Client errors will not heal on retry
				return lastErr
			}
			time.Sleep(time.Duration(attempt*500) * time.Millisecond)
			continue
		}

		if out == nil {
			return nil
		}
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
		return nil
	}

	return lastErr
}

// queryRequest is the wire form of a text query against the index
type queryRequest struct {
	Data            string `json:"data"`
	TopK            int    `json:"topK"`
	IncludeMetadata bool   `json:"includeMetadata"`
	IncludeData     bool   `json:"includeData,omitempty"`
}

// queryResponse wraps the ordered result list
type queryResponse struct {
	Result []domain.QueryMatch `json:"result"`
}

// Query runs one similarity search over the index and returns the ordered
// matches (may be empty)
func (c *Client) Query(ctx context.Context, text string, topK int, includeMetadata bool) ([]domain.QueryMatch, error) {
	log.Printf("[VECTOR] Querying index with data: %q (topK: %d)", truncate(text, 70), topK)

	var resp queryResponse
	err := c.post(ctx, "/query-data", queryRequest{
		Data:            text,
		TopK:            topK,
		IncludeMetadata: includeMetadata,
	}, &resp)
	if err != nil {
		return nil, err
	}

	if len(resp.Result) > 0 {
		log.Printf("[VECTOR] Top match ID: %s, Score: %.4f", resp.Result[0].ID, resp.Result[0].Score)
	}
	return resp.Result, nil
}

// Upsert writes one batch of records. Existing keys are overwritten, which is
// what makes ingestion re-runs idempotent.
func (c *Client) Upsert(ctx context.Context, records []domain.IndexedRecord) error {
	if len(records) == 0 {
		return nil
	}

	log.Printf("[VECTOR] Upserting %d records", len(records))
	return c.post(ctx, "/upsert-data", records, nil)
}

// truncate bounds free text in log lines
func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
