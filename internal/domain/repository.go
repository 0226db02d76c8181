package domain

import "context"

// QueryMatch is one raw hit from the vector index. Metadata is untyped on
// purpose: records written by older schema versions must pass structural
// validation before they are trusted.
type QueryMatch struct {
	ID       string         `json:"id"`
	Score    float64        `json:"score"`
	Metadata map[string]any `json:"metadata"`
	Data     string         `json:"data,omitempty"`
}

// VectorIndex defines the interface for the similarity-search collaborator.
// The index performs text-to-vector embedding internally on both sides.
type VectorIndex interface {
	Query(ctx context.Context, text string, topK int, includeMetadata bool) ([]QueryMatch, error)
	Upsert(ctx context.Context, records []IndexedRecord) error
}

// CatalogPage is one page of the cursor-paginated catalog read
type CatalogPage struct {
	Items       []CatalogItem
	HasNextPage bool
	EndCursor   string
}

// StorefrontClient defines the interface for the commerce backend
type StorefrontClient interface {
	FetchCatalogPage(ctx context.Context, cursor string, pageSize int) (*CatalogPage, error)
	CreateCart(ctx context.Context) (*CartResult, error)
	AddCartLines(ctx context.Context, cartID, variantID string, quantity int) (*CartResult, error)
}

// Understander defines the interface for the language-understanding collaborator.
// Understand returning an error is a valid failure mode the caller degrades from.
type Understander interface {
	Understand(ctx context.Context, query string, history []ChatTurn) (*Understanding, error)
	SuggestQuestion(ctx context.Context) (string, error)
}
