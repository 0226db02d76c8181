package domain

// Price represents a single price point from the storefront catalog
type Price struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

// PriceRange represents the min/max variant prices of a catalog item
type PriceRange struct {
	MinVariantPrice Price `json:"minVariantPrice"`
	MaxVariantPrice Price `json:"maxVariantPrice"`
}

// CatalogItem represents a product as the storefront backend owns it.
// Read-only to this system; created and updated by the commerce backend.
type CatalogItem struct {
	ID              string     `json:"id"`
	Handle          string     `json:"handle"`
	Title           string     `json:"title"`
	DescriptionHTML string     `json:"descriptionHtml"`
	Vendor          string     `json:"vendor"`
	ProductType     string     `json:"productType"`
	Tags            []string   `json:"tags"`
	OnlineStoreURL  string     `json:"onlineStoreUrl"`
	PriceRange      PriceRange `json:"priceRange"`
	ImageURL        string     `json:"imageUrl"`
	VariantIDs      []string   `json:"variantIds"`
}

// ProductMetadata is the payload stored alongside each vector index record.
// Every field the chat flow needs to render a product card without a second
// storefront round trip.
type ProductMetadata struct {
	ID          string  `json:"id"`
	Handle      string  `json:"handle"`
	Title       string  `json:"title"`
	Price       string  `json:"price"`
	ImageURL    *string `json:"imageUrl,omitempty"`
	ProductURL  string  `json:"productUrl"`
	VariantID   string  `json:"variantId"`
	Vendor      *string `json:"vendor,omitempty"`
	ProductType *string `json:"productType,omitempty"`
	Tags        string  `json:"tags,omitempty"`
}

// IndexedRecord is one upsert unit for the vector index. The index embeds
// Document server-side; Key is the trailing numeric segment of the catalog GID.
type IndexedRecord struct {
	Key      string          `json:"id"`
	Document string          `json:"data"`
	Metadata ProductMetadata `json:"metadata"`
}

// Retrieval stage labels recorded on a MatchCandidate
const (
	StageKeyword     = "keyword"
	StageDirect      = "direct"
	StageKeywordKept = "keyword-kept"
)

// MatchCandidate represents one vector search hit under consideration.
// Exists only for the duration of a single request.
type MatchCandidate struct {
	ID       string          `json:"id"`
	Score    float64         `json:"score"` // similarity in [0,1]
	Metadata ProductMetadata `json:"metadata"`
	Stage    string          `json:"stage"`
}
