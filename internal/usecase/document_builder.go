package usecase

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopmind/backend/internal/domain"
)

// Package-level compiled regex patterns for performance
var (
	htmlTagRegex    = regexp.MustCompile(`<[^>]*>?`)
	multiSpaceRegex = regexp.MustCompile(`\s+`)
)

// maxDescriptionLength bounds the description portion of the indexed document
const maxDescriptionLength = 500

// cleanDescription strips HTML tags from a product description and truncates
// it so a single verbose listing cannot dominate the embedded document.
func cleanDescription(descriptionHTML string) string {
	cleaned := htmlTagRegex.ReplaceAllString(descriptionHTML, " ")
	cleaned = multiSpaceRegex.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(cleaned)

	runes := []rune(cleaned)
	if len(runes) > maxDescriptionLength {
		cleaned = string(runes[:maxDescriptionLength])
	}
	return cleaned
}

// buildDocument assembles the natural-language string the vector index embeds
// for a catalog item. Title, vendor, type, and tags carry most of the
// semantic signal, so they lead the description.
func buildDocument(item *domain.CatalogItem) string {
	return fmt.Sprintf("Product: %s Brand: %s Type: %s Tags: %s Description: %s",
		item.Title,
		item.Vendor,
		item.ProductType,
		strings.Join(item.Tags, ", "),
		cleanDescription(item.DescriptionHTML),
	)
}

// formatPrice renders the displayed price string: a single price point when
// min and max agree, a "min - max CUR" range when they differ, or "N/A" when
// the catalog carries no price data.
func formatPrice(pr domain.PriceRange) string {
	min := pr.MinVariantPrice
	max := pr.MaxVariantPrice

	if min.Amount == "" {
		return "N/A"
	}
	if max.Amount != "" && max.Amount != min.Amount {
		return fmt.Sprintf("%s - %s %s", min.Amount, max.Amount, min.CurrencyCode)
	}
	return fmt.Sprintf("%s %s", min.Amount, min.CurrencyCode)
}

// recordKey derives the vector index key from the trailing numeric segment of
// a catalog GID (e.g. "gid://shopify/Product/12345" -> "12345").
func recordKey(catalogID string) string {
	if idx := strings.LastIndex(catalogID, "/"); idx >= 0 {
		return catalogID[idx+1:]
	}
	return catalogID
}

// productURL resolves the landing page for an item: the backend's canonical
// URL when present, otherwise one constructed from the configured store domain.
func productURL(item *domain.CatalogItem, storeDomain string) string {
	if item.OnlineStoreURL != "" {
		return item.OnlineStoreURL
	}
	return fmt.Sprintf("https://%s/products/%s", storeDomain, item.Handle)
}

// chooseVariantID picks the purchasable variant for add-to-cart: the first
// available variant, falling back to the item ID so the field is always set.
func chooseVariantID(item *domain.CatalogItem) string {
	if len(item.VariantIDs) > 0 && item.VariantIDs[0] != "" {
		return item.VariantIDs[0]
	}
	return item.ID
}
