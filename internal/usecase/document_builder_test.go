package usecase

import (
	"strings"
	"testing"

	"github.com/shopmind/backend/internal/domain"
)

func TestCleanDescription(t *testing.T) {
	t.Run("strips HTML tags", func(t *testing.T) {
		got := cleanDescription("<p>A <strong>rich</strong> rose tint.</p>")
		want := "A rich rose tint."
		if got != want {
			t.Errorf("cleanDescription = %q, want %q", got, want)
		}
	})

	t.Run("collapses whitespace", func(t *testing.T) {
		got := cleanDescription("Soft\n\n  matte   finish")
		want := "Soft matte finish"
		if got != want {
			t.Errorf("cleanDescription = %q, want %q", got, want)
		}
	})

	t.Run("truncates long descriptions", func(t *testing.T) {
		got := cleanDescription(strings.Repeat("a", 600))
		if len(got) != maxDescriptionLength {
			t.Errorf("len = %d, want %d", len(got), maxDescriptionLength)
		}
	})

	t.Run("empty input stays empty", func(t *testing.T) {
		if got := cleanDescription(""); got != "" {
			t.Errorf("cleanDescription = %q, want empty", got)
		}
	})
}

func TestBuildDocument(t *testing.T) {
	item := &domain.CatalogItem{
		Title:           "Rose Lip Tint",
		Vendor:          "Bloom",
		ProductType:     "Lip Tint",
		Tags:            []string{"lip", "tint", "rose"},
		DescriptionHTML: "<p>A light rose stain.</p>",
	}

	got := buildDocument(item)
	want := "Product: Rose Lip Tint Brand: Bloom Type: Lip Tint Tags: lip, tint, rose Description: A light rose stain."
	if got != want {
		t.Errorf("buildDocument = %q, want %q", got, want)
	}
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		name string
		pr   domain.PriceRange
		want string
	}{
		{
			name: "single price point",
			pr: domain.PriceRange{
				MinVariantPrice: domain.Price{Amount: "10.00", CurrencyCode: "USD"},
				MaxVariantPrice: domain.Price{Amount: "10.00", CurrencyCode: "USD"},
			},
			want: "10.00 USD",
		},
		{
			name: "price range",
			pr: domain.PriceRange{
				MinVariantPrice: domain.Price{Amount: "10.00", CurrencyCode: "USD"},
				MaxVariantPrice: domain.Price{Amount: "15.00", CurrencyCode: "USD"},
			},
			want: "10.00 - 15.00 USD",
		},
		{
			name: "missing price data",
			pr:   domain.PriceRange{},
			want: "N/A",
		},
		{
			name: "min only",
			pr: domain.PriceRange{
				MinVariantPrice: domain.Price{Amount: "8.50", CurrencyCode: "EUR"},
			},
			want: "8.50 EUR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatPrice(tt.pr); got != tt.want {
				t.Errorf("formatPrice = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRecordKey(t *testing.T) {
	t.Run("takes the trailing GID segment", func(t *testing.T) {
		if got := recordKey("gid://shopify/Product/12345"); got != "12345" {
			t.Errorf("recordKey = %q, want %q", got, "12345")
		}
	})

	t.Run("passes through plain IDs", func(t *testing.T) {
		if got := recordKey("12345"); got != "12345" {
			t.Errorf("recordKey = %q, want %q", got, "12345")
		}
	})
}

func TestProductURL(t *testing.T) {
	t.Run("prefers the canonical URL", func(t *testing.T) {
		item := &domain.CatalogItem{Handle: "rose-lip-tint", OnlineStoreURL: "https://shop.example.com/p/rose"}
		if got := productURL(item, "shop.example.com"); got != "https://shop.example.com/p/rose" {
			t.Errorf("productURL = %q", got)
		}
	})

	t.Run("constructs from the store domain otherwise", func(t *testing.T) {
		item := &domain.CatalogItem{Handle: "rose-lip-tint"}
		want := "https://shop.example.com/products/rose-lip-tint"
		if got := productURL(item, "shop.example.com"); got != want {
			t.Errorf("productURL = %q, want %q", got, want)
		}
	})
}

func TestChooseVariantID(t *testing.T) {
	t.Run("takes the first variant", func(t *testing.T) {
		item := &domain.CatalogItem{ID: "gid://shopify/Product/1", VariantIDs: []string{"gid://shopify/ProductVariant/9"}}
		if got := chooseVariantID(item); got != "gid://shopify/ProductVariant/9" {
			t.Errorf("chooseVariantID = %q", got)
		}
	})

	t.Run("falls back to the item ID", func(t *testing.T) {
		item := &domain.CatalogItem{ID: "gid://shopify/Product/1"}
		if got := chooseVariantID(item); got != "gid://shopify/Product/1" {
			t.Errorf("chooseVariantID = %q", got)
		}
	})
}
