package usecase

import (
	"context"
	"fmt"
	"log"

	"github.com/shopmind/backend/internal/domain"
)

// CartService adds catalog variants to a storefront cart, creating the cart
// on first use. Storefront userErrors (out of stock, invalid variant) are
// returned as data for the caller to display, never as faults.
type CartService struct {
	storefront domain.StorefrontClient
}

// NewCartService creates a new cart service
func NewCartService(storefront domain.StorefrontClient) *CartService {
	return &CartService{storefront: storefront}
}

// AddToCart adds a variant to the given cart, creating a new cart when cartID
// is empty. Quantity defaults to 1.
func (s *CartService) AddToCart(ctx context.Context, cartID, variantID string, quantity int) (*domain.CartResult, error) {
	if variantID == "" {
		return nil, domain.ErrInvalidRequest
	}
	if quantity <= 0 {
		quantity = 1
	}

	if cartID == "" {
		log.Printf("[CART] No cart ID provided, creating a new cart")
		created, err := s.storefront.CreateCart(ctx)
		if err != nil {
			return nil, fmt.Errorf("cart create failed: %w", err)
		}
		if len(created.UserErrors) > 0 {
			return created, nil
		}
		cartID = created.CartID
	}

	result, err := s.storefront.AddCartLines(ctx, cartID, variantID, quantity)
	if err != nil {
		return nil, fmt.Errorf("cart add lines failed: %w", err)
	}
	if result.CartID == "" {
		result.CartID = cartID
	}

	return result, nil
}
