package domain

import "errors"

var (
	// ErrInvalidQuery is returned when a chat request carries no usable query text
	ErrInvalidQuery = errors.New("invalid or empty query")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrInvalidMetadata is returned when an index record's metadata fails structural validation
	ErrInvalidMetadata = errors.New("product metadata failed validation")

	// ErrUnderstandingFailed is returned when the language-understanding call yields nothing usable
	ErrUnderstandingFailed = errors.New("language understanding unavailable")

	// ErrStorefrontFailure is returned when a Shopify Storefront API request fails
	ErrStorefrontFailure = errors.New("storefront API request failed")

	// ErrVectorIndexFailure is returned when a vector index request fails
	ErrVectorIndexFailure = errors.New("vector index request failed")
)
