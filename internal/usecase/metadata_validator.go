package usecase

import (
	"github.com/shopmind/backend/internal/domain"
)

// ValidateProductMetadata structurally verifies a raw metadata payload
// retrieved from the vector index before it is trusted. Records written by an
// older schema version or corrupted upstream fail here and must be discarded
// by the caller rather than patched with defaults.
//
// Required strings: id, handle, title, price, productUrl, variantId.
// imageUrl may be a string, explicit null, or absent. vendor and productType
// may be strings, explicit null, or absent. tags may be a string or absent.
//
// Pure predicate; no side effects.
func ValidateProductMetadata(raw map[string]any) (*domain.ProductMetadata, error) {
	if raw == nil {
		return nil, domain.ErrInvalidMetadata
	}

	md := &domain.ProductMetadata{}

	for _, field := range []struct {
		key string
		dst *string
	}{
		{"id", &md.ID},
		{"handle", &md.Handle},
		{"title", &md.Title},
		{"price", &md.Price},
		{"productUrl", &md.ProductURL},
		{"variantId", &md.VariantID},
	} {
		s, ok := raw[field.key].(string)
		if !ok {
			return nil, domain.ErrInvalidMetadata
		}
		*field.dst = s
	}

	imageURL, ok := nullableString(raw, "imageUrl")
	if !ok {
		return nil, domain.ErrInvalidMetadata
	}
	md.ImageURL = imageURL

	vendor, ok := nullableString(raw, "vendor")
	if !ok {
		return nil, domain.ErrInvalidMetadata
	}
	md.Vendor = vendor

	productType, ok := nullableString(raw, "productType")
	if !ok {
		return nil, domain.ErrInvalidMetadata
	}
	md.ProductType = productType

	if v, present := raw["tags"]; present {
		s, ok := v.(string)
		if !ok {
			return nil, domain.ErrInvalidMetadata
		}
		md.Tags = s
	}

	return md, nil
}

// nullableString reads a field that may be a string, explicit null, or absent.
// Returns ok=false when the field is present with a non-string, non-null value.
func nullableString(raw map[string]any, key string) (*string, bool) {
	v, present := raw[key]
	if !present || v == nil {
		return nil, true
	}
	s, ok := v.(string)
	if !ok {
		return nil, false
	}
	return &s, true
}
