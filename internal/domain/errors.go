package domain

import "errors"

var (
	// ErrSKUNotFound is returned when a phrase or hint maps to no catalog SKU
	ErrSKUNotFound = errors.New("sku not found in catalog")

	// ErrNoOffer is returned when a provider has no offer for a query
	ErrNoOffer = errors.New("no offer for query")

	// ErrProviderFailure is returned when a price provider request fails
	ErrProviderFailure = errors.New("price provider request failed")

	// ErrExtractionFailed is returned when the external extractor errors or
	// produces output the resolver cannot use
	ErrExtractionFailed = errors.New("external extraction failed")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)
