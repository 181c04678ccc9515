package domain

import (
	"context"
	"time"
)

// PriceProvider is the single capability every price source exposes:
// fetch one offer for a query. A (nil, nil) return means the source has
// no offer; an error is treated the same way by the aggregator.
type PriceProvider interface {
	Name() string
	FetchOffer(ctx context.Context, q OfferQuery) (*Offer, error)
}

// ItemExtractor is the external text/vision extraction collaborator.
// Implementations may fail for any reason (timeout, malformed output);
// callers must catch and fall back to rule-based resolution.
type ItemExtractor interface {
	Extract(ctx context.Context, text string, image []byte, knownSKUs []string) ([]ItemDraft, error)
}

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
