package catalog

import (
	"context"

	"github.com/contractoros/backend/internal/domain"
)

// Provider exposes the catalog as a price source. It is pure: no I/O,
// never fails. FetchOffer returns the cheapest zip-eligible vendor row;
// the aggregator uses OffersFor directly when it needs the full set.
type Provider struct {
	store *Store
}

// NewProvider creates a catalog-backed price provider.
func NewProvider(store *Store) *Provider {
	return &Provider{store: store}
}

// Name returns the provider's registration name.
func (p *Provider) Name() string {
	return "catalog"
}

// FetchOffer returns the cheapest catalog offer for the query's SKU, or
// (nil, nil) when the SKU is unknown or no row matches the zip.
func (p *Provider) FetchOffer(_ context.Context, q domain.OfferQuery) (*domain.Offer, error) {
	offers := p.store.OffersFor(q.SKUID, q.Zip)
	if len(offers) == 0 {
		return nil, nil
	}
	return &offers[0], nil
}
