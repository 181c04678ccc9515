package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/contractoros/backend/internal/domain"
	"github.com/contractoros/backend/internal/infrastructure/catalog"
)

// DefaultProviderTimeout bounds each individual provider fetch.
const DefaultProviderTimeout = 15 * time.Second

// PricingConfig holds configuration for the pricing service.
type PricingConfig struct {
	ProviderTimeout    time.Duration
	OfferCacheTTL      time.Duration
	EnableDebugLogging bool
}

// PricingService fans out price lookups to every configured live provider
// and merges the results, falling back to the catalog when nothing comes
// back. Provider failures and timeouts are absorbed here; callers only
// ever see an offer list, possibly empty.
type PricingService struct {
	store     *catalog.Store
	providers []domain.PriceProvider // registration order is the rank tie-break
	cache     domain.CacheRepository // nil disables live-offer caching
	timeout   time.Duration
	cacheTTL  time.Duration
	debug     bool
}

// NewPricingService creates a pricing service. providers may be empty, in
// which case every lookup is catalog-only. cache may be nil.
func NewPricingService(store *catalog.Store, providers []domain.PriceProvider, cache domain.CacheRepository, cfg PricingConfig) *PricingService {
	timeout := cfg.ProviderTimeout
	if timeout <= 0 {
		timeout = DefaultProviderTimeout
	}
	cacheTTL := cfg.OfferCacheTTL
	if cacheTTL <= 0 {
		cacheTTL = 15 * time.Minute
	}

	return &PricingService{
		store:     store,
		providers: providers,
		cache:     cache,
		timeout:   timeout,
		cacheTTL:  cacheTTL,
		debug:     cfg.EnableDebugLogging,
	}
}

// GetOffers returns offers for one item, cheapest first. Every live
// provider is queried concurrently under a per-call timeout; the join is
// a full barrier. An empty live result set falls back to zip-filtered
// catalog offers. limit > 0 truncates the ranked list.
func (s *PricingService) GetOffers(ctx context.Context, item domain.LineItem, zip string, limit int) []domain.Offer {
	offers := s.fetchLive(ctx, item, zip)

	if len(offers) == 0 {
		offers = s.store.OffersFor(item.SKUHint, zip)
	} else {
		// Stable: equal prices keep provider registration order
		sort.SliceStable(offers, func(i, j int) bool {
			return offers[i].Price < offers[j].Price
		})
	}

	if limit > 0 && len(offers) > limit {
		offers = offers[:limit]
	}
	return offers
}

// GetOffersStatic is the catalog-only degenerate case used when no live
// providers are configured.
func (s *PricingService) GetOffersStatic(item domain.LineItem, zip string) []domain.Offer {
	return s.store.OffersFor(item.SKUHint, zip)
}

// PriceItems prices every item concurrently and preserves item order.
func (s *PricingService) PriceItems(ctx context.Context, items []domain.LineItem, zip string, limit int) []domain.ItemOffers {
	results := make([]domain.ItemOffers, len(items))

	g, fanCtx := errgroup.WithContext(ctx)
	for i, item := range items {
		g.Go(func() error {
			offers := s.GetOffers(fanCtx, item, zip, limit)
			if offers == nil {
				offers = []domain.Offer{}
			}
			results[i] = domain.ItemOffers{Item: item, Offers: offers}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// fetchLive queries all live providers concurrently and collects every
// zip-eligible offer, in provider registration order. Failures count as
// no offer.
func (s *PricingService) fetchLive(ctx context.Context, item domain.LineItem, zip string) []domain.Offer {
	if len(s.providers) == 0 {
		return nil
	}

	query := domain.OfferQuery{SKUID: item.SKUHint, Name: item.Name, Zip: zip}

	if cached, ok := s.cachedOffers(ctx, query); ok {
		return cached
	}

	collected := make([]*domain.Offer, len(s.providers))
	var mu sync.Mutex

	g, fanCtx := errgroup.WithContext(ctx)
	for i, p := range s.providers {
		g.Go(func() error {
			callCtx, cancel := context.WithTimeout(fanCtx, s.timeout)
			defer cancel()

			offer, err := p.FetchOffer(callCtx, query)
			if err != nil {
				if s.debug {
					log.Printf("[PRICE] Provider %s failed for %q: %v", p.Name(), query.Name, err)
				}
				return nil // failures are isolated, never abort the group
			}
			if offer == nil || offer.Price <= 0 {
				return nil
			}
			if !domain.MatchesZip(offer.ZipPrefix, zip) {
				return nil
			}

			mu.Lock()
			collected[i] = offer
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() // full barrier; no goroutine returns an error

	var offers []domain.Offer
	for _, offer := range collected {
		if offer != nil {
			offers = append(offers, *offer)
		}
	}

	s.storeOffers(ctx, query, offers)
	return offers
}

// offerCacheKey builds the live-offer cache key for a query.
func offerCacheKey(q domain.OfferQuery) string {
	return fmt.Sprintf("offers:%s:%s", q.SKUID, q.Zip)
}

// cachedOffers returns previously collected live offers for the query.
func (s *PricingService) cachedOffers(ctx context.Context, q domain.OfferQuery) ([]domain.Offer, bool) {
	if s.cache == nil {
		return nil, false
	}

	value, err := s.cache.Get(ctx, offerCacheKey(q))
	if err != nil {
		return nil, false
	}

	// The memory cache round-trips through JSON, so re-marshal to decode
	data, err := json.Marshal(value)
	if err != nil {
		return nil, false
	}
	var offers []domain.Offer
	if err := json.Unmarshal(data, &offers); err != nil {
		return nil, false
	}
	if len(offers) == 0 {
		return nil, false
	}
	return offers, true
}

// storeOffers caches collected live offers. Cache failures are ignored.
func (s *PricingService) storeOffers(ctx context.Context, q domain.OfferQuery, offers []domain.Offer) {
	if s.cache == nil || len(offers) == 0 {
		return
	}
	if err := s.cache.Set(ctx, offerCacheKey(q), offers, s.cacheTTL); err != nil && s.debug {
		log.Printf("[PRICE] Failed to cache offers for %s: %v", q.SKUID, err)
	}
}
