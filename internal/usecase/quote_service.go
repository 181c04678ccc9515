package usecase

import (
	"github.com/contractoros/backend/internal/domain"
	"github.com/contractoros/backend/internal/infrastructure/catalog"
)

// QuoteService computes markup/tax-adjusted quotes from resolved items.
// Quoting intentionally uses the cheapest catalog baseline price per SKU,
// not volatile live offers.
type QuoteService struct {
	store *catalog.Store
}

// NewQuoteService creates a quote service over the catalog store.
func NewQuoteService(store *catalog.Store) *QuoteService {
	return &QuoteService{store: store}
}

// ComputeQuote sums qty x cheapest-catalog-price per item, then applies
// markup and tax percentages. Items with no resolvable SKU contribute
// zero and are skipped. All arithmetic is float64 with no rounding.
func (s *QuoteService) ComputeQuote(items []domain.LineItem, markupPct, taxPct float64) domain.Quote {
	subtotal := 0.0
	for _, item := range items {
		price, ok := s.store.CheapestPrice(item.SKUHint)
		if !ok {
			continue
		}
		subtotal += item.Qty * price
	}

	markup := subtotal * (markupPct / 100.0)
	tax := (subtotal + markup) * (taxPct / 100.0)

	return domain.Quote{
		Subtotal: subtotal,
		Markup:   markup,
		Tax:      tax,
		Total:    subtotal + markup + tax,
	}
}
