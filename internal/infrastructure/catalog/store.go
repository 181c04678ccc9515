// Package catalog holds the canonical SKU registry and the catalog-backed
// price provider. The store is built once at startup and shared read-only
// across all requests.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/contractoros/backend/internal/domain"
)

// Store is the canonical SKU registry. Immutable after construction.
type Store struct {
	skus map[string]domain.MaterialSKU
	ids  []string // sorted, for deterministic iteration
}

// NewStore builds a store from SKU entries, validating the catalog
// invariants. Any violation is a startup configuration error.
func NewStore(skus []domain.MaterialSKU) (*Store, error) {
	s := &Store{skus: make(map[string]domain.MaterialSKU, len(skus))}

	for _, sku := range skus {
		if sku.ID == "" {
			return nil, fmt.Errorf("catalog entry with empty id (name: %q)", sku.Name)
		}
		if sku.Name == "" {
			return nil, fmt.Errorf("catalog entry %q has empty name", sku.ID)
		}
		if _, dup := s.skus[sku.ID]; dup {
			return nil, fmt.Errorf("duplicate catalog id %q", sku.ID)
		}
		for _, v := range sku.Vendors {
			if v.Price <= 0 {
				return nil, fmt.Errorf("catalog id %q: vendor %q has non-positive price %v", sku.ID, v.Store, v.Price)
			}
			if v.ZipPrefix == "" {
				return nil, fmt.Errorf("catalog id %q: vendor %q has empty zip prefix (use \"*\" for universal)", sku.ID, v.Store)
			}
		}
		s.skus[sku.ID] = sku
		s.ids = append(s.ids, sku.ID)
	}

	if len(s.ids) == 0 {
		return nil, fmt.Errorf("catalog is empty")
	}

	sort.Strings(s.ids)
	return s, nil
}

// LoadFile reads a JSON catalog file (an array of SKU entries).
func LoadFile(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file %s: %w", path, err)
	}

	var skus []domain.MaterialSKU
	if err := json.Unmarshal(data, &skus); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file %s: %w", path, err)
	}

	return NewStore(skus)
}

// Get returns the SKU for an id.
func (s *Store) Get(id string) (domain.MaterialSKU, bool) {
	sku, ok := s.skus[id]
	return sku, ok
}

// IDs returns all SKU ids in sorted order.
func (s *Store) IDs() []string {
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

// All returns all SKUs in sorted id order.
func (s *Store) All() []domain.MaterialSKU {
	out := make([]domain.MaterialSKU, 0, len(s.ids))
	for _, id := range s.ids {
		out = append(out, s.skus[id])
	}
	return out
}

// Len returns the number of SKUs in the store.
func (s *Store) Len() int {
	return len(s.ids)
}

// OffersFor returns the vendor rows for a SKU whose zip prefix is "*" or
// a prefix of the request zip, sorted ascending by price. Unknown ids
// yield an empty slice, never an error.
func (s *Store) OffersFor(id, zip string) []domain.Offer {
	sku, ok := s.skus[id]
	if !ok {
		return nil
	}

	var offers []domain.Offer
	for _, v := range sku.Vendors {
		if !domain.MatchesZip(v.ZipPrefix, zip) {
			continue
		}
		offers = append(offers, domain.Offer{
			Store:     v.Store,
			Price:     v.Price,
			ZipPrefix: v.ZipPrefix,
		})
	}

	sort.SliceStable(offers, func(i, j int) bool {
		return offers[i].Price < offers[j].Price
	})
	return offers
}

// CheapestPrice returns the lowest vendor price for a SKU across all zip
// scopes. Quoting uses this stable baseline rather than live offers.
func (s *Store) CheapestPrice(id string) (float64, bool) {
	sku, ok := s.skus[id]
	if !ok || len(sku.Vendors) == 0 {
		return 0, false
	}

	best := sku.Vendors[0].Price
	for _, v := range sku.Vendors[1:] {
		if v.Price < best {
			best = v.Price
		}
	}
	return best, true
}
