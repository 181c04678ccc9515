package usecase

import (
	"fmt"
	"strings"

	"github.com/contractoros/backend/internal/infrastructure/catalog"
)

// Default confidence tiers. Raw catalog names are longer and more
// ambiguous than curated synonym phrases, so they require a stronger
// match before a fuzzy hit is trusted.
const (
	DefaultSynonymThreshold = 80.0
	DefaultCatalogThreshold = 85.0
)

// Scorer computes a 0-100 similarity between two phrases.
type Scorer func(a, b string) float64

// SynonymConfig maps a catalog SKU id to its configured synonym phrases.
type SynonymConfig map[string][]string

// candidate is one phrase the fuzzy resolver may match against.
type candidate struct {
	phrase string
	skuID  string
}

// IndexConfig holds configuration for building a SynonymIndex.
type IndexConfig struct {
	SynonymThreshold float64
	CatalogThreshold float64
	Scorer           Scorer
}

// SynonymIndex resolves free-text phrases to catalog SKU ids, first by
// case-insensitive exact lookup, then by fuzzy similarity with tiered
// confidence thresholds. Built once at startup; read-only afterwards.
type SynonymIndex struct {
	exact            map[string]string
	synonyms         []candidate // build order: sorted SKU id, then config phrase order
	names            []candidate // build order: sorted SKU id
	synonymThreshold float64
	catalogThreshold float64
	scorer           Scorer
}

// NewSynonymIndex builds the index from catalog names plus configured
// synonym phrases. A synonym entry referencing an unknown SKU or mapping
// one phrase to two different SKUs is a startup configuration error.
func NewSynonymIndex(store *catalog.Store, synonyms SynonymConfig, cfg IndexConfig) (*SynonymIndex, error) {
	idx := &SynonymIndex{
		exact:            make(map[string]string),
		synonymThreshold: cfg.SynonymThreshold,
		catalogThreshold: cfg.CatalogThreshold,
		scorer:           cfg.Scorer,
	}
	if idx.synonymThreshold <= 0 {
		idx.synonymThreshold = DefaultSynonymThreshold
	}
	if idx.catalogThreshold <= 0 {
		idx.catalogThreshold = DefaultCatalogThreshold
	}
	if idx.scorer == nil {
		idx.scorer = Similarity
	}

	// Catalog names first, in sorted id order
	for _, sku := range store.All() {
		key := normalizePhrase(sku.Name)
		if prev, ok := idx.exact[key]; ok && prev != sku.ID {
			return nil, fmt.Errorf("catalog name %q maps to both %q and %q", sku.Name, prev, sku.ID)
		}
		idx.exact[key] = sku.ID
		idx.names = append(idx.names, candidate{phrase: sku.Name, skuID: sku.ID})
	}

	// Configured synonym phrases, iterated in sorted id order so the
	// build is a pure function of the config
	for _, id := range store.IDs() {
		for _, phrase := range synonyms[id] {
			key := normalizePhrase(phrase)
			if key == "" {
				return nil, fmt.Errorf("empty synonym phrase for sku %q", id)
			}
			if prev, ok := idx.exact[key]; ok {
				if prev != id {
					return nil, fmt.Errorf("synonym %q maps to both %q and %q", phrase, prev, id)
				}
				continue
			}
			idx.exact[key] = id
			idx.synonyms = append(idx.synonyms, candidate{phrase: phrase, skuID: id})
		}
	}

	for id := range synonyms {
		if _, ok := store.Get(id); !ok {
			return nil, fmt.Errorf("synonym config references unknown sku %q", id)
		}
	}

	return idx, nil
}

// ResolveExact looks up a phrase against canonical names and synonym
// phrases, case-insensitively.
func (idx *SynonymIndex) ResolveExact(phrase string) (string, bool) {
	id, ok := idx.exact[normalizePhrase(phrase)]
	return id, ok
}

// ResolveFuzzy returns the best-scoring SKU whose candidate phrase clears
// its tier's threshold (synonyms at the lower tier, catalog names at the
// stricter one). A score exactly at the threshold resolves. Equal top
// scores keep the earlier candidate in build order.
func (idx *SynonymIndex) ResolveFuzzy(phrase string) (string, bool) {
	phrase = strings.TrimSpace(phrase)
	if phrase == "" {
		return "", false
	}

	bestID := ""
	bestScore := -1.0

	consider := func(c candidate, threshold float64) {
		score := idx.scorer(phrase, c.phrase)
		if score < threshold {
			return
		}
		if score > bestScore {
			bestScore = score
			bestID = c.skuID
		}
	}

	for _, c := range idx.synonyms {
		consider(c, idx.synonymThreshold)
	}
	for _, c := range idx.names {
		consider(c, idx.catalogThreshold)
	}

	if bestID == "" {
		return "", false
	}
	return bestID, true
}

// normalizePhrase lowercases and trims a phrase for exact lookup.
func normalizePhrase(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
