package usecase

import (
	"context"
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/contractoros/backend/internal/domain"
	"github.com/contractoros/backend/internal/infrastructure/catalog"
)

// quantityRegex captures the first decimal-number token in a line.
var quantityRegex = regexp.MustCompile(`(^|\s)(\d+(?:\.\d+)?)`)

// BaselineSKU is substituted when an externally proposed item cannot be
// mapped to any catalog SKU. A defaulted stud beats a dropped line for
// quoting purposes.
const BaselineSKU = "2x4_stud_92"

// DefaultExtractTimeout bounds the external extraction call.
const DefaultExtractTimeout = 20 * time.Second

// keywordRule is a cheap compound matcher: the lowercased line must
// contain at least one keyword from every group.
type keywordRule struct {
	groups [][]string
	sku    string
}

// defaultKeywordRules run before any synonym or fuzzy lookup. Compound
// rules (dimension group + category group) first, single-category
// fallbacks last; order matters.
var defaultKeywordRules = []keywordRule{
	{groups: [][]string{{"2x4"}, {"stud", "92"}}, sku: "2x4_stud_92"},
	{groups: [][]string{{"2x4"}, {"plate", "lf", "linear"}}, sku: "2x4_plate_lf"},
	{groups: [][]string{{"2x10"}, {"12", "joist"}}, sku: "2x1012_joist"},
	{groups: [][]string{{"osb", "sheath"}, {"7/16", "716"}}, sku: "osb_716_4x8"},
	{groups: [][]string{{"hurricane"}}, sku: "hurricane_tie"},
	{groups: [][]string{{"nail"}}, sku: "nails_lb"},
	{groups: [][]string{{"screw"}}, sku: "screws_lb"},
	{groups: [][]string{{"stud"}}, sku: "2x4_stud_92"},
	{groups: [][]string{{"joist"}}, sku: "2x1012_joist"},
}

// ResolverConfig holds configuration for the intent resolver.
type ResolverConfig struct {
	ExtractTimeout     time.Duration
	EnableDebugLogging bool
}

// IntentResolver turns raw contractor text (or externally extracted item
// drafts) into quantified SKU intents. Resolution is lossy on purpose:
// lines that match nothing are dropped, never surfaced as errors.
type IntentResolver struct {
	store          *catalog.Store
	index          *SynonymIndex
	extractor      domain.ItemExtractor // nil when no external extractor is configured
	extractTimeout time.Duration
	debug          bool
}

// NewIntentResolver creates an intent resolver. extractor may be nil.
func NewIntentResolver(store *catalog.Store, index *SynonymIndex, extractor domain.ItemExtractor, cfg ResolverConfig) *IntentResolver {
	timeout := cfg.ExtractTimeout
	if timeout <= 0 {
		timeout = DefaultExtractTimeout
	}
	return &IntentResolver{
		store:          store,
		index:          index,
		extractor:      extractor,
		extractTimeout: timeout,
		debug:          cfg.EnableDebugLogging,
	}
}

// ParseQuantity extracts the first decimal-number token from a line,
// defaulting to 1.0 when absent.
func ParseQuantity(line string) float64 {
	m := quantityRegex.FindStringSubmatch(strings.ToLower(line))
	if m == nil {
		return 1.0
	}
	qty, err := strconv.ParseFloat(m[2], 64)
	if err != nil || qty <= 0 {
		return 1.0
	}
	return qty
}

// MatchSKU resolves a line to a SKU id through the ordered matcher chain:
// keyword rules, exact synonym/name lookup, fuzzy lookup. First hit wins.
func (r *IntentResolver) MatchSKU(line string) (string, bool) {
	l := strings.ToLower(line)

	if sku, ok := matchRules(l); ok {
		return sku, ok
	}
	if sku, ok := r.index.ResolveExact(line); ok {
		return sku, ok
	}
	return r.index.ResolveFuzzy(line)
}

// matchRules runs the compound keyword rules against a lowercased line.
func matchRules(l string) (string, bool) {
	for _, rule := range defaultKeywordRules {
		ok := true
		for _, group := range rule.groups {
			hit := false
			for _, kw := range group {
				if strings.Contains(l, kw) {
					hit = true
					break
				}
			}
			if !hit {
				ok = false
				break
			}
		}
		if ok {
			return rule.sku, true
		}
	}
	return "", false
}

// AggregateLines resolves every non-empty line of text independently and
// merges results per SKU by summing quantities. Output order is the order
// in which each SKU was first seen. Never returns an error.
func (r *IntentResolver) AggregateLines(text string) []domain.LineItem {
	qtyBySKU := make(map[string]float64)
	var order []string

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		line = strings.TrimLeft(line, "-•* \t")
		if line == "" {
			continue
		}

		sku, ok := r.MatchSKU(line)
		if !ok {
			if r.debug {
				log.Printf("[RESOLVE] Dropped unresolved line: %q", line)
			}
			continue
		}

		if _, seen := qtyBySKU[sku]; !seen {
			order = append(order, sku)
		}
		qtyBySKU[sku] += ParseQuantity(line)
	}

	items := make([]domain.LineItem, 0, len(order))
	for _, sku := range order {
		items = append(items, r.lineItem(sku, qtyBySKU[sku]))
	}
	return items
}

// Resolve turns raw input into line items. When an external extractor is
// configured it is tried first; on any failure the attempt is discarded
// entirely and the text is reprocessed through the rule/fuzzy path. The
// caller never observes an extractor failure.
func (r *IntentResolver) Resolve(ctx context.Context, text string, image []byte) []domain.LineItem {
	if r.extractor != nil {
		extractCtx, cancel := context.WithTimeout(ctx, r.extractTimeout)
		drafts, err := r.extractor.Extract(extractCtx, text, image, r.store.IDs())
		cancel()

		if err == nil && len(drafts) > 0 {
			return r.adoptDrafts(drafts)
		}
		if err != nil && r.debug {
			log.Printf("[RESOLVE] Extractor failed, falling back to rules: %v", err)
		}
	}

	return r.AggregateLines(text)
}

// adoptDrafts validates externally proposed items against the catalog.
// Unknown SKU hints are repaired by re-running the matcher chain on the
// item name; still-unresolved items get the baseline SKU. Quantities
// default to 1 when missing or non-positive.
func (r *IntentResolver) adoptDrafts(drafts []domain.ItemDraft) []domain.LineItem {
	qtyBySKU := make(map[string]float64)
	var order []string

	for _, d := range drafts {
		sku := d.SKUHint
		if _, ok := r.store.Get(sku); !ok {
			if repaired, ok := r.MatchSKU(d.Name); ok {
				sku = repaired
			} else {
				sku = BaselineSKU
			}
		}

		qty := d.Qty
		if qty <= 0 {
			qty = 1.0
		}

		if _, seen := qtyBySKU[sku]; !seen {
			order = append(order, sku)
		}
		qtyBySKU[sku] += qty
	}

	items := make([]domain.LineItem, 0, len(order))
	for _, sku := range order {
		items = append(items, r.lineItem(sku, qtyBySKU[sku]))
	}
	return items
}

// lineItem builds a LineItem carrying the catalog's canonical name/unit.
func (r *IntentResolver) lineItem(sku string, qty float64) domain.LineItem {
	item := domain.LineItem{Name: sku, Qty: qty, SKUHint: sku}
	if cat, ok := r.store.Get(sku); ok {
		item.Name = cat.Name
		item.Unit = cat.Unit
	}
	return item
}
