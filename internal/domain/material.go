package domain

import "strings"

// VendorOffer is a single vendor price row attached to a catalog SKU.
// ZipPrefix scopes the row to request zips starting with that prefix;
// "*" means the row applies everywhere.
type VendorOffer struct {
	Store     string  `json:"store"`
	ZipPrefix string  `json:"zipPrefix"`
	Price     float64 `json:"price"`
}

// MaterialSKU is a canonical catalog entry. Immutable after startup load.
type MaterialSKU struct {
	ID      string        `json:"id"`
	Name    string        `json:"name"`
	Unit    string        `json:"unit"`
	Vendors []VendorOffer `json:"vendors"`
}

// LineItem is a quantified material intent resolved from contractor input.
// Request-scoped; discarded after the response is written.
type LineItem struct {
	Name    string  `json:"name"`
	Qty     float64 `json:"qty"`
	Unit    string  `json:"unit"`
	SKUHint string  `json:"canonical_hint"`
}

// ItemDraft is a raw extracted item as proposed by the external extractor,
// before SKU hints are validated against the catalog.
type ItemDraft struct {
	Name    string  `json:"name"`
	Qty     float64 `json:"qty"`
	Unit    string  `json:"unit"`
	SKUHint string  `json:"sku_hint"`
}

// Offer is an ephemeral per-request price offer from one source.
type Offer struct {
	Store     string  `json:"store"`
	Price     float64 `json:"price"`
	ZipPrefix string  `json:"zipPrefix,omitempty"`
	URL       string  `json:"url,omitempty"`
	Title     string  `json:"title,omitempty"`
}

// OfferQuery is the input to a single provider fetch.
type OfferQuery struct {
	SKUID string
	Name  string
	Zip   string
}

// ItemOffers pairs a line item with its ranked offers.
type ItemOffers struct {
	Item   LineItem `json:"item"`
	Offers []Offer  `json:"offers"`
}

// MatchesZip reports whether an offer scoped to prefix applies to the
// request zip. A "*" prefix always applies.
func MatchesZip(prefix, zip string) bool {
	if prefix == "" || prefix == "*" {
		return true
	}
	return strings.HasPrefix(zip, prefix)
}
