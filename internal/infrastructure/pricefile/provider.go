// Package pricefile implements the local-file price provider: a CSV price
// list loaded once at startup, fuzzy-matched against incoming queries.
package pricefile

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/contractoros/backend/internal/domain"
)

// DefaultMatchThreshold is the minimum similarity score for a row to be
// treated as a hit.
const DefaultMatchThreshold = 70.0

// Scorer computes a 0-100 similarity between two phrases.
type Scorer func(a, b string) float64

// row is one price-list entry.
type row struct {
	Title     string
	Store     string
	ZipPrefix string
	Price     float64
}

// Config describes one local price-list source.
type Config struct {
	Name      string
	Path      string
	ZipFilter string // keep only rows whose zip prefix equals this, or all when empty
	Threshold float64
}

// Provider serves offers from a local CSV price list with columns
// title,store,zip_prefix,price (header optional).
type Provider struct {
	cfg    Config
	rows   []row
	scorer Scorer
}

// NewProvider loads the price list. A missing or malformed file is a
// startup configuration error, never a request-time one.
func NewProvider(cfg Config, scorer Scorer) (*Provider, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("local-file provider requires a name")
	}
	if cfg.Path == "" {
		return nil, fmt.Errorf("local-file provider %q requires a path", cfg.Name)
	}
	if cfg.Threshold <= 0 {
		cfg.Threshold = DefaultMatchThreshold
	}
	if scorer == nil {
		return nil, fmt.Errorf("local-file provider %q requires a similarity scorer", cfg.Name)
	}

	f, err := os.Open(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open price list %s: %w", cfg.Path, err)
	}
	defer f.Close()

	rows, err := parseRows(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse price list %s: %w", cfg.Path, err)
	}

	// Apply the configured zip filter once at load time
	if cfg.ZipFilter != "" {
		filtered := rows[:0]
		for _, r := range rows {
			if r.ZipPrefix == cfg.ZipFilter || r.ZipPrefix == "*" {
				filtered = append(filtered, r)
			}
		}
		rows = filtered
	}

	return &Provider{cfg: cfg, rows: rows, scorer: scorer}, nil
}

// parseRows reads CSV records into price rows, skipping a header line
// when present.
func parseRows(r io.Reader) ([]row, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	var rows []row
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++

		if len(record) < 4 {
			return nil, fmt.Errorf("line %d: want 4 columns (title,store,zip_prefix,price), got %d", line, len(record))
		}

		// Header line
		if line == 1 && strings.EqualFold(strings.TrimSpace(record[0]), "title") {
			continue
		}

		price, err := strconv.ParseFloat(strings.TrimSpace(record[3]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad price %q: %w", line, record[3], err)
		}
		if price <= 0 {
			return nil, fmt.Errorf("line %d: non-positive price %v", line, price)
		}

		rows = append(rows, row{
			Title:     strings.TrimSpace(record[0]),
			Store:     strings.TrimSpace(record[1]),
			ZipPrefix: strings.TrimSpace(record[2]),
			Price:     price,
		})
	}
	return rows, nil
}

// Name returns the provider's registration name.
func (p *Provider) Name() string {
	return p.cfg.Name
}

// FetchOffer fuzzy-matches the query's material name against row titles
// and returns the best match at or above the threshold, or (nil, nil).
func (p *Provider) FetchOffer(_ context.Context, q domain.OfferQuery) (*domain.Offer, error) {
	var best *row
	bestScore := -1.0

	for i := range p.rows {
		r := &p.rows[i]
		if !domain.MatchesZip(r.ZipPrefix, q.Zip) {
			continue
		}
		score := p.scorer(q.Name, r.Title)
		if score < p.cfg.Threshold {
			continue
		}
		if score > bestScore {
			bestScore = score
			best = r
		}
	}

	if best == nil {
		return nil, nil
	}

	store := best.Store
	if store == "" {
		store = p.cfg.Name
	}

	return &domain.Offer{
		Store:     store,
		Price:     best.Price,
		ZipPrefix: best.ZipPrefix,
		Title:     best.Title,
	}, nil
}
