// Package scrape implements the remote-scrape price provider: it renders
// a storefront search URL for a query, fetches the page, and pulls a
// title and price out of the HTML using configured selectors with a
// currency-token fallback.
package scrape

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"github.com/contractoros/backend/internal/domain"
)

// userAgent identifies scrape traffic to remote storefronts.
const userAgent = "Mozilla/5.0 (compatible; ContractorOS/1.0)"

// currencyRegex finds the first currency-like token in page text when no
// price selector matches.
var currencyRegex = regexp.MustCompile(`\$\s*(\d{1,6}(?:,\d{3})*(?:\.\d{1,2})?)`)

// Config describes one remote storefront source.
type Config struct {
	Name          string
	URLTemplate   string // %s or {query} is replaced with the escaped query
	TitleSelector string
	PriceSelector string
}

// Provider fetches one offer per query from a remote storefront.
type Provider struct {
	cfg        Config
	httpClient *http.Client
	limiter    *rate.Limiter
	debug      bool
}

// NewProvider creates a remote-scrape provider. The shared limiter keeps
// scrape traffic to the storefront polite; pass nil to disable limiting.
func NewProvider(cfg Config, limiter *rate.Limiter, timeout time.Duration) (*Provider, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("remote-scrape provider requires a name")
	}
	if cfg.URLTemplate == "" {
		return nil, fmt.Errorf("remote-scrape provider %q requires a url template", cfg.Name)
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Provider{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    limiter,
	}, nil
}

// SetDebug enables request/parse logging.
func (p *Provider) SetDebug(debug bool) {
	p.debug = debug
}

// Name returns the provider's registration name.
func (p *Provider) Name() string {
	return p.cfg.Name
}

// FetchOffer searches the storefront for the query's material name and
// extracts a (title, price) pair. Any network or parse failure returns an
// error; the aggregator treats it as no offer.
func (p *Provider) FetchOffer(ctx context.Context, q domain.OfferQuery) (*domain.Offer, error) {
	reqURL := p.searchURL(q.Name)

	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}
	}

	html, err := p.fetch(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	title, price, err := p.extract(html)
	if err != nil {
		return nil, err
	}

	if p.debug {
		log.Printf("[SCRAPE] %s: %q -> %q @ %.2f", p.cfg.Name, q.Name, title, price)
	}

	return &domain.Offer{
		Store: p.cfg.Name,
		Price: price,
		URL:   reqURL,
		Title: title,
	}, nil
}

// searchURL renders the configured URL template for a query.
func (p *Provider) searchURL(query string) string {
	escaped := url.QueryEscape(query)
	if strings.Contains(p.cfg.URLTemplate, "{query}") {
		return strings.ReplaceAll(p.cfg.URLTemplate, "{query}", escaped)
	}
	if strings.Contains(p.cfg.URLTemplate, "%s") {
		return fmt.Sprintf(p.cfg.URLTemplate, escaped)
	}
	return p.cfg.URLTemplate + escaped
}

// fetch GETs a URL and returns the response body.
func (p *Provider) fetch(ctx context.Context, reqURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrProviderFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", domain.ErrProviderFailure, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	return string(body), nil
}

// extract pulls a title and price from storefront HTML. Configured
// structural selectors are tried first; absent a match, the first
// currency-like token anywhere in the page text is used.
func (p *Provider) extract(html string) (string, float64, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", 0, fmt.Errorf("failed to parse HTML: %w", err)
	}

	title := ""
	if p.cfg.TitleSelector != "" {
		title = strings.TrimSpace(doc.Find(p.cfg.TitleSelector).First().Text())
	}

	if p.cfg.PriceSelector != "" {
		text := strings.TrimSpace(doc.Find(p.cfg.PriceSelector).First().Text())
		if price, ok := parsePrice(text); ok {
			return title, price, nil
		}
	}

	// Generic fallback: first currency-like token in the page text
	if price, ok := parsePrice(doc.Text()); ok {
		return title, price, nil
	}

	return "", 0, fmt.Errorf("%w: no price found in page", domain.ErrProviderFailure)
}

// parsePrice extracts the first positive currency amount from text.
func parsePrice(text string) (float64, bool) {
	m := currencyRegex.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	price, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil || price <= 0 {
		return 0, false
	}
	return price, true
}
