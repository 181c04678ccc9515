package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"golang.org/x/time/rate"

	"github.com/contractoros/backend/config"
	httpDelivery "github.com/contractoros/backend/internal/delivery/http"
	"github.com/contractoros/backend/internal/domain"
	"github.com/contractoros/backend/internal/infrastructure/cache"
	"github.com/contractoros/backend/internal/infrastructure/catalog"
	"github.com/contractoros/backend/internal/infrastructure/extractor"
	"github.com/contractoros/backend/internal/infrastructure/pricefile"
	"github.com/contractoros/backend/internal/infrastructure/scrape"
	"github.com/contractoros/backend/internal/usecase"
)

func main() {
	// .env is optional; real deployments set env vars directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting ContractorOS Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)

	store, err := buildCatalog(cfg)
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}
	log.Printf("Catalog loaded: %d SKUs", store.Len())

	index, err := usecase.NewSynonymIndex(store, cfg.Synonyms, usecase.IndexConfig{
		SynonymThreshold: cfg.Matching.SynonymThreshold,
		CatalogThreshold: cfg.Matching.CatalogThreshold,
	})
	if err != nil {
		log.Fatalf("Failed to build synonym index: %v", err)
	}

	var itemExtractor domain.ItemExtractor
	if cfg.Extractor.Enabled {
		gemini, err := extractor.NewGeminiExtractor(context.Background(), cfg.Extractor.APIKey, cfg.Extractor.Model)
		if err != nil {
			log.Fatalf("Failed to create extractor: %v", err)
		}
		defer gemini.Close()
		itemExtractor = gemini
		log.Printf("Extractor enabled: %s", cfg.Extractor.Model)
	} else {
		log.Printf("Extractor disabled, using rule-based resolution only")
	}

	providers, err := buildProviders(cfg, store)
	if err != nil {
		log.Fatalf("Failed to build providers: %v", err)
	}
	for _, p := range providers {
		log.Printf("Price provider registered: %s", p.Name())
	}

	resolver := usecase.NewIntentResolver(store, index, itemExtractor, usecase.ResolverConfig{
		ExtractTimeout:     cfg.Extractor.Timeout,
		EnableDebugLogging: cfg.Matching.EnableDebugLogging,
	})

	offerCache := cache.NewMemoryCache()
	pricing := usecase.NewPricingService(store, providers, offerCache, usecase.PricingConfig{
		ProviderTimeout:    cfg.Pricing.ProviderTimeout,
		OfferCacheTTL:      cfg.Pricing.CacheTTL,
		EnableDebugLogging: cfg.Matching.EnableDebugLogging,
	})
	quotes := usecase.NewQuoteService(store)

	handler := httpDelivery.NewHandler(resolver, pricing, quotes, cfg.Pricing.OfferLimit)
	router := httpDelivery.SetupRouter(cfg, handler)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// buildCatalog loads the catalog file when configured, else the seed.
func buildCatalog(cfg *config.Config) (*catalog.Store, error) {
	if cfg.Catalog.Path != "" {
		return catalog.LoadFile(cfg.Catalog.Path)
	}
	return catalog.NewStore(catalog.Seed())
}

// buildProviders constructs the live provider set from the descriptor
// list. The catalog store always backs the fallback path, so a catalog
// descriptor only adds the catalog as a live source too.
func buildProviders(cfg *config.Config, store *catalog.Store) ([]domain.PriceProvider, error) {
	scrapeLimiter := rate.NewLimiter(rate.Limit(cfg.RateLimit.ScrapeRPS), 5)

	var providers []domain.PriceProvider
	for _, pc := range cfg.Providers {
		switch pc.Type {
		case config.ProviderTypeCatalog:
			providers = append(providers, catalog.NewProvider(store))

		case config.ProviderTypeRemote:
			p, err := scrape.NewProvider(scrape.Config{
				Name:          pc.Name,
				URLTemplate:   pc.URLTemplate,
				TitleSelector: pc.TitleSelector,
				PriceSelector: pc.PriceSelector,
			}, scrapeLimiter, cfg.Pricing.ProviderTimeout)
			if err != nil {
				return nil, err
			}
			p.SetDebug(cfg.Server.Environment == "development")
			providers = append(providers, p)

		case config.ProviderTypeLocalFile:
			p, err := pricefile.NewProvider(pricefile.Config{
				Name:      pc.Name,
				Path:      pc.Path,
				ZipFilter: pc.ZipFilter,
				Threshold: cfg.Matching.FileThreshold,
			}, usecase.Similarity)
			if err != nil {
				return nil, err
			}
			providers = append(providers, p)

		default:
			return nil, fmt.Errorf("unknown provider type %q", pc.Type)
		}
	}
	return providers, nil
}

func init() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
