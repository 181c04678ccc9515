package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Provider types accepted in the providers list.
const (
	ProviderTypeCatalog   = "catalog"
	ProviderTypeRemote    = "remote-scrape"
	ProviderTypeLocalFile = "local-file"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Catalog   CatalogConfig
	Synonyms  map[string][]string `mapstructure:"synonyms"`
	Matching  MatchingConfig
	Pricing   PricingConfig
	Extractor ExtractorConfig
	Providers []ProviderConfig `mapstructure:"providers"`
	RateLimit RateLimitConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// CatalogConfig holds the SKU catalog source configuration. An empty
// path selects the built-in seed catalog.
type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

// MatchingConfig holds the fuzzy-matching confidence tiers
type MatchingConfig struct {
	SynonymThreshold   float64 `mapstructure:"synonym_threshold"`
	CatalogThreshold   float64 `mapstructure:"catalog_threshold"`
	FileThreshold      float64 `mapstructure:"file_threshold"`
	EnableDebugLogging bool    `mapstructure:"enable_debug_logging"`
}

// PricingConfig holds price aggregation configuration
type PricingConfig struct {
	ProviderTimeout time.Duration `mapstructure:"provider_timeout"`
	OfferLimit      int           `mapstructure:"offer_limit"`
	CacheTTL        time.Duration `mapstructure:"cache_ttl"`
}

// ExtractorConfig holds external extractor (Gemini) configuration
type ExtractorConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	APIKey  string        `mapstructure:"api_key"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// ProviderConfig is a duck-typed price source descriptor discriminated
// by Type. Remote-scrape sources use URLTemplate and the selectors;
// local-file sources use Path and ZipFilter.
type ProviderConfig struct {
	Type          string `mapstructure:"type"`
	Name          string `mapstructure:"name"`
	URLTemplate   string `mapstructure:"url_template"`
	TitleSelector string `mapstructure:"title_selector"`
	PriceSelector string `mapstructure:"price_selector"`
	Path          string `mapstructure:"path"`
	ZipFilter     string `mapstructure:"zip_filter"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP     int     `mapstructure:"per_ip"`
	ScrapeRPS float64 `mapstructure:"scrape_rps"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/contractoros/")

	v.SetEnvPrefix("CONTRACTOROS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional; env vars and defaults are enough to run
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "10000")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	// Keys without a meaningful default still need one registered, or
	// Unmarshal never sees their env overrides
	v.SetDefault("catalog.path", "")

	v.SetDefault("matching.synonym_threshold", 80.0)
	v.SetDefault("matching.catalog_threshold", 85.0)
	v.SetDefault("matching.file_threshold", 70.0)
	v.SetDefault("matching.enable_debug_logging", false)

	v.SetDefault("pricing.provider_timeout", "15s")
	v.SetDefault("pricing.offer_limit", 0)
	v.SetDefault("pricing.cache_ttl", "15m")

	v.SetDefault("extractor.enabled", false)
	v.SetDefault("extractor.api_key", "")
	v.SetDefault("extractor.model", "gemini-2.5-flash")
	v.SetDefault("extractor.timeout", "20s")

	v.SetDefault("ratelimit.per_ip", 100)
	v.SetDefault("ratelimit.scrape_rps", 1.0)

	v.SetDefault("synonyms", DefaultSynonyms())
}

// DefaultSynonyms returns the built-in synonym table for the seed
// catalog. Every phrase maps to exactly one SKU.
func DefaultSynonyms() map[string][]string {
	return map[string][]string{
		"2x4_stud_92":   {"stud", "wall stud", "precut stud", "2x4 stud"},
		"2x4_plate_lf":  {"plate", "bottom plate", "top plate", "sill plate"},
		"2x1012_joist":  {"joist", "floor joist", "2x10 joist"},
		"osb_716_4x8":   {"osb", "sheathing", "roof sheathing", "wall sheathing"},
		"hurricane_tie": {"hurricane clip", "framing tie", "h2.5 tie"},
		"nails_lb":      {"framing nails", "common nails", "16d nails"},
		"screws_lb":     {"deck screws", "wood screws", "exterior screws"},
	}
}

// validate validates the configuration
func validate(config *Config) error {
	for _, t := range []struct {
		name  string
		value float64
	}{
		{"matching.synonym_threshold", config.Matching.SynonymThreshold},
		{"matching.catalog_threshold", config.Matching.CatalogThreshold},
		{"matching.file_threshold", config.Matching.FileThreshold},
	} {
		if t.value <= 0 || t.value > 100 {
			return fmt.Errorf("%s must be in (0, 100], got %v", t.name, t.value)
		}
	}

	if config.Extractor.Enabled && config.Extractor.APIKey == "" {
		return fmt.Errorf("extractor API key is required when extractor is enabled (set CONTRACTOROS_EXTRACTOR_API_KEY)")
	}

	for i, p := range config.Providers {
		switch p.Type {
		case ProviderTypeCatalog:
			// No extra fields; the catalog store backs it
		case ProviderTypeRemote:
			if p.Name == "" {
				return fmt.Errorf("providers[%d]: remote-scrape provider requires a name", i)
			}
			if p.URLTemplate == "" {
				return fmt.Errorf("providers[%d] (%s): remote-scrape provider requires url_template", i, p.Name)
			}
		case ProviderTypeLocalFile:
			if p.Name == "" {
				return fmt.Errorf("providers[%d]: local-file provider requires a name", i)
			}
			if p.Path == "" {
				return fmt.Errorf("providers[%d] (%s): local-file provider requires path", i, p.Name)
			}
		default:
			return fmt.Errorf("providers[%d]: unknown provider type %q", i, p.Type)
		}
	}

	return nil
}
