package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Env vars that override credential fields in the YAML file. Keys are
// secrets and should not live in checked-in config.
const (
	FOURSQUARE_API_KEY_ENV = "FOURSQUARE_API_KEY"
	GOOGLE_PLACES_KEY_ENV  = "GOOGLE_PLACES_API_KEY"
	EVENTS_API_KEY_ENV     = "EVENTS_API_KEY"
)

// Location source identifiers. Exactly one is active per deployment.
const (
	SOURCE_FOURSQUARE = "foursquare"
	SOURCE_GOOGLE     = "google"
)

// Duration is a time.Duration that unmarshals from YAML strings like "30m".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}
	var n int64
	if err := value.Decode(&n); err != nil {
		return fmt.Errorf("invalid duration value: %s", value.Value)
	}
	*d = Duration(n)
	return nil
}

// Std converts back to the standard library type.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

type Config struct {
	Environment string          `yaml:"environment"`
	Server      ServerConfig    `yaml:"server"`
	Redis       RedisConfig     `yaml:"redis"`
	Storage     StorageConfig   `yaml:"storage"`
	Providers   ProvidersConfig `yaml:"providers"`
	RateLimits  RateLimitConfig `yaml:"rate_limits"`
	Retry       RetryConfig     `yaml:"retry"`
	CacheTTL    CacheTTLConfig  `yaml:"cache_ttl"`
	Analysis    AnalysisConfig  `yaml:"analysis"`
}

type ServerConfig struct {
	Port            int           `yaml:"port"`
	ShutdownTimeout Duration      `yaml:"shutdown_timeout"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type StorageConfig struct {
	SQLitePath string `yaml:"sqlite_path"`
}

type ProvidersConfig struct {
	LocationSource string         `yaml:"location_source"`
	Foursquare     ProviderConfig `yaml:"foursquare"`
	Google         ProviderConfig `yaml:"google"`
	Events         ProviderConfig `yaml:"events"`
}

type ProviderConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
}

// RateLimitConfig holds the sliding-window admission settings per provider.
type RateLimitConfig struct {
	Foursquare WindowConfig `yaml:"foursquare"`
	Google     WindowConfig `yaml:"google"`
	Events     WindowConfig `yaml:"events"`
}

type WindowConfig struct {
	Capacity int           `yaml:"capacity"`
	Window   Duration `yaml:"window"`
}

type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	BaseDelay   Duration `yaml:"base_delay"`
	CapDelay    Duration `yaml:"cap_delay"`
}

// CacheTTLConfig carries per-category TTLs. These are tunable, not constants.
type CacheTTLConfig struct {
	VenueDetails       Duration `yaml:"venue_details"`
	SearchResults      Duration `yaml:"search_results"`
	CompetitorAnalysis Duration `yaml:"competitor_analysis"`
	Traffic            Duration `yaml:"traffic"`
	Events             Duration `yaml:"events"`
	Report             Duration `yaml:"report"`
}

// AnalysisConfig carries the competitive-scoring calibration knobs. Markets
// differ, so thresholds are configuration rather than literals.
type AnalysisConfig struct {
	RadiusKm float64 `yaml:"radius_km"`

	DensityScoreCap    float64 `yaml:"density_score_cap"`
	RatingHighMin      float64 `yaml:"rating_high_min"`
	RatingMidMin       float64 `yaml:"rating_mid_min"`
	PriceLowMax        float64 `yaml:"price_low_max"`
	PriceMidMax        float64 `yaml:"price_mid_max"`
	PopularityHighMin  float64 `yaml:"popularity_high_min"`
	PopularityMidMin   float64 `yaml:"popularity_mid_min"`
	DensityHighMax     float64 `yaml:"density_high_max"`
	DensityMediumMax   float64 `yaml:"density_medium_max"`
}

// Default returns the configuration used when no YAML file is present.
func Default() *Config {
	return &Config{
		Environment: "dev",
		Server: ServerConfig{
			Port:            8080,
			ShutdownTimeout: Duration(5 * time.Second),
		},
		Redis: RedisConfig{
			Address:  "redis:6379",
			Password: "",
			DB:       0,
		},
		Storage: StorageConfig{
			SQLitePath: "li-server.db",
		},
		Providers: ProvidersConfig{
			LocationSource: SOURCE_FOURSQUARE,
			Foursquare: ProviderConfig{
				BaseURL: "https://api.foursquare.com/v3",
			},
			Google: ProviderConfig{
				BaseURL: "https://maps.googleapis.com/maps/api/place",
			},
			Events: ProviderConfig{
				BaseURL: "https://api.localevents.example/v1",
			},
		},
		RateLimits: RateLimitConfig{
			Foursquare: WindowConfig{Capacity: 50, Window: Duration(time.Minute)},
			Google:     WindowConfig{Capacity: 100, Window: Duration(time.Minute)},
			Events:     WindowConfig{Capacity: 30, Window: Duration(time.Minute)},
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			BaseDelay:   Duration(500 * time.Millisecond),
			CapDelay:    Duration(10 * time.Second),
		},
		CacheTTL: CacheTTLConfig{
			VenueDetails:       Duration(time.Hour),
			SearchResults:      Duration(30 * time.Minute),
			CompetitorAnalysis: Duration(24 * time.Hour),
			Traffic:            Duration(15 * time.Minute),
			Events:             Duration(2 * time.Hour),
			Report:             Duration(6 * time.Hour),
		},
		Analysis: AnalysisConfig{
			RadiusKm:          2.0,
			DensityScoreCap:   40,
			RatingHighMin:     4.0,
			RatingMidMin:      3.5,
			PriceLowMax:       2,
			PriceMidMax:       3,
			PopularityHighMin: 80,
			PopularityMidMin:  60,
			DensityHighMax:    2,
			DensityMediumMax:  5,
		},
	}
}

// Load reads the YAML config at path on top of the defaults, then applies
// credential overrides from the environment. A missing file is not an error;
// a malformed one is.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	if key := os.Getenv(FOURSQUARE_API_KEY_ENV); key != "" {
		cfg.Providers.Foursquare.APIKey = key
	}
	if key := os.Getenv(GOOGLE_PLACES_KEY_ENV); key != "" {
		cfg.Providers.Google.APIKey = key
	}
	if key := os.Getenv(EVENTS_API_KEY_ENV); key != "" {
		cfg.Providers.Events.APIKey = key
	}

	return cfg, nil
}

// Validate fails fast at startup. A missing credential for the active
// location source is a configuration error, not a per-request failure.
// Mock-backed environments skip the credential check.
func (c *Config) Validate() error {
	switch c.Providers.LocationSource {
	case SOURCE_FOURSQUARE, SOURCE_GOOGLE:
	default:
		return fmt.Errorf("unknown location source %q", c.Providers.LocationSource)
	}

	if c.Environment == "prod" {
		if c.Providers.LocationSource == SOURCE_FOURSQUARE && c.Providers.Foursquare.APIKey == "" {
			return fmt.Errorf("missing %s for active source %s", FOURSQUARE_API_KEY_ENV, SOURCE_FOURSQUARE)
		}
		if c.Providers.LocationSource == SOURCE_GOOGLE && c.Providers.Google.APIKey == "" {
			return fmt.Errorf("missing %s for active source %s", GOOGLE_PLACES_KEY_ENV, SOURCE_GOOGLE)
		}
	}

	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry max_attempts must be >= 1, got %d", c.Retry.MaxAttempts)
	}
	for name, w := range map[string]WindowConfig{
		"foursquare": c.RateLimits.Foursquare,
		"google":     c.RateLimits.Google,
		"events":     c.RateLimits.Events,
	} {
		if w.Capacity <= 0 || w.Window <= 0 {
			return fmt.Errorf("rate limit for %s must have positive capacity and window", name)
		}
	}
	if c.Analysis.RadiusKm <= 0 {
		return fmt.Errorf("analysis radius_km must be positive, got %f", c.Analysis.RadiusKm)
	}

	return nil
}
