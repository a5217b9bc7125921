package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/thegreendrop/rainharvest/internal/recharge"
	"github.com/thegreendrop/rainharvest/internal/weather"
)

// AppConfig carries every tunable of the service. It is loaded once at
// startup and treated as immutable afterwards.
type AppConfig struct {
	Port string

	// HTTPTimeout is the outbound client ceiling; individual adapters apply
	// their own fixed 10s request timeout below it.
	HTTPTimeout time.Duration

	// BudgetWindow bounds one whole aggregation pass.
	BudgetWindow time.Duration

	// CacheTTL is how long a computed cache entry stays live.
	CacheTTL time.Duration

	// BucketDegrees is the coordinate rounding step for cache keys.
	BucketDegrees float64

	Retry weather.RetryPolicy

	// RefreshInterval controls the cache-warming scheduler.
	RefreshInterval time.Duration

	// Soil is the soil profile for the recharge calculator; nil selects the
	// documented default loam.
	Soil *recharge.SoilProfile

	// Defaults is the fallback climate baseline injected into the aggregator.
	Defaults weather.Defaults
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{
		Port:          getenvDefault("PORT", "8080"),
		BucketDegrees: getenvFloat("CACHE_BUCKET_DEGREES", 0.25),
		Retry: weather.RetryPolicy{
			MaxAttempts:    getenvInt("PROVIDER_RETRY_MAX_ATTEMPTS", 2),
			InitialBackoff: 200 * time.Millisecond,
			MaxBackoff:     2 * time.Second,
		},
		Defaults: weather.DefaultClimate(),
	}

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}
	if cfg.BudgetWindow, err = getenvDuration("AGGREGATION_BUDGET", 12*time.Second); err != nil {
		return nil, err
	}
	if cfg.CacheTTL, err = getenvDuration("CACHE_TTL", 3*time.Hour); err != nil {
		return nil, err
	}
	if cfg.RefreshInterval, err = getenvDuration("REFRESH_INTERVAL", 15*time.Minute); err != nil {
		return nil, err
	}
	if cfg.Retry.InitialBackoff, err = getenvDuration("PROVIDER_RETRY_BACKOFF", 200*time.Millisecond); err != nil {
		return nil, err
	}

	cfg.Soil = loadSoil()

	return cfg, nil
}

// loadSoil reads an optional soil composition override; all three
// percentages must be set for it to apply.
func loadSoil() *recharge.SoilProfile {
	clay := os.Getenv("SOIL_CLAY_PCT")
	sand := os.Getenv("SOIL_SAND_PCT")
	silt := os.Getenv("SOIL_SILT_PCT")
	if clay == "" || sand == "" || silt == "" {
		return nil
	}
	c, errC := strconv.ParseFloat(clay, 64)
	sa, errSa := strconv.ParseFloat(sand, 64)
	si, errSi := strconv.ParseFloat(silt, 64)
	if errC != nil || errSa != nil || errSi != nil {
		log.Printf("INFO: ignoring malformed SOIL_*_PCT overrides")
		return nil
	}
	return &recharge.SoilProfile{ClayPct: c, SandPct: sa, SiltPct: si}
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return def
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
