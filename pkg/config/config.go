package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool
	JWTSecret    string

	// Base currency the rate table is expressed against. Must match the currency
	// flagged as default in the database.
	BaseCurrency string

	// External rate source
	RateSourceURL    string
	RateSourceAPIKey string

	// Rate cache behavior
	RateCacheTTL        time.Duration
	RateRefreshInterval time.Duration
	RateFetchTimeout    time.Duration
	RateHistoryLimit    int

	CurrencyCacheTTL time.Duration

	// ulule/limiter formatted rate, e.g. "120-M"
	RateLimit string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("BASE_CURRENCY", "USD")
	viper.SetDefault("RATE_SOURCE_URL", "")
	viper.SetDefault("RATE_SOURCE_API_KEY", "")
	viper.SetDefault("RATE_CACHE_TTL", "15m")
	viper.SetDefault("RATE_REFRESH_INTERVAL", "30m")
	viper.SetDefault("RATE_FETCH_TIMEOUT", "10s")
	viper.SetDefault("RATE_HISTORY_LIMIT", 100)
	viper.SetDefault("CURRENCY_CACHE_TTL", "5m")
	viper.SetDefault("RATE_LIMIT", "120-M")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	cfg.BaseCurrency = viper.GetString("BASE_CURRENCY")

	cfg.RateSourceURL = viper.GetString("RATE_SOURCE_URL")
	if cfg.RateSourceURL == "" {
		log.Println("Warning: RATE_SOURCE_URL environment variable not set. Rate refreshes will fail until a manual rate is set.")
	}
	cfg.RateSourceAPIKey = viper.GetString("RATE_SOURCE_API_KEY")

	cfg.RateCacheTTL = parseDurationOr("RATE_CACHE_TTL", 15*time.Minute)
	cfg.RateRefreshInterval = parseDurationOr("RATE_REFRESH_INTERVAL", 30*time.Minute)
	cfg.RateFetchTimeout = parseDurationOr("RATE_FETCH_TIMEOUT", 10*time.Second)
	cfg.CurrencyCacheTTL = parseDurationOr("CURRENCY_CACHE_TTL", 5*time.Minute)

	cfg.RateHistoryLimit = viper.GetInt("RATE_HISTORY_LIMIT")
	if cfg.RateHistoryLimit <= 0 {
		cfg.RateHistoryLimit = 100
	}

	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	return cfg, nil
}

func parseDurationOr(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback)
		}
		return fallback
	}
	return d
}
