package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/i474232898/weather-route-bot/internal/core"
	logx "github.com/i474232898/weather-route-bot/pkg/logger"
	pkgredis "github.com/i474232898/weather-route-bot/pkg/redis"
)

const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

type AppConfig struct {
	Environment string `envconfig:"APP_ENV" default:"development"`

	// Forecast provider: accuweather, openmeteo, openweathermap or weatherapi.
	Provider          string `envconfig:"WEATHER_PROVIDER" default:"accuweather"`
	AccuWeatherAPIKey string `envconfig:"ACCUWEATHER_API_KEY"`
	OpenWeatherAPIKey string `envconfig:"OPENWEATHER_API_KEY"`
	WeatherAPIKey     string `envconfig:"WEATHERAPI_API_KEY"`

	// When set, city names are resolved through Google geocoding instead of
	// the forecast provider.
	GoogleGeocoderAPIKey string `envconfig:"GOOGLE_GEOCODER_API_KEY"`

	HTTPTimeout  time.Duration `envconfig:"HTTP_TIMEOUT" default:"10s"`
	RateLimitRPS float64       `envconfig:"PROVIDER_RATE_LIMIT_RPS" default:"5"`
	RateBurst    int           `envconfig:"PROVIDER_RATE_LIMIT_BURST" default:"10"`
	GeoCacheTTL  time.Duration `envconfig:"GEO_CACHE_TTL" default:"24h"`

	// Conversation storage.
	StoreBackend     string        `envconfig:"STORE_BACKEND" default:"memory"`
	SessionTTL       time.Duration `envconfig:"SESSION_TTL" default:"30m"`
	EvictionInterval time.Duration `envconfig:"EVICTION_INTERVAL" default:"5m"`
	Redis            pkgredis.Config

	Port string `envconfig:"PORT" default:"8080"`
}

// Env returns the parsed deployment environment.
func (c *AppConfig) Env() core.Environment {
	return core.ParseEnvironment(c.Environment)
}

// Load reads .env (if present) and the process environment.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		logx.Info().Err(err).Msg("no .env file loaded")
	}

	cfg := &AppConfig{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *AppConfig) validate() error {
	switch c.StoreBackend {
	case StoreMemory, StoreRedis:
	default:
		return fmt.Errorf("invalid STORE_BACKEND %q: want %s or %s", c.StoreBackend, StoreMemory, StoreRedis)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("invalid HTTP_TIMEOUT: %s", c.HTTPTimeout)
	}
	if c.RateLimitRPS < 0 || c.RateBurst < 0 {
		return fmt.Errorf("rate limit must not be negative")
	}
	if c.RateLimitRPS > 0 && c.RateBurst < 1 {
		return fmt.Errorf("invalid PROVIDER_RATE_LIMIT_BURST %d: must be at least 1 when PROVIDER_RATE_LIMIT_RPS is set", c.RateBurst)
	}
	if c.EvictionInterval <= 0 {
		return fmt.Errorf("invalid EVICTION_INTERVAL: %s", c.EvictionInterval)
	}
	return nil
}
