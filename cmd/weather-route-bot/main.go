package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/i474232898/weather-route-bot/internal/api/http"
	"github.com/i474232898/weather-route-bot/internal/config"
	"github.com/i474232898/weather-route-bot/internal/conversation"
	"github.com/i474232898/weather-route-bot/internal/scheduler"
	"github.com/i474232898/weather-route-bot/internal/store"
	"github.com/i474232898/weather-route-bot/internal/weather"
	"github.com/i474232898/weather-route-bot/internal/weather/providers"
	logx "github.com/i474232898/weather-route-bot/pkg/logger"
)

// sessionStore is a conversation store that can also drop abandoned entries.
type sessionStore interface {
	conversation.Store
	scheduler.Evicter
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to load config")
	}
	logx.Init(logx.LoggerOpts{Environment: cfg.Env()})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Forecast provider with fail-fast breaker, rate limiting and a coordinate cache.
	provider, err := providers.New(cfg.Provider, providers.DefaultHTTPClientConfig(httpClient), providers.Keys{
		AccuWeather: cfg.AccuWeatherAPIKey,
		OpenWeather: cfg.OpenWeatherAPIKey,
		WeatherAPI:  cfg.WeatherAPIKey,
	})
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to build weather provider")
	}
	if cfg.RateLimitRPS > 0 {
		provider = providers.NewRateLimitedProvider(provider, cfg.RateLimitRPS, cfg.RateBurst)
	}

	var resolver weather.GeoResolver = provider
	if cfg.GoogleGeocoderAPIKey != "" {
		resolver = providers.NewGoogleGeoResolver(cfg.GoogleGeocoderAPIKey)
	}
	resolver = providers.NewCachedGeoResolver(resolver, cfg.GeoCacheTTL)

	aggregator := weather.NewRouteAggregator(resolver, provider)
	machine := conversation.NewMachine(resolver, aggregator)

	sessions, closeStore := newStore(ctx, cfg)
	defer closeStore()

	manager := conversation.NewManager(machine, sessions)

	// Scheduler that periodically drops abandoned conversations.
	sched := scheduler.New(sessions, cfg.EvictionInterval)
	if err := sched.Start(); err != nil {
		logx.Fatal().Err(err).Msg("failed to start scheduler")
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "weather-route-bot",
		DisableStartupMessage: true,
		// Route aggregation calls the provider twice per city.
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 2 * time.Minute,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":   "ok",
			"service":  "weather-route-bot",
			"provider": provider.Name(),
			"store":    cfg.StoreBackend,
		})
	})

	httpapi.RegisterRoutes(app, manager)

	go func() {
		logx.Info().Str("port", cfg.Port).Str("provider", provider.Name()).Str("store", cfg.StoreBackend).Msg("starting http server")
		if err := app.Listen(":" + cfg.Port); err != nil {
			logx.Error().Err(err).Msg("fiber server stopped")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logx.Error().Err(err).Msg("error during shutdown")
	}
}

func newStore(ctx context.Context, cfg *config.AppConfig) (sessionStore, func()) {
	if cfg.StoreBackend != config.StoreRedis {
		return store.NewMemoryStore(cfg.SessionTTL), func() {}
	}

	rdb, err := cfg.Redis.New(ctx)
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to connect to redis")
	}
	return store.NewRedisStore(rdb, cfg.SessionTTL), func() {
		if err := rdb.Close(); err != nil {
			logx.Error().Err(err).Msg("failed to close redis client")
		}
	}
}
