package providers

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/i474232898/weather-route-bot/internal/weather"
)

// RateLimitedProvider wraps a weather.Provider so outbound calls stay within the
// provider's quota. Waiting is bounded by the caller's context.
type RateLimitedProvider struct {
	provider weather.Provider
	limiter  *rate.Limiter
	name     string
}

// NewRateLimitedProvider allows rps requests per second (fractional values are
// fine) with the given burst.
func NewRateLimitedProvider(provider weather.Provider, rps float64, burst int) *RateLimitedProvider {
	return &RateLimitedProvider{
		provider: provider,
		limiter:  rate.NewLimiter(rate.Limit(rps), burst),
		name:     fmt.Sprintf("%s [Rate Limited]", provider.Name()),
	}
}

func (r *RateLimitedProvider) Name() string {
	return r.name
}

func (r *RateLimitedProvider) Resolve(ctx context.Context, city string) (weather.Location, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return weather.Location{}, &weather.TransientError{Provider: r.provider.Name(), Err: fmt.Errorf("rate limit wait canceled: %w", err)}
	}
	return r.provider.Resolve(ctx, city)
}

func (r *RateLimitedProvider) Forecast(ctx context.Context, loc weather.Location, days int) ([]weather.ForecastPeriod, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, &weather.TransientError{Provider: r.provider.Name(), Err: fmt.Errorf("rate limit wait canceled: %w", err)}
	}
	return r.provider.Forecast(ctx, loc, days)
}

var _ weather.Provider = (*RateLimitedProvider)(nil)
