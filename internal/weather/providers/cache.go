package providers

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/i474232898/weather-route-bot/internal/common"
	"github.com/i474232898/weather-route-bot/internal/weather"
	logx "github.com/i474232898/weather-route-bot/pkg/logger"
)

// CachedGeoResolver memoizes successful resolutions. Every route city is
// resolved once while the user types it and again during aggregation, so the
// second lookup is usually served from memory. Failures are never cached.
type CachedGeoResolver struct {
	resolver weather.GeoResolver
	cache    *cache.Cache
}

func NewCachedGeoResolver(resolver weather.GeoResolver, ttl time.Duration) *CachedGeoResolver {
	return &CachedGeoResolver{
		resolver: resolver,
		cache:    cache.New(ttl, 2*ttl),
	}
}

func (c *CachedGeoResolver) Resolve(ctx context.Context, city string) (weather.Location, error) {
	key := common.NormalizeCity(city)
	if cached, found := c.cache.Get(key); found {
		if loc, ok := cached.(weather.Location); ok {
			logx.Debug().Str("city", key).Msg("geo cache hit")
			return loc, nil
		}
	}

	loc, err := c.resolver.Resolve(ctx, city)
	if err != nil {
		return weather.Location{}, err
	}

	c.cache.Set(key, loc, cache.DefaultExpiration)
	return loc, nil
}

var _ weather.GeoResolver = (*CachedGeoResolver)(nil)
