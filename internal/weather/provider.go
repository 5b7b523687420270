package weather

import "context"

// GeoResolver turns a city name into coordinates.
// It returns ErrNotFound when the city is unknown, a *ResolutionError when the
// provider rejects the input and a *TransientError for connectivity failures.
type GeoResolver interface {
	Resolve(ctx context.Context, city string) (Location, error)
}

// ForecastProvider returns the per-period forecast for a resolved location.
// days must be one of Horizons.
type ForecastProvider interface {
	Forecast(ctx context.Context, loc Location, days int) ([]ForecastPeriod, error)
}

// Provider abstracts a weather data source that can both geocode and forecast
// (e.g. AccuWeather, Open-Meteo, OpenWeatherMap, WeatherAPI).
type Provider interface {
	Name() string
	GeoResolver
	ForecastProvider
}
