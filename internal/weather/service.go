package weather

import (
	"context"
	"errors"
	"fmt"

	logx "github.com/i474232898/weather-route-bot/pkg/logger"
)

// CityResult is the outcome of resolving and forecasting a single route city.
// Exactly one of Periods (on success) or Err is meaningful.
type CityResult struct {
	City     string
	Location Location
	Periods  []ForecastPeriod
	Err      error
}

// Skipped reports whether the city could not be resolved to coordinates.
func (r CityResult) Skipped() bool {
	return errors.Is(r.Err, ErrNotFound)
}

// RouteAggregator drives a GeoResolver and a ForecastProvider over every city
// of a route and renders the combined report.
type RouteAggregator struct {
	resolver  GeoResolver
	forecasts ForecastProvider
}

// NewRouteAggregator creates a new RouteAggregator.
func NewRouteAggregator(resolver GeoResolver, forecasts ForecastProvider) *RouteAggregator {
	return &RouteAggregator{
		resolver:  resolver,
		forecasts: forecasts,
	}
}

// Collect resolves and forecasts each city strictly in route order. A failure
// for one city is recorded in its CityResult and never stops the others.
func (a *RouteAggregator) Collect(ctx context.Context, route Route, days int) []CityResult {
	results := make([]CityResult, 0, len(route))
	for _, city := range route {
		results = append(results, a.collectCity(ctx, city, days))
	}
	return results
}

func (a *RouteAggregator) collectCity(ctx context.Context, city string, days int) CityResult {
	res := CityResult{City: city}

	loc, err := a.resolver.Resolve(ctx, city)
	if err != nil {
		logx.Warn().Err(err).Str("city", city).Str("error_class", ErrorClass(err)).Msg("route city resolution failed")
		res.Err = err
		return res
	}
	res.Location = loc

	periods, err := a.forecasts.Forecast(ctx, loc, days)
	if err != nil {
		logx.Warn().Err(err).Str("city", city).Str("error_class", ErrorClass(err)).Msg("route city forecast failed")
		res.Err = err
		return res
	}
	res.Periods = periods

	logx.Debug().Str("city", city).Int("periods", len(periods)).Msg("route city forecast fetched")
	return res
}

// Aggregate collects every city of the route and renders the report. Per-city
// failures become inline notices; only an unexpected panic while composing the
// report yields an *AggregationError.
func (a *RouteAggregator) Aggregate(ctx context.Context, route Route, days int) (report string, err error) {
	defer func() {
		if r := recover(); r != nil {
			logx.Error().Interface("panic", r).Str("route", route.Display()).Msg("route aggregation panicked")
			report = ""
			err = &AggregationError{Err: fmt.Errorf("%v", r)}
		}
	}()

	if len(route) == 0 {
		return "", &AggregationError{Err: errors.New("empty route")}
	}

	results := a.Collect(ctx, route, days)
	return RenderReport(route, results), nil
}
