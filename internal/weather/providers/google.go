package providers

import (
	"context"
	"fmt"
	"sync"

	"github.com/kelvins/geocoder"

	"github.com/i474232898/weather-route-bot/internal/common"
	"github.com/i474232898/weather-route-bot/internal/weather"
)

// geocoder keeps its API key in a package variable.
var geocoderKeyMu sync.Mutex

// GoogleGeoResolver implements weather.GeoResolver with the Google Geocoding
// API. It is used when the forecast provider's own city search is not wanted.
type GoogleGeoResolver struct {
	name    string
	apiKey  string
	geocode func(geocoder.Address) (geocoder.Location, error)
}

func NewGoogleGeoResolver(apiKey string) *GoogleGeoResolver {
	return &GoogleGeoResolver{
		name:    "google-geocoder",
		apiKey:  apiKey,
		geocode: geocoder.Geocoding,
	}
}

func (r *GoogleGeoResolver) Name() string {
	return r.name
}

func (r *GoogleGeoResolver) Resolve(ctx context.Context, city string) (weather.Location, error) {
	if err := ctx.Err(); err != nil {
		return weather.Location{}, &weather.TransientError{Provider: r.name, Err: err}
	}
	if r.apiKey == "" {
		return weather.Location{}, &weather.TransientError{Provider: r.name, Err: fmt.Errorf("geocoder api key is not configured")}
	}

	geocoderKeyMu.Lock()
	geocoder.ApiKey = r.apiKey
	loc, err := r.geocode(geocoder.Address{City: city})
	geocoderKeyMu.Unlock()

	if err != nil {
		if common.HasAny(err.Error(), "zero_results", "no results", "not found", "empty") {
			return weather.Location{}, fmt.Errorf("%w: %s", weather.ErrNotFound, city)
		}
		if common.HasAny(err.Error(), "invalid_request") {
			return weather.Location{}, &weather.ResolutionError{City: city, Reason: fmt.Sprintf("geocoder rejected city %q", city), Err: err}
		}
		return weather.Location{}, &weather.TransientError{Provider: r.name, Err: err}
	}
	if loc.Latitude == 0 && loc.Longitude == 0 {
		return weather.Location{}, fmt.Errorf("%w: %s", weather.ErrNotFound, city)
	}

	return weather.Location{
		Name:      weather.Capitalize(city),
		Latitude:  loc.Latitude,
		Longitude: loc.Longitude,
	}, nil
}

var _ weather.GeoResolver = (*GoogleGeoResolver)(nil)
