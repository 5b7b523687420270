package providers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kelvins/geocoder"

	"github.com/i474232898/weather-route-bot/internal/weather"
)

type countingResolver struct {
	calls int
	err   error
}

func (c *countingResolver) Resolve(_ context.Context, city string) (weather.Location, error) {
	c.calls++
	if c.err != nil {
		return weather.Location{}, c.err
	}
	return weather.Location{Name: city, Latitude: 1, Longitude: 1}, nil
}

func TestCachedGeoResolver(t *testing.T) {
	inner := &countingResolver{}
	r := NewCachedGeoResolver(inner, time.Minute)

	for _, city := range []string{"paris", "  Paris ", "PARIS"} {
		if _, err := r.Resolve(context.Background(), city); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if inner.calls != 1 {
		t.Errorf("expected 1 upstream call, got %d", inner.calls)
	}
}

func TestCachedGeoResolverDoesNotCacheFailures(t *testing.T) {
	inner := &countingResolver{err: weather.ErrNotFound}
	r := NewCachedGeoResolver(inner, time.Minute)

	for i := 0; i < 2; i++ {
		if _, err := r.Resolve(context.Background(), "nowhere"); !errors.Is(err, weather.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	}
	if inner.calls != 2 {
		t.Errorf("expected 2 upstream calls, got %d", inner.calls)
	}
}

func TestGoogleGeoResolver(t *testing.T) {
	r := NewGoogleGeoResolver("key")
	r.geocode = func(addr geocoder.Address) (geocoder.Location, error) {
		switch addr.City {
		case "oslo":
			return geocoder.Location{Latitude: 59.91, Longitude: 10.75}, nil
		case "nowhere":
			return geocoder.Location{}, errors.New("ZERO_RESULTS")
		default:
			return geocoder.Location{}, errors.New("connection refused")
		}
	}

	loc, err := r.Resolve(context.Background(), "oslo")
	if err != nil || loc.Name != "Oslo" || loc.Latitude != 59.91 {
		t.Errorf("unexpected result %+v, %v", loc, err)
	}
	if _, err := r.Resolve(context.Background(), "nowhere"); !errors.Is(err, weather.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	var transErr *weather.TransientError
	if _, err := r.Resolve(context.Background(), "other"); !errors.As(err, &transErr) {
		t.Errorf("expected TransientError, got %v", err)
	}
}

func TestRateLimitedProviderHonoursContext(t *testing.T) {
	p := NewRateLimitedProvider(NewOpenMeteoProvider(DefaultHTTPClientConfig(nil)), 0.001, 1)
	p.limiter.Allow() // drain the single token

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	var transErr *weather.TransientError
	if _, err := p.Resolve(ctx, "paris"); !errors.As(err, &transErr) {
		t.Errorf("expected TransientError when the limiter cannot wait, got %v", err)
	}
	if p.Name() != "openmeteo [Rate Limited]" {
		t.Errorf("unexpected name %q", p.Name())
	}
}

func TestNewProvider(t *testing.T) {
	for _, name := range []string{"accuweather", "openmeteo", "openweathermap", "weatherapi"} {
		if _, err := New(name, DefaultHTTPClientConfig(nil), Keys{}); err != nil {
			t.Errorf("New(%q) failed: %v", name, err)
		}
	}
	if _, err := New("nope", DefaultHTTPClientConfig(nil), Keys{}); err == nil {
		t.Error("expected error for unknown provider")
	}
}
