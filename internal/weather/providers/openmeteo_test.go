package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/i474232898/weather-route-bot/internal/weather"
)

func TestOpenMeteoResolveAndForecast(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("name") == "berlin" {
			fmt.Fprint(w, `{"results":[{"id":2950159,"name":"Berlin","latitude":52.52,"longitude":13.41}]}`)
			return
		}
		fmt.Fprint(w, `{"generationtime_ms":0.5}`)
	})
	mux.HandleFunc("/forecast", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("forecast_days"); got != "5" {
			t.Errorf("expected forecast_days=5, got %q", got)
		}
		fmt.Fprint(w, `{"daily":{
			"time":["2024-05-01","2024-05-02"],
			"temperature_2m_max":[18.4,19.1],
			"temperature_2m_min":[8.2,9.0],
			"relative_humidity_2m_mean":[65,70],
			"precipitation_probability_max":[10,40],
			"wind_speed_10m_max":[4.1,6.3]
		}}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	p := NewOpenMeteoProvider(DefaultHTTPClientConfig(srv.Client()))
	p.baseURL = srv.URL + "/forecast"
	p.geocodeURL = srv.URL + "/search"

	loc, err := p.Resolve(context.Background(), "berlin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loc.Name != "Berlin" || loc.Latitude != 52.52 {
		t.Errorf("unexpected location %+v", loc)
	}

	if _, err := p.Resolve(context.Background(), "nowhereville"); !errors.Is(err, weather.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	periods, err := p.Forecast(context.Background(), loc, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(periods) != 4 {
		t.Fatalf("expected 4 periods, got %d", len(periods))
	}
	day := weather.DaytimePeriods(periods)
	if len(day) != 2 || day[1].Temperature != 19.1 || day[1].PrecipitationProbability != 40 {
		t.Errorf("unexpected daytime periods %+v", day)
	}
	if periods[1].PeriodOfDay != weather.PeriodNight || periods[1].Temperature != 8.2 {
		t.Errorf("unexpected night period %+v", periods[1])
	}
}
