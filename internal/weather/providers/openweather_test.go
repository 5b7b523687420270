package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/i474232898/weather-route-bot/internal/weather"
)

func TestOpenWeatherForecastBucketsByPartOfDay(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/data/2.5/forecast", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("cnt"); got != "16" {
			t.Errorf("expected cnt=16, got %q", got)
		}
		fmt.Fprint(w, `{"list":[
			{"dt_txt":"2024-05-01 03:00:00","main":{"temp":6,"humidity":90},"wind":{"speed":1},"pop":0.1,"sys":{"pod":"n"}},
			{"dt_txt":"2024-05-01 12:00:00","main":{"temp":16,"humidity":50},"wind":{"speed":4},"pop":0.2,"sys":{"pod":"d"}},
			{"dt_txt":"2024-05-01 15:00:00","main":{"temp":18,"humidity":40},"wind":{"speed":6},"pop":0.6,"sys":{"pod":"d"}}
		]}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	p := NewOpenWeatherProvider(DefaultHTTPClientConfig(srv.Client()), "key")
	p.baseURL = srv.URL

	periods, err := p.Forecast(context.Background(), weather.Location{Name: "Rome", Latitude: 41.9, Longitude: 12.5}, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(periods) != 2 {
		t.Fatalf("expected 2 periods, got %d", len(periods))
	}

	day := periods[0]
	if day.PeriodOfDay != weather.PeriodDay {
		t.Fatalf("expected day period first, got %+v", day)
	}
	if day.Temperature != 17 || day.Humidity != 45 || day.WindSpeed != 5 || day.PrecipitationProbability != 60 {
		t.Errorf("unexpected day bucket %+v", day)
	}
}

func TestOpenWeatherForecastTrimsToRequestedDays(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"list":[
			{"dt_txt":"2024-05-01 12:00:00","main":{"temp":16},"sys":{"pod":"d"}},
			{"dt_txt":"2024-05-01 15:00:00","main":{"temp":18},"sys":{"pod":"d"}},
			{"dt_txt":"2024-05-01 18:00:00","main":{"temp":12},"sys":{"pod":"n"}},
			{"dt_txt":"2024-05-01 21:00:00","main":{"temp":10},"sys":{"pod":"n"}},
			{"dt_txt":"2024-05-02 00:00:00","main":{"temp":8},"sys":{"pod":"n"}},
			{"dt_txt":"2024-05-02 03:00:00","main":{"temp":7},"sys":{"pod":"n"}},
			{"dt_txt":"2024-05-02 06:00:00","main":{"temp":11},"sys":{"pod":"d"}},
			{"dt_txt":"2024-05-02 09:00:00","main":{"temp":14},"sys":{"pod":"d"}}
		]}`)
	}))
	defer srv.Close()

	p := NewOpenWeatherProvider(DefaultHTTPClientConfig(srv.Client()), "key")
	p.baseURL = srv.URL

	periods, err := p.Forecast(context.Background(), weather.Location{Name: "Rome"}, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	daytime := weather.DaytimePeriods(periods)
	if len(daytime) != 1 {
		t.Fatalf("expected 1 daytime period, got %d: %+v", len(daytime), daytime)
	}
	for _, period := range periods {
		if period.Date != "2024-05-01" {
			t.Errorf("unexpected date outside the horizon: %+v", period)
		}
	}
}

func TestOpenWeatherForecastEntries(t *testing.T) {
	if got := forecastEntries(1); got != 16 {
		t.Errorf("forecastEntries(1) = %d, want 16", got)
	}
	if got := forecastEntries(5); got != 40 {
		t.Errorf("forecastEntries(5) = %d, want 40", got)
	}
}

func TestOpenWeatherResolveNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	}))
	defer srv.Close()

	p := NewOpenWeatherProvider(DefaultHTTPClientConfig(srv.Client()), "key")
	p.baseURL = srv.URL

	if _, err := p.Resolve(context.Background(), "nowhereville"); weather.ErrorClass(err) != "not_found" {
		t.Errorf("expected not found, got %v", err)
	}
}
