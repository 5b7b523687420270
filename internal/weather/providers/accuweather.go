package providers

import (
	"context"
	"fmt"
	"net/url"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-route-bot/internal/weather"
)

// AccuWeatherProvider implements weather.Provider for the AccuWeather API.
type AccuWeatherProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewAccuWeatherProvider(cfg HTTPClientConfig, apiKey string) *AccuWeatherProvider {
	return &AccuWeatherProvider{
		name:    "accuweather",
		apiKey:  apiKey,
		baseURL: "https://dataservice.accuweather.com",
		httpCfg: cfg,
		circuit: newCircuitBreaker("accuweather"),
	}
}

func (p *AccuWeatherProvider) Name() string {
	return p.name
}

type accuLocation struct {
	Key           string `json:"Key"`
	LocalizedName string `json:"LocalizedName"`
	GeoPosition   struct {
		Latitude  float64 `json:"Latitude"`
		Longitude float64 `json:"Longitude"`
	} `json:"GeoPosition"`
}

func (l accuLocation) toLocation() weather.Location {
	return weather.Location{
		Name:      l.LocalizedName,
		Latitude:  l.GeoPosition.Latitude,
		Longitude: l.GeoPosition.Longitude,
		Key:       l.Key,
	}
}

// Resolve searches cities by name and returns the best match.
func (p *AccuWeatherProvider) Resolve(ctx context.Context, city string) (weather.Location, error) {
	if p.apiKey == "" {
		return weather.Location{}, &weather.TransientError{Provider: p.name, Err: fmt.Errorf("accuweather api key is not configured")}
	}

	values := url.Values{}
	values.Set("apikey", p.apiKey)
	values.Set("q", city)
	values.Set("language", "en-us")

	var payload []accuLocation
	u := fmt.Sprintf("%s/locations/v1/cities/search?%s", p.baseURL, values.Encode())
	if err := getJSON(ctx, p.httpCfg, p.circuit, u, &payload); err != nil {
		return weather.Location{}, classify(p.name, city, err)
	}

	if len(payload) == 0 || payload[0].Key == "" {
		return weather.Location{}, fmt.Errorf("%w: %s", weather.ErrNotFound, city)
	}
	return payload[0].toLocation(), nil
}

// locationKey returns loc.Key, looking it up by coordinates when another
// resolver produced the location.
func (p *AccuWeatherProvider) locationKey(ctx context.Context, loc weather.Location) (string, error) {
	if loc.Key != "" {
		return loc.Key, nil
	}

	values := url.Values{}
	values.Set("apikey", p.apiKey)
	values.Set("q", fmt.Sprintf("%f,%f", loc.Latitude, loc.Longitude))

	var payload accuLocation
	u := fmt.Sprintf("%s/locations/v1/cities/geoposition/search?%s", p.baseURL, values.Encode())
	if err := getJSON(ctx, p.httpCfg, p.circuit, u, &payload); err != nil {
		return "", classify(p.name, loc.Name, err)
	}
	if payload.Key == "" {
		return "", fmt.Errorf("%w: %s", weather.ErrNotFound, loc.Name)
	}
	return payload.Key, nil
}

type accuHalfDay struct {
	PrecipitationProbability float64 `json:"PrecipitationProbability"`
	RelativeHumidity         struct {
		Average float64 `json:"Average"`
	} `json:"RelativeHumidity"`
	Wind struct {
		Speed struct {
			Value float64 `json:"Value"`
			Unit  string  `json:"Unit"`
		} `json:"Speed"`
	} `json:"Wind"`
}

// Forecast fetches the daily forecast and splits every day into Day and Night periods.
func (p *AccuWeatherProvider) Forecast(ctx context.Context, loc weather.Location, days int) ([]weather.ForecastPeriod, error) {
	if err := checkHorizon(days); err != nil {
		return nil, err
	}
	if p.apiKey == "" {
		return nil, &weather.TransientError{Provider: p.name, Err: fmt.Errorf("accuweather api key is not configured")}
	}

	key, err := p.locationKey(ctx, loc)
	if err != nil {
		return nil, err
	}

	values := url.Values{}
	values.Set("apikey", p.apiKey)
	values.Set("details", "true")
	values.Set("metric", "true")

	var payload struct {
		DailyForecasts []struct {
			Date        string `json:"Date"`
			Temperature struct {
				Minimum struct {
					Value float64 `json:"Value"`
				} `json:"Minimum"`
				Maximum struct {
					Value float64 `json:"Value"`
				} `json:"Maximum"`
			} `json:"Temperature"`
			Day   accuHalfDay `json:"Day"`
			Night accuHalfDay `json:"Night"`
		} `json:"DailyForecasts"`
	}

	u := fmt.Sprintf("%s/forecasts/v1/daily/%dday/%s?%s", p.baseURL, days, url.PathEscape(key), values.Encode())
	if err := getJSON(ctx, p.httpCfg, p.circuit, u, &payload); err != nil {
		return nil, classify(p.name, loc.Name, err)
	}

	periods := make([]weather.ForecastPeriod, 0, 2*len(payload.DailyForecasts))
	for _, d := range payload.DailyForecasts {
		date := datePart(d.Date)
		avg := (d.Temperature.Minimum.Value + d.Temperature.Maximum.Value) / 2
		periods = append(periods,
			accuPeriod(weather.PeriodDay, date, avg, d.Day),
			accuPeriod(weather.PeriodNight, date, avg, d.Night),
		)
	}
	return periods, nil
}

func accuPeriod(period weather.PeriodOfDay, date string, temp float64, h accuHalfDay) weather.ForecastPeriod {
	wind := h.Wind.Speed.Value
	if h.Wind.Speed.Unit == "" || h.Wind.Speed.Unit == "km/h" {
		wind = roundTo(wind/3.6, 1)
	}
	return weather.ForecastPeriod{
		PeriodOfDay:              period,
		Date:                     date,
		Temperature:              temp,
		Humidity:                 h.RelativeHumidity.Average,
		PrecipitationProbability: h.PrecipitationProbability,
		WindSpeed:                wind,
	}
}

var _ weather.Provider = (*AccuWeatherProvider)(nil)

