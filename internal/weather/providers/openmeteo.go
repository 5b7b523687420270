package providers

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-route-bot/internal/weather"
)

// OpenMeteoProvider implements weather.Provider for Open-Meteo. It needs no API key.
type OpenMeteoProvider struct {
	name       string
	baseURL    string
	geocodeURL string
	httpCfg    HTTPClientConfig
	circuit    *gobreaker.CircuitBreaker
}

func NewOpenMeteoProvider(cfg HTTPClientConfig) *OpenMeteoProvider {
	return &OpenMeteoProvider{
		name:       "openmeteo",
		baseURL:    "https://api.open-meteo.com/v1/forecast",
		geocodeURL: "https://geocoding-api.open-meteo.com/v1/search",
		httpCfg:    cfg,
		circuit:    newCircuitBreaker("openmeteo"),
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

func (p *OpenMeteoProvider) Resolve(ctx context.Context, city string) (weather.Location, error) {
	values := url.Values{}
	values.Set("name", city)
	values.Set("count", "1")
	values.Set("language", "en")
	values.Set("format", "json")

	var payload struct {
		Results []struct {
			ID        int64   `json:"id"`
			Name      string  `json:"name"`
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"results"`
	}

	u := fmt.Sprintf("%s?%s", p.geocodeURL, values.Encode())
	if err := getJSON(ctx, p.httpCfg, p.circuit, u, &payload); err != nil {
		return weather.Location{}, classify(p.name, city, err)
	}

	if len(payload.Results) == 0 {
		return weather.Location{}, fmt.Errorf("%w: %s", weather.ErrNotFound, city)
	}

	r := payload.Results[0]
	return weather.Location{
		Name:      r.Name,
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
		Key:       strconv.FormatInt(r.ID, 10),
	}, nil
}

// Forecast requests daily aggregates. The Day period carries the daily maximum
// temperature and the Night period the minimum.
func (p *OpenMeteoProvider) Forecast(ctx context.Context, loc weather.Location, days int) ([]weather.ForecastPeriod, error) {
	if err := checkHorizon(days); err != nil {
		return nil, err
	}

	values := url.Values{}
	values.Set("latitude", fmt.Sprintf("%f", loc.Latitude))
	values.Set("longitude", fmt.Sprintf("%f", loc.Longitude))
	values.Set("daily", "temperature_2m_max,temperature_2m_min,relative_humidity_2m_mean,precipitation_probability_max,wind_speed_10m_max")
	values.Set("wind_speed_unit", "ms")
	values.Set("timezone", "auto")
	values.Set("forecast_days", strconv.Itoa(days))

	var payload struct {
		Daily struct {
			Time        []string  `json:"time"`
			TempMax     []float64 `json:"temperature_2m_max"`
			TempMin     []float64 `json:"temperature_2m_min"`
			Humidity    []float64 `json:"relative_humidity_2m_mean"`
			PrecipProb  []float64 `json:"precipitation_probability_max"`
			WindSpeedMS []float64 `json:"wind_speed_10m_max"`
		} `json:"daily"`
	}

	u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
	if err := getJSON(ctx, p.httpCfg, p.circuit, u, &payload); err != nil {
		return nil, classify(p.name, loc.Name, err)
	}

	d := payload.Daily
	periods := make([]weather.ForecastPeriod, 0, 2*len(d.Time))
	for i, date := range d.Time {
		humidity, precip, wind := at(d.Humidity, i), at(d.PrecipProb, i), at(d.WindSpeedMS, i)
		periods = append(periods,
			weather.ForecastPeriod{
				PeriodOfDay:              weather.PeriodDay,
				Date:                     date,
				Temperature:              at(d.TempMax, i),
				Humidity:                 humidity,
				PrecipitationProbability: precip,
				WindSpeed:                wind,
			},
			weather.ForecastPeriod{
				PeriodOfDay:              weather.PeriodNight,
				Date:                     date,
				Temperature:              at(d.TempMin, i),
				Humidity:                 humidity,
				PrecipitationProbability: precip,
				WindSpeed:                wind,
			},
		)
	}
	return periods, nil
}

// at tolerates daily arrays shorter than the time axis.
func at(values []float64, i int) float64 {
	if i < len(values) {
		return values[i]
	}
	return 0
}

var _ weather.Provider = (*OpenMeteoProvider)(nil)
