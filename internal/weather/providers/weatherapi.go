package providers

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-route-bot/internal/common"
	"github.com/i474232898/weather-route-bot/internal/weather"
)

// WeatherAPIProvider implements weather.Provider for WeatherAPI.com.
type WeatherAPIProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewWeatherAPIProvider(cfg HTTPClientConfig, apiKey string) *WeatherAPIProvider {
	return &WeatherAPIProvider{
		name:    "weatherapi",
		apiKey:  apiKey,
		baseURL: "https://api.weatherapi.com/v1",
		httpCfg: cfg,
		circuit: newCircuitBreaker("weatherapi"),
	}
}

func (p *WeatherAPIProvider) Name() string {
	return p.name
}

func (p *WeatherAPIProvider) Resolve(ctx context.Context, city string) (weather.Location, error) {
	if p.apiKey == "" {
		return weather.Location{}, &weather.TransientError{Provider: p.name, Err: fmt.Errorf("weatherapi api key is not configured")}
	}

	values := url.Values{}
	values.Set("key", p.apiKey)
	values.Set("q", city)

	var payload []struct {
		ID   int64   `json:"id"`
		Name string  `json:"name"`
		Lat  float64 `json:"lat"`
		Lon  float64 `json:"lon"`
	}

	u := fmt.Sprintf("%s/search.json?%s", p.baseURL, values.Encode())
	if err := getJSON(ctx, p.httpCfg, p.circuit, u, &payload); err != nil {
		return weather.Location{}, p.classify(city, err)
	}
	if len(payload) == 0 {
		return weather.Location{}, fmt.Errorf("%w: %s", weather.ErrNotFound, city)
	}

	return weather.Location{
		Name:      payload[0].Name,
		Latitude:  payload[0].Lat,
		Longitude: payload[0].Lon,
		Key:       strconv.FormatInt(payload[0].ID, 10),
	}, nil
}

// Forecast maps each forecast day to a Day period built from the daily summary
// and a Night period averaged over the hours flagged is_day=0.
func (p *WeatherAPIProvider) Forecast(ctx context.Context, loc weather.Location, days int) ([]weather.ForecastPeriod, error) {
	if err := checkHorizon(days); err != nil {
		return nil, err
	}
	if p.apiKey == "" {
		return nil, &weather.TransientError{Provider: p.name, Err: fmt.Errorf("weatherapi api key is not configured")}
	}

	values := url.Values{}
	values.Set("key", p.apiKey)
	values.Set("q", fmt.Sprintf("%f,%f", loc.Latitude, loc.Longitude))
	values.Set("days", strconv.Itoa(days))

	var payload struct {
		Forecast struct {
			ForecastDay []struct {
				Date string `json:"date"`
				Day  struct {
					AvgTempC          float64 `json:"avgtemp_c"`
					AvgHumidity       float64 `json:"avghumidity"`
					DailyChanceOfRain float64 `json:"daily_chance_of_rain"`
					MaxWindKph        float64 `json:"maxwind_kph"`
				} `json:"day"`
				Hour []struct {
					IsDay        int     `json:"is_day"`
					TempC        float64 `json:"temp_c"`
					Humidity     float64 `json:"humidity"`
					ChanceOfRain float64 `json:"chance_of_rain"`
					WindKph      float64 `json:"wind_kph"`
				} `json:"hour"`
			} `json:"forecastday"`
		} `json:"forecast"`
	}

	u := fmt.Sprintf("%s/forecast.json?%s", p.baseURL, values.Encode())
	if err := getJSON(ctx, p.httpCfg, p.circuit, u, &payload); err != nil {
		return nil, p.classify(loc.Name, err)
	}

	var periods []weather.ForecastPeriod
	for _, fd := range payload.Forecast.ForecastDay {
		periods = append(periods, weather.ForecastPeriod{
			PeriodOfDay:              weather.PeriodDay,
			Date:                     fd.Date,
			Temperature:              fd.Day.AvgTempC,
			Humidity:                 fd.Day.AvgHumidity,
			PrecipitationProbability: fd.Day.DailyChanceOfRain,
			WindSpeed:                roundTo(fd.Day.MaxWindKph/3.6, 1),
		})

		var n, temp, humidity, wind, rain float64
		for _, h := range fd.Hour {
			if h.IsDay != 0 {
				continue
			}
			n++
			temp += h.TempC
			humidity += h.Humidity
			wind += h.WindKph
			if h.ChanceOfRain > rain {
				rain = h.ChanceOfRain
			}
		}
		if n == 0 {
			continue
		}
		periods = append(periods, weather.ForecastPeriod{
			PeriodOfDay:              weather.PeriodNight,
			Date:                     fd.Date,
			Temperature:              temp / n,
			Humidity:                 roundTo(humidity/n, 1),
			PrecipitationProbability: rain,
			WindSpeed:                roundTo(wind/n/3.6, 1),
		})
	}
	return periods, nil
}

// classify recognises WeatherAPI's "No matching location found" 400 response
// (error code 1006) as a missing city.
func (p *WeatherAPIProvider) classify(city string, err error) error {
	var se *statusError
	if errors.As(err, &se) && common.HasAny(se.Body, "no matching location", `"code":1006`) {
		return fmt.Errorf("%w: %s", weather.ErrNotFound, city)
	}
	return classify(p.name, city, err)
}

var _ weather.Provider = (*WeatherAPIProvider)(nil)
