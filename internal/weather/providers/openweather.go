package providers

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-route-bot/internal/weather"
)

// OpenWeatherProvider implements weather.Provider for OpenWeatherMap using the
// direct geocoding API and the 5 day / 3 hour forecast.
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenWeatherProvider(cfg HTTPClientConfig, apiKey string) *OpenWeatherProvider {
	return &OpenWeatherProvider{
		name:    "openweathermap",
		apiKey:  apiKey,
		baseURL: "https://api.openweathermap.org",
		httpCfg: cfg,
		circuit: newCircuitBreaker("openweather"),
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

func (p *OpenWeatherProvider) Resolve(ctx context.Context, city string) (weather.Location, error) {
	if p.apiKey == "" {
		return weather.Location{}, &weather.TransientError{Provider: p.name, Err: fmt.Errorf("openweather api key is not configured")}
	}

	values := url.Values{}
	values.Set("appid", p.apiKey)
	values.Set("q", city)
	values.Set("limit", "1")

	var payload []struct {
		Name    string  `json:"name"`
		Lat     float64 `json:"lat"`
		Lon     float64 `json:"lon"`
		Country string  `json:"country"`
	}

	u := fmt.Sprintf("%s/geo/1.0/direct?%s", p.baseURL, values.Encode())
	if err := getJSON(ctx, p.httpCfg, p.circuit, u, &payload); err != nil {
		return weather.Location{}, classify(p.name, city, err)
	}
	if len(payload) == 0 {
		return weather.Location{}, fmt.Errorf("%w: %s", weather.ErrNotFound, city)
	}

	return weather.Location{
		Name:      payload[0].Name,
		Latitude:  payload[0].Lat,
		Longitude: payload[0].Lon,
	}, nil
}

// Forecast buckets the 3-hourly entries by local date and part of day ("d"/"n")
// and averages each bucket. Precipitation probability is the bucket maximum.
// Only the first days calendar dates are returned.
func (p *OpenWeatherProvider) Forecast(ctx context.Context, loc weather.Location, days int) ([]weather.ForecastPeriod, error) {
	if err := checkHorizon(days); err != nil {
		return nil, err
	}
	if p.apiKey == "" {
		return nil, &weather.TransientError{Provider: p.name, Err: fmt.Errorf("openweather api key is not configured")}
	}

	values := url.Values{}
	values.Set("appid", p.apiKey)
	values.Set("units", "metric")
	values.Set("lat", fmt.Sprintf("%f", loc.Latitude))
	values.Set("lon", fmt.Sprintf("%f", loc.Longitude))
	values.Set("cnt", strconv.Itoa(forecastEntries(days)))

	var payload struct {
		List []struct {
			DtTxt string `json:"dt_txt"`
			Main  struct {
				Temp     float64 `json:"temp"`
				Humidity float64 `json:"humidity"`
			} `json:"main"`
			Wind struct {
				Speed float64 `json:"speed"`
			} `json:"wind"`
			Pop float64 `json:"pop"`
			Sys struct {
				Pod string `json:"pod"`
			} `json:"sys"`
		} `json:"list"`
	}

	u := fmt.Sprintf("%s/data/2.5/forecast?%s", p.baseURL, values.Encode())
	if err := getJSON(ctx, p.httpCfg, p.circuit, u, &payload); err != nil {
		return nil, classify(p.name, loc.Name, err)
	}

	type bucketKey struct {
		date   string
		period weather.PeriodOfDay
	}
	type bucket struct {
		n                    int
		temp, humidity, wind float64
		pop                  float64
	}

	buckets := make(map[bucketKey]*bucket)
	for _, e := range payload.List {
		period := weather.PeriodNight
		if e.Sys.Pod == "d" {
			period = weather.PeriodDay
		}
		k := bucketKey{date: datePart(e.DtTxt), period: period}
		b, ok := buckets[k]
		if !ok {
			b = &bucket{}
			buckets[k] = b
		}
		b.n++
		b.temp += e.Main.Temp
		b.humidity += e.Main.Humidity
		b.wind += e.Wind.Speed
		if e.Pop > b.pop {
			b.pop = e.Pop
		}
	}

	keys := make([]bucketKey, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].date != keys[j].date {
			return keys[i].date < keys[j].date
		}
		return keys[i].period == weather.PeriodDay && keys[j].period != weather.PeriodDay
	})

	periods := make([]weather.ForecastPeriod, 0, len(keys))
	dates := 0
	for i, k := range keys {
		if i == 0 || k.date != keys[i-1].date {
			dates++
		}
		if dates > days {
			break
		}
		b := buckets[k]
		n := float64(b.n)
		periods = append(periods, weather.ForecastPeriod{
			PeriodOfDay:              k.period,
			Date:                     k.date,
			Temperature:              b.temp / n,
			Humidity:                 roundTo(b.humidity/n, 1),
			PrecipitationProbability: roundTo(b.pop*100, 1),
			WindSpeed:                roundTo(b.wind/n, 1),
		})
	}
	return periods, nil
}

// forecastEntries asks for one extra day of 3-hour entries so the last
// calendar date is complete after trimming. The API serves at most 40.
func forecastEntries(days int) int {
	return min(8*(days+1), 40)
}

var _ weather.Provider = (*OpenWeatherProvider)(nil)
