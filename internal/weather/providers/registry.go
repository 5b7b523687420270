package providers

import (
	"fmt"

	"github.com/i474232898/weather-route-bot/internal/weather"
)

// Keys holds the API credentials of every supported provider.
type Keys struct {
	AccuWeather string
	OpenWeather string
	WeatherAPI  string
}

// New builds the named forecast provider.
func New(name string, cfg HTTPClientConfig, keys Keys) (weather.Provider, error) {
	switch name {
	case "accuweather", "":
		return NewAccuWeatherProvider(cfg, keys.AccuWeather), nil
	case "openmeteo":
		return NewOpenMeteoProvider(cfg), nil
	case "openweathermap", "openweather":
		return NewOpenWeatherProvider(cfg, keys.OpenWeather), nil
	case "weatherapi":
		return NewWeatherAPIProvider(cfg, keys.WeatherAPI), nil
	default:
		return nil, fmt.Errorf("unknown weather provider %q", name)
	}
}
