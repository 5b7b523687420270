package weather

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// PeriodOfDay discriminates the half of a day a forecast entry describes.
type PeriodOfDay string

const (
	PeriodDay   PeriodOfDay = "Day"
	PeriodNight PeriodOfDay = "Night"
)

// Horizons is the fixed set of forecast lengths (in days) a route can request.
var Horizons = []int{1, 5}

// ValidHorizon reports whether days is one of Horizons.
func ValidHorizon(days int) bool {
	for _, h := range Horizons {
		if h == days {
			return true
		}
	}
	return false
}

// Location is a resolved city.
// Key is an optional provider-specific identifier (e.g. an AccuWeather location key).
type Location struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Key       string  `json:"key,omitempty"`
}

// ForecastPeriod is one half-day forecast entry as returned by a provider.
type ForecastPeriod struct {
	PeriodOfDay              PeriodOfDay `json:"periodOfDay"`
	Date                     string      `json:"date"`                     // YYYY-MM-DD, provider local date
	Temperature              float64     `json:"temperatureC"`             // average for the period
	Humidity                 float64     `json:"humidityPercent"`          // relative humidity
	PrecipitationProbability float64     `json:"precipitationProbability"` // percent
	WindSpeed                float64     `json:"windSpeedMs"`
}

// Route is the ordered list of normalized city names from start to end.
type Route []string

// NewRoute builds start + intermediates + end.
func NewRoute(start string, intermediates []string, end string) Route {
	r := make(Route, 0, len(intermediates)+2)
	r = append(r, start)
	r = append(r, intermediates...)
	return append(r, end)
}

// Display joins the capitalized cities with " -> ".
func (r Route) Display() string {
	names := make([]string, len(r))
	for i, c := range r {
		names[i] = Capitalize(c)
	}
	return strings.Join(names, " -> ")
}

// Capitalize upper-cases the first letter and lower-cases the rest.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	first, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(first)) + strings.ToLower(s[size:])
}
