package weather

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// RenderReport formats the route display line, a blank line, then one block or
// notice per city in route order. Only PeriodDay entries are rendered.
func RenderReport(route Route, results []CityResult) string {
	var b strings.Builder

	b.WriteString("Your route: ")
	b.WriteString(route.Display())
	b.WriteString("\n\n")

	for _, r := range results {
		name := Capitalize(r.City)
		switch {
		case r.Skipped():
			fmt.Fprintf(&b, "City '%s' was not found. Skipping it.\n\n", name)
		case r.Err != nil:
			fmt.Fprintf(&b, "Error while fetching data for city '%s': %v\n\n", name, r.Err)
		default:
			fmt.Fprintf(&b, "Weather for %s:\n", name)
			for _, p := range DaytimePeriods(r.Periods) {
				writePeriod(&b, p)
			}
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// DaytimePeriods filters periods down to PeriodDay entries, keeping order.
func DaytimePeriods(periods []ForecastPeriod) []ForecastPeriod {
	out := make([]ForecastPeriod, 0, len(periods))
	for _, p := range periods {
		if p.PeriodOfDay == PeriodDay {
			out = append(out, p)
		}
	}
	return out
}

func writePeriod(b *strings.Builder, p ForecastPeriod) {
	fmt.Fprintf(b, "Date: %s\n", p.Date)
	fmt.Fprintf(b, "Average temperature: %.1f°C\n", RoundTemperature(p.Temperature))
	fmt.Fprintf(b, "Humidity: %s%%\n", formatNumber(p.Humidity))
	fmt.Fprintf(b, "Precipitation probability: %s%%\n", formatNumber(p.PrecipitationProbability))
	fmt.Fprintf(b, "Wind speed: %s m/s\n\n", formatNumber(p.WindSpeed))
}

// RoundTemperature rounds to one decimal place, halves away from zero. The
// rounding applies to the binary value, so 1.15 (stored just below) gives 1.1.
// Negative zero is returned as 0.
func RoundTemperature(t float64) float64 {
	r := math.Round(t*10) / 10
	if r == 0 {
		return 0
	}
	return r
}

// formatNumber prints v with the shortest representation, no rounding.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
