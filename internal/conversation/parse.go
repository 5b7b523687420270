package conversation

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/i474232898/weather-route-bot/internal/common"
)

var validate = validator.New()

// cityRule bounds a single city name; the longest real place names are
// around 85 characters.
const cityRule = "required,max=85"

// normalizeCity trims and lower-cases raw input and checks it is a plausible
// city name.
func normalizeCity(raw string) (string, error) {
	city := common.NormalizeCity(raw)
	if err := validate.Var(city, cityRule); err != nil {
		return "", cityValidationError(city, err)
	}
	return city, nil
}

func cityValidationError(city string, err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		switch verrs[0].Tag() {
		case "required":
			return &ValidationError{Field: "city", Value: city, Reason: "city name must not be empty"}
		case "max":
			return &ValidationError{Field: "city", Value: city, Reason: "city name is too long"}
		}
	}
	return &ValidationError{Field: "city", Value: city, Reason: err.Error()}
}

// parseIntermediates handles the intermediate-cities answer: the none keyword
// (any case) means no cities; otherwise the input is split on whitespace.
// Duplicates are preserved in input order.
func parseIntermediates(raw string) []string {
	input := common.NormalizeCity(raw)
	if input == NoneKeyword {
		return []string{}
	}

	fields := strings.Fields(input)
	cities := make([]string, 0, len(fields))
	for _, f := range fields {
		if c := strings.TrimSpace(f); c != "" {
			cities = append(cities, c)
		}
	}
	return cities
}

// checkIntermediates rejects any intermediate city equal to start or end.
func checkIntermediates(cities []string, start, end string) error {
	for _, c := range cities {
		if c == start || c == end {
			return &ValidationError{Field: "intermediate_cities", Value: c, Reason: msgIntermediateClash}
		}
	}
	return nil
}
