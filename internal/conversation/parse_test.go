package conversation

import (
	"errors"
	"strings"
	"testing"
)

func TestParseIntermediatesNoneKeyword(t *testing.T) {
	for _, input := range []string{"none", "NONE", "  None  ", "\tnOnE\n"} {
		cities := parseIntermediates(input)
		if cities == nil || len(cities) != 0 {
			t.Errorf("parseIntermediates(%q) = %v, want empty", input, cities)
		}
	}
}

func TestParseIntermediatesSplitsOnWhitespace(t *testing.T) {
	got := parseIntermediates("  Lyon   TURIN\tmilan \n")
	if strings.Join(got, ",") != "lyon,turin,milan" {
		t.Errorf("unexpected cities %v", got)
	}
}

func TestNormalizeCity(t *testing.T) {
	city, err := normalizeCity("  New York ")
	if err != nil || city != "new york" {
		t.Errorf("unexpected result %q, %v", city, err)
	}

	var verr *ValidationError
	if _, err := normalizeCity(""); !errors.As(err, &verr) {
		t.Errorf("expected ValidationError for empty city, got %v", err)
	}
	if _, err := normalizeCity(strings.Repeat("a", 86)); !errors.As(err, &verr) || verr.Reason != "city name is too long" {
		t.Errorf("expected too-long ValidationError, got %v", err)
	}
}

func TestParseMessage(t *testing.T) {
	cases := map[string]Event{
		"/weather":           CommandEvent("/weather"),
		" /Weather@routebot": CommandEvent("/weather"),
		"/help me":           CommandEvent("/help"),
		"paris":              TextEvent("paris"),
	}
	for in, want := range cases {
		if got := ParseMessage(in); got != want {
			t.Errorf("ParseMessage(%q) = %+v, want %+v", in, got, want)
		}
	}
}
