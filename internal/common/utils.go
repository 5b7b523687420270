package common

import "strings"

// HasAny reports whether s contains any of subs, ignoring case.
func HasAny(s string, subs ...string) bool {
	s = strings.ToLower(s)
	for _, sub := range subs {
		if strings.Contains(s, strings.ToLower(sub)) {
			return true
		}
	}
	return false
}

// NormalizeCity trims surrounding whitespace and lower-cases a city name.
// All city comparisons use the normalized form.
func NormalizeCity(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
