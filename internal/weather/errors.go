package weather

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a city cannot be resolved to coordinates.
var ErrNotFound = errors.New("city not found")

// ErrUnsupportedHorizon is returned for a forecast length outside Horizons.
var ErrUnsupportedHorizon = errors.New("unsupported forecast horizon")

// ResolutionError means the provider rejected the request input (malformed or
// unsupported city name).
type ResolutionError struct {
	City   string
	Reason string
	Err    error
}

func (e *ResolutionError) Error() string {
	if e.Reason != "" {
		return e.Reason
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("invalid city %q", e.City)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// TransientError wraps connectivity or provider-side failures.
type TransientError struct {
	Provider string
	Err      error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("%s unavailable: %v", e.Provider, e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// AggregationError is an unexpected failure while composing a route report.
// Per-city failures never produce it.
type AggregationError struct {
	Err error
}

func (e *AggregationError) Error() string {
	return fmt.Sprintf("route aggregation failed: %v", e.Err)
}

func (e *AggregationError) Unwrap() error {
	return e.Err
}

// ErrorClass names the category of err for logging.
func ErrorClass(err error) string {
	var (
		resErr   *ResolutionError
		transErr *TransientError
	)
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.As(err, &resErr):
		return "resolution"
	case errors.As(err, &transErr):
		return "transient"
	default:
		return "unknown"
	}
}
