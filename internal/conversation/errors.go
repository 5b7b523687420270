package conversation

import "fmt"

// ValidationError is user input that breaks a domain rule (malformed city
// name, duplicated route city). The stage does not advance.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason != "" {
		return e.Reason
	}
	return fmt.Sprintf("invalid %s %q", e.Field, e.Value)
}
