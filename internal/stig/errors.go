package stig

import "fmt"

// ValidationError reports user input that a mutating operation refuses to
// act on, e.g. an empty control selection. No partial state is written.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Reason)
}

// NotFoundError reports a referenced record that does not exist. The
// correlator never raises it for unknown CCIs; those pairings are simply
// omitted.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}
