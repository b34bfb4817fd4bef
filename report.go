package fieldbind

import (
	"fmt"
	"strings"
)

// FieldError holds one field name together with its validation messages.
// Messages are unique (case-sensitive exact match) and keep insertion order.
type FieldError struct {
	Field    string   `json:"field"`
	Messages []string `json:"messages"`
}

// Report is the aggregated validation outcome for one logical operation.
// A Report is never empty: an operation without failures produces no report
// at all rather than a report with zero fields.
type Report struct {
	Title  string       `json:"title"`
	Code   string       `json:"code"`
	Fields []FieldError `json:"fields"`
}

// Aggregate is implemented by errors that carry failures for multiple
// fields. Converters merge aggregates field-by-field into the current
// collector instead of flattening them into a single message.
type Aggregate interface {
	error
	FieldErrors() []FieldError
}

// Error implements the error interface.
// Returns a human-readable summary of the collected failures.
func (r Report) Error() string {
	if len(r.Fields) == 0 {
		return "validation failed"
	}

	var parts []string
	for _, fe := range r.Fields {
		if len(fe.Messages) > 0 {
			parts = append(parts, fmt.Sprintf("%s: %s", fe.Field, fe.Messages[0]))
		}
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// FieldErrors implements Aggregate, so a Report produced by one scope can be
// merged wholesale into another collector.
func (r Report) FieldErrors() []FieldError {
	return r.Fields
}

// Details returns the report as a field -> messages mapping, the shape the
// HTTP boundary serializes into error payloads.
func (r Report) Details() map[string][]string {
	if len(r.Fields) == 0 {
		return nil
	}

	details := make(map[string][]string, len(r.Fields))
	for _, fe := range r.Fields {
		details[fe.Field] = append(details[fe.Field], fe.Messages...)
	}
	return details
}

// Has checks whether the report contains errors for a field.
func (r Report) Has(field string) bool {
	for _, fe := range r.Fields {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// Get returns the messages recorded for a field, in insertion order.
func (r Report) Get(field string) []string {
	for _, fe := range r.Fields {
		if fe.Field == field {
			return fe.Messages
		}
	}
	return nil
}
