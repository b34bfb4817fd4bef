// Package rules is a small rule-authoring engine for domain value
// constructors. A constructor applies the rules for its invariants and
// returns the failures as one aggregate, which the codec layer merges into
// the request's error collector.
package rules

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fieldbind/fieldbind"
)

// Error is a single rule failure attributed to a field.
type Error struct {
	Field   string
	Message string
}

// Errors collects rule failures. It implements error and
// fieldbind.Aggregate, so a multi-rule failure merges into a collector
// field by field instead of collapsing to one string.
type Errors []Error

func (e Errors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}

	parts := make([]string, 0, len(e))
	for _, re := range e {
		parts = append(parts, fmt.Sprintf("%s: %s", re.Field, re.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// FieldErrors implements fieldbind.Aggregate, grouping messages by field in
// first-seen order.
func (e Errors) FieldErrors() []fieldbind.FieldError {
	var out []fieldbind.FieldError
	index := make(map[string]int)

	for _, re := range e {
		i, seen := index[re.Field]
		if !seen {
			index[re.Field] = len(out)
			out = append(out, fieldbind.FieldError{Field: re.Field, Messages: []string{re.Message}})
			continue
		}
		out[i].Messages = append(out[i].Messages, re.Message)
	}
	return out
}

// Rule is one check together with the failure it produces.
type Rule struct {
	Check func() bool
	Err   Error
}

// Apply runs every rule and returns the accumulated failures, or nil when
// all pass.
func Apply(rules ...Rule) error {
	var failed Errors
	for _, rule := range rules {
		if !rule.Check() {
			failed = append(failed, rule.Err)
		}
	}

	if len(failed) == 0 {
		return nil
	}
	return failed
}

// Extract pulls Errors out of an error chain, or nil.
func Extract(err error) Errors {
	var re Errors
	if errors.As(err, &re) {
		return re
	}
	return nil
}
