package rules

import (
	"fmt"
	"regexp"
	"strings"
)

// Required validates that a string is not empty after trimming whitespace.
func Required(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return strings.TrimSpace(value) != ""
		},
		Err: Error{Field: field, Message: "field is required"},
	}
}

func MinLen(field, value string, min int) Rule {
	return Rule{
		Check: func() bool {
			return len(value) >= min
		},
		Err: Error{Field: field, Message: fmt.Sprintf("must be at least %d characters long", min)},
	}
}

func MaxLen(field, value string, max int) Rule {
	return Rule{
		Check: func() bool {
			return len(value) <= max
		},
		Err: Error{Field: field, Message: fmt.Sprintf("must be at most %d characters long", max)},
	}
}

// Match validates the value against a pattern. The pattern is compiled by
// the caller so a bad expression fails at startup, not per request.
func Match(field, value string, re *regexp.Regexp) Rule {
	return Rule{
		Check: func() bool {
			return re.MatchString(value)
		},
		Err: Error{Field: field, Message: fmt.Sprintf("must match pattern %s", re.String())},
	}
}
