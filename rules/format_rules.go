package rules

import (
	"net/mail"
	"strings"
)

// Email validates that the value is a plausible email address for typical
// web use: parseable, single local@domain split, dotted domain.
func Email(field, value string) Rule {
	return Rule{
		Check: func() bool {
			if strings.TrimSpace(value) == "" {
				return false
			}

			addr, err := mail.ParseAddress(value)
			if err != nil {
				return false
			}

			parts := strings.Split(addr.Address, "@")
			if len(parts) != 2 {
				return false
			}
			local, domain := parts[0], parts[1]
			if local == "" {
				return false
			}
			if !strings.Contains(domain, ".") ||
				strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
				return false
			}
			return true
		},
		Err: Error{Field: field, Message: "must be a valid email address"},
	}
}
