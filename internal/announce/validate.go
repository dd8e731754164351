package announce

import (
	"fmt"
	"net"
	"regexp"
)

// ArgumentError reports malformed announcer input. It is returned
// before any registration is attempted.
type ArgumentError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// namePattern matches a valid DNS label: letters, digits and interior
// hyphens, 1-63 characters.
var namePattern = regexp.MustCompile(`^[A-Za-z0-9]([A-Za-z0-9-]{0,61}[A-Za-z0-9])?$`)

// ValidateName checks that name is usable as a "<name>.local" hostname
// label. Spaces, dots and other reserved characters are rejected rather
// than silently rewritten.
func ValidateName(name string) error {
	if name == "" {
		return &ArgumentError{Field: "name", Value: name, Reason: "must not be empty"}
	}
	if len(name) > 63 {
		return &ArgumentError{Field: "name", Value: name, Reason: "longer than 63 characters"}
	}
	if !namePattern.MatchString(name) {
		return &ArgumentError{
			Field:  "name",
			Value:  name,
			Reason: "must contain only letters, digits and interior hyphens",
		}
	}
	return nil
}

// ValidateIPv4 checks that s is a well-formed IPv4 literal.
func ValidateIPv4(s string) error {
	if s == "" {
		return &ArgumentError{Field: "ip", Value: s, Reason: "must not be empty"}
	}
	ip := net.ParseIP(s)
	if ip == nil || ip.To4() == nil {
		return &ArgumentError{Field: "ip", Value: s, Reason: "not a valid IPv4 address"}
	}
	return nil
}
