// Package hwaddr normalizes and compares link-layer hardware addresses.
//
// Addresses arrive from users and from the wire in mixed case and with
// varying separators ("aa:bb:cc:dd:ee:ff", "AA-BB-CC-DD-EE-FF",
// "aabb.ccdd.eeff"). All comparison in lanpin goes through the canonical
// form: six lowercase colon-separated hex octets.
package hwaddr

import (
	"fmt"
	"net"
	"strings"
)

// CanonicalLength is the number of hex digits in a 48-bit hardware address.
const CanonicalLength = 12

// Normalize converts a hardware address string to its canonical form:
// lowercase, colon-separated octets. Separators ':', '-' and '.' are
// accepted in the input. Returns an error if the result is not exactly
// six octets.
func Normalize(addr string) (string, error) {
	stripped := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9':
			return r
		case r >= 'a' && r <= 'f':
			return r
		case r >= 'A' && r <= 'F':
			return r + ('a' - 'A')
		case r == ':' || r == '-' || r == '.':
			return -1
		}
		// Anything else invalidates the address; keep it so the
		// length check below fails.
		return r
	}, addr)

	if len(stripped) != CanonicalLength || !isHex(stripped) {
		return "", fmt.Errorf("invalid hardware address %q", addr)
	}

	octets := make([]string, 0, 6)
	for i := 0; i < CanonicalLength; i += 2 {
		octets = append(octets, stripped[i:i+2])
	}
	return strings.Join(octets, ":"), nil
}

// Parse normalizes addr and returns it as a net.HardwareAddr.
func Parse(addr string) (net.HardwareAddr, error) {
	canonical, err := Normalize(addr)
	if err != nil {
		return nil, err
	}
	hw, err := net.ParseMAC(canonical)
	if err != nil {
		return nil, fmt.Errorf("invalid hardware address %q: %w", addr, err)
	}
	return hw, nil
}

// Equal reports whether two hardware address strings refer to the same
// address, ignoring case and separator style. Malformed addresses never
// compare equal.
func Equal(a, b string) bool {
	na, err := Normalize(a)
	if err != nil {
		return false
	}
	nb, err := Normalize(b)
	if err != nil {
		return false
	}
	return na == nb
}

// IsZero reports whether hw is the all-zero address, which the kernel
// neighbor table uses for incomplete entries.
func IsZero(hw net.HardwareAddr) bool {
	for _, b := range hw {
		if b != 0 {
			return false
		}
	}
	return len(hw) > 0
}

func isHex(s string) bool {
	for _, r := range s {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return false
		}
	}
	return true
}
