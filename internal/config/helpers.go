package config

import (
	"net"
	"strings"
)

// IsLocalhost returns true if host is a local development address.
// host may carry a port ("localhost:8080", "[::1]:3000").
func IsLocalhost(host string) bool {
	h := strings.ToLower(strings.TrimSpace(host))
	if hostOnly, _, err := net.SplitHostPort(h); err == nil {
		h = hostOnly
	}

	return h == "localhost" ||
		h == "127.0.0.1" ||
		h == "::1" ||
		h == "[::1]" // IPv6 with brackets
}
